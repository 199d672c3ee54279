package store

import (
	"context"
	"fmt"

	"github.com/x1mrdonut1x/trade-link-sub000/internal/importer"
)

const findCompaniesByNameSQL = `
SELECT id, name
FROM companies
WHERE LOWER(name) = ANY($1)
ORDER BY id`

const createCompanySQL = `
INSERT INTO companies (name, email, phone, address, city, country, website, description)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, name`

const updateCompanySQL = `
UPDATE companies
SET name        = $2,
    email       = COALESCE($3, email),
    phone       = COALESCE($4, phone),
    address     = COALESCE($5, address),
    city        = COALESCE($6, city),
    country     = COALESCE($7, country),
    website     = COALESCE($8, website),
    description = COALESCE($9, description),
    updated_at  = now()
WHERE id = $1
RETURNING id, name`

// FindCompaniesByName returns companies matching any of the given
// lower-cased trimmed names. One query serves the whole batch; the
// preview phase depends on this being a single round trip.
func (s *Store) FindCompaniesByName(ctx context.Context, names []string) ([]importer.CompanyRef, error) {
	if len(names) == 0 {
		return nil, nil
	}

	rows, err := s.db.Query(ctx, findCompaniesByNameSQL, names)
	if err != nil {
		return nil, fmt.Errorf("find companies by name: %w", err)
	}
	defer rows.Close()

	var refs []importer.CompanyRef
	for rows.Next() {
		var ref importer.CompanyRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// CreateCompany inserts a company and returns its id and name.
func (s *Store) CreateCompany(ctx context.Context, data importer.CompanyData) (importer.CompanyRef, error) {
	var ref importer.CompanyRef
	err := s.db.QueryRow(ctx, createCompanySQL,
		data.Name,
		textOrNull(data.Email),
		textOrNull(data.Phone),
		textOrNull(data.Address),
		textOrNull(data.City),
		textOrNull(data.Country),
		textOrNull(data.Website),
		textOrNull(data.Description),
	).Scan(&ref.ID, &ref.Name)
	if err != nil {
		return importer.CompanyRef{}, fmt.Errorf("create company: %w", err)
	}
	return ref, nil
}

// UpdateCompany updates a company by id. Blank fields leave the stored
// value untouched; an import never blanks out data it did not carry.
func (s *Store) UpdateCompany(ctx context.Context, id int, data importer.CompanyData) (importer.CompanyRef, error) {
	var ref importer.CompanyRef
	err := s.db.QueryRow(ctx, updateCompanySQL,
		id,
		data.Name,
		textOrNull(data.Email),
		textOrNull(data.Phone),
		textOrNull(data.Address),
		textOrNull(data.City),
		textOrNull(data.Country),
		textOrNull(data.Website),
		textOrNull(data.Description),
	).Scan(&ref.ID, &ref.Name)
	if err != nil {
		return importer.CompanyRef{}, fmt.Errorf("update company %d: %w", id, err)
	}
	return ref, nil
}
