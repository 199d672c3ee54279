package store

import (
	"context"
	"fmt"

	"github.com/x1mrdonut1x/trade-link-sub000/internal/importer"
)

const findContactsByEmailSQL = `
SELECT id, email
FROM contacts
WHERE email = ANY($1)
ORDER BY id`

const createContactSQL = `
INSERT INTO contacts (first_name, last_name, email, phone, job_title, company_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, email`

const updateContactSQL = `
UPDATE contacts
SET first_name = $2,
    last_name  = $3,
    email      = $4,
    phone      = COALESCE($5, phone),
    job_title  = COALESCE($6, job_title),
    company_id = COALESCE($7, company_id),
    updated_at = now()
WHERE id = $1
RETURNING id, email`

// FindContactsByEmail returns contacts matching any of the given emails
// by exact equality. Emails are canonical identifiers, so unlike company
// names this match is case-sensitive.
func (s *Store) FindContactsByEmail(ctx context.Context, emails []string) ([]importer.ContactRef, error) {
	if len(emails) == 0 {
		return nil, nil
	}

	rows, err := s.db.Query(ctx, findContactsByEmailSQL, emails)
	if err != nil {
		return nil, fmt.Errorf("find contacts by email: %w", err)
	}
	defer rows.Close()

	var refs []importer.ContactRef
	for rows.Next() {
		var ref importer.ContactRef
		if err := rows.Scan(&ref.ID, &ref.Email); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// CreateContact inserts a contact with an optional company association.
// data.CompanyName is intentionally ignored; it is a free-text reference
// resolved by the engine, not a persistable field.
func (s *Store) CreateContact(ctx context.Context, data importer.ContactData, companyID *int) (importer.ContactRef, error) {
	var ref importer.ContactRef
	err := s.db.QueryRow(ctx, createContactSQL,
		data.FirstName,
		data.LastName,
		data.Email,
		textOrNull(data.Phone),
		textOrNull(data.JobTitle),
		int8OrNull(companyID),
	).Scan(&ref.ID, &ref.Email)
	if err != nil {
		return importer.ContactRef{}, fmt.Errorf("create contact: %w", err)
	}
	return ref, nil
}

// UpdateContact updates a contact by id, with the same optional company
// association semantics as CreateContact.
func (s *Store) UpdateContact(ctx context.Context, id int, data importer.ContactData, companyID *int) (importer.ContactRef, error) {
	var ref importer.ContactRef
	err := s.db.QueryRow(ctx, updateContactSQL,
		id,
		data.FirstName,
		data.LastName,
		data.Email,
		textOrNull(data.Phone),
		textOrNull(data.JobTitle),
		int8OrNull(companyID),
	).Scan(&ref.ID, &ref.Email)
	if err != nil {
		return importer.ContactRef{}, fmt.Errorf("update contact %d: %w", id, err)
	}
	return ref, nil
}
