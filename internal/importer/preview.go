package importer

// preview.go is the read-only pass: it classifies every data row,
// resolves duplicates against the store and within the file, and
// assembles the reviewable list of proposed operations. Nothing is
// persisted here.

import (
	"context"
	"fmt"

	"github.com/x1mrdonut1x/trade-link-sub000/internal/logging"
)

// Preview analyzes a CSV file and proposes company/contact operations.
//
// It fails the whole request only for request-level problems: an empty
// file, no data rows after the header, or a mapping referencing an
// unknown field. Individual rows never abort the preview; rows that
// yield nothing are counted in SkippedRows.
//
// Rows are processed strictly in input order. Order is semantically
// significant: it determines which row owns a newly seen company name
// and which synthetic id later rows resolve against.
func (s *Service) Preview(ctx context.Context, fileData []byte, mappings FieldMappings, mode ImportMode) (*PreviewResult, error) {
	if err := ValidateMappings(mappings); err != nil {
		return nil, err
	}

	fileData = sanitizeUTF8(fileData)
	records, err := parseCSV(fileData)
	if err != nil {
		return nil, fmt.Errorf("parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	// Header row is discarded; callers validate it if they care.
	dataRows := records[1:]
	if len(dataRows) == 0 {
		return nil, fmt.Errorf("no data rows after header")
	}

	logger := logging.FromContext(ctx)

	// First pass: map every row once and collect the natural keys for
	// the bulk lookups. Resolving per row would be O(rows) round trips.
	type mappedRow struct {
		company CompanyData
		contact ContactData
		empty   bool
	}

	mapped := make([]mappedRow, len(dataRows))
	nameKeys := make(map[string]struct{})
	emails := make(map[string]struct{})

	for i, row := range dataRows {
		if isEmptyRow(row) {
			mapped[i] = mappedRow{empty: true}
			continue
		}

		company, contact := MapRow(row, mappings)
		mapped[i] = mappedRow{company: company, contact: contact}

		if k := nameKey(company.Name); k != "" {
			nameKeys[k] = struct{}{}
		}
		if k := nameKey(contact.CompanyName); k != "" {
			nameKeys[k] = struct{}{}
		}
		if shouldImportContact(mode, contact) {
			emails[contact.Email] = struct{}{}
		}
	}

	existingCompanies := s.lookupCompanies(ctx, keys(nameKeys))
	existingContacts := s.lookupContacts(ctx, keys(emails))

	rc := newResolutionContext(existingCompanies)
	result := &PreviewResult{}

	// Second pass: strict input order. Company resolution runs before
	// contact linking for the same row so the row's own company wins.
	for i := range dataRows {
		mr := mapped[i]
		if mr.empty {
			continue
		}

		company, contact := mr.company, mr.contact
		var rowCompany *CompanyRef

		if shouldImportCompany(mode, company, contact) {
			if company.Name == "" {
				// Mixed mode: company sourced from the contact side.
				company.Name = contact.CompanyName
			}

			entry, ref, firstSeen := rc.resolveCompany(company)
			if firstSeen {
				result.Companies = append(result.Companies, entry)
			}
			rowCompany = &ref
		}

		if shouldImportContact(mode, contact) {
			matched, companyID := rc.linkContact(rowCompany, contact.CompanyName)

			entry := Entry[ContactData]{
				Data:           contact,
				Action:         ActionCreate,
				Selected:       true,
				MatchedCompany: matched,
				CompanyID:      companyID,
			}
			if ref, ok := existingContacts[contact.Email]; ok {
				id := ref.ID
				entry.Action = ActionUpdate
				entry.ExistingID = &id
			}
			result.Contacts = append(result.Contacts, entry)
		} else if rowCompany == nil {
			result.SkippedRows++
			logger.Debug("row skipped", "row", i+2, "mode", string(mode))
		}
	}

	return result, nil
}

// lookupCompanies performs the bulk case-insensitive company fetch.
// A lookup failure degrades the preview (everything classifies as
// create) rather than failing the request; the error is logged loudly
// so operators notice.
func (s *Service) lookupCompanies(ctx context.Context, names []string) []CompanyRef {
	if len(names) == 0 {
		return nil
	}
	refs, err := s.repo.FindCompaniesByName(ctx, names)
	if err != nil {
		logging.FromContext(ctx).Error("bulk company lookup failed", "names", len(names), "error", err)
		return nil
	}
	return refs
}

// lookupContacts performs the bulk exact-email contact fetch, with the
// same degrade-on-failure policy as lookupCompanies.
func (s *Service) lookupContacts(ctx context.Context, emails []string) map[string]ContactRef {
	if len(emails) == 0 {
		return nil
	}
	refs, err := s.repo.FindContactsByEmail(ctx, emails)
	if err != nil {
		logging.FromContext(ctx).Error("bulk contact lookup failed", "emails", len(emails), "error", err)
		return nil
	}

	byEmail := make(map[string]ContactRef, len(refs))
	for _, ref := range refs {
		byEmail[ref.Email] = ref
	}
	return byEmail
}

func keys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
