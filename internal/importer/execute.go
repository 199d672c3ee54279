package importer

// execute.go is the write pass. Companies are written first; the
// resulting name→id and temp-id→id maps then resolve every contact's
// company reference before any contact is written. One entry's failure
// never aborts the batch: it is counted, reported, and the loop moves
// on. Already-written entities are not rolled back; partial success is
// the defined terminal state.

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/x1mrdonut1x/trade-link-sub000/internal/logging"
)

// Execute persists the reviewer-approved entries and reports per-entry
// outcomes. It always returns a result; callers must check Success and
// Errors rather than an error return.
//
// Entries with Selected=false are skipped without touching the stats.
// Row numbers in errors are a running 1-based count across companies
// then contacts, matching entry positions in the request.
func (s *Service) Execute(ctx context.Context, companies []Entry[CompanyData], contacts []Entry[ContactData]) *ExecuteResult {
	start := time.Now()
	logger := logging.WithFields(ctx, "run_id", uuid.New().String())

	result := &ExecuteResult{
		Stats: Stats{TotalRecords: len(companies) + len(contacts)},
	}

	realByName := make(map[string]int) // name key -> real id, from phase A
	realByTemp := make(map[int]int)    // synthetic id -> real id

	row := 0

	// Phase A: companies, in list order.
	for _, entry := range companies {
		row++
		if !entry.Selected {
			continue
		}

		ref, err := s.writeCompany(ctx, entry)
		if err != nil {
			result.Stats.Errors++
			result.Errors = append(result.Errors, RowError{
				Row:     row,
				Field:   "company",
				Message: err.Error(),
			})
			logger.Warn("company write failed", "row", row, "action", string(entry.Action), "error", err)
			continue
		}

		result.Stats.Companies++
		realByName[nameKey(ref.Name)] = ref.ID
		if entry.CompanyID != nil && *entry.CompanyID < 0 {
			realByTemp[*entry.CompanyID] = ref.ID
		}
	}

	// Phase B: contacts. All company writes have completed (or failed
	// individually) by this point; the maps above are final.
	companyIDs := s.resolveContactCompanies(ctx, contacts, realByName, realByTemp)

	for i, entry := range contacts {
		row++
		if !entry.Selected {
			continue
		}

		if err := s.writeContact(ctx, entry, companyIDs[i]); err != nil {
			result.Stats.Errors++
			result.Errors = append(result.Errors, RowError{
				Row:     row,
				Field:   "contact",
				Message: err.Error(),
			})
			logger.Warn("contact write failed", "row", row, "action", string(entry.Action), "error", err)
			continue
		}

		result.Stats.Contacts++
	}

	result.Success = result.Stats.Errors == 0

	logger.Info("import executed",
		"total", result.Stats.TotalRecords,
		"companies", result.Stats.Companies,
		"contacts", result.Stats.Contacts,
		"errors", result.Stats.Errors,
		"duration", time.Since(start),
	)

	s.recordRun(ctx, result, time.Since(start))

	return result
}

// writeCompany performs one create or update against the store.
func (s *Service) writeCompany(ctx context.Context, entry Entry[CompanyData]) (CompanyRef, error) {
	if entry.Action == ActionUpdate {
		if entry.ExistingID == nil {
			return CompanyRef{}, errors.New("update entry missing existing id")
		}
		return s.repo.UpdateCompany(ctx, *entry.ExistingID, entry.Data)
	}
	return s.repo.CreateCompany(ctx, entry.Data)
}

// resolveContactCompanies computes each contact's effective company id
// up front, so the write loop stays a straight fold over entries.
//
// For every contact, in priority order:
//   - a negative id from preview translates through the phase A temp
//     map; untranslatable ids degrade to no association;
//   - a positive id is used as-is;
//   - otherwise the free-text company name is looked up in the merged
//     name→id map.
//
// The merged map is the bulk store fetch of still-unresolved names,
// overlaid with phase A results so contacts can reference companies
// created moments earlier in this same run.
func (s *Service) resolveContactCompanies(ctx context.Context, contacts []Entry[ContactData], realByName map[string]int, realByTemp map[int]int) []*int {
	// Bulk-fetch names that no id or phase A result will cover.
	unresolved := make(map[string]struct{})
	for _, entry := range contacts {
		if !entry.Selected || entry.CompanyID != nil {
			continue
		}
		if k := nameKey(entry.Data.CompanyName); k != "" {
			if _, ok := realByName[k]; !ok {
				unresolved[k] = struct{}{}
			}
		}
	}

	merged := make(map[string]int, len(realByName)+len(unresolved))
	if len(unresolved) > 0 {
		refs, err := s.repo.FindCompaniesByName(ctx, keys(unresolved))
		if err != nil {
			// A miss degrades to "no company association"; same for a
			// failed lookup, but that one is worth a loud log line.
			logging.FromContext(ctx).Error("company lookup for contacts failed", "names", len(unresolved), "error", err)
		}
		for _, ref := range refs {
			merged[nameKey(ref.Name)] = ref.ID
		}
	}
	for k, id := range realByName {
		merged[k] = id
	}

	ids := make([]*int, len(contacts))
	for i, entry := range contacts {
		switch {
		case entry.CompanyID != nil && *entry.CompanyID < 0:
			// Synthetic id from preview. Untranslatable ids (the
			// company write failed or was deselected) degrade to no
			// association rather than failing the contact.
			if real, ok := realByTemp[*entry.CompanyID]; ok {
				ids[i] = &real
			}
		case entry.CompanyID != nil && *entry.CompanyID > 0:
			id := *entry.CompanyID
			ids[i] = &id
		default:
			if real, ok := merged[nameKey(entry.Data.CompanyName)]; ok {
				ids[i] = &real
			}
		}
	}
	return ids
}

// writeContact performs one create or update against the store. The
// free-text company name is stripped; it is not a persistable field.
func (s *Service) writeContact(ctx context.Context, entry Entry[ContactData], companyID *int) error {
	data := entry.Data
	data.CompanyName = ""

	if entry.Action == ActionUpdate {
		if entry.ExistingID == nil {
			return errors.New("update entry missing existing id")
		}
		_, err := s.repo.UpdateContact(ctx, *entry.ExistingID, data, companyID)
		return err
	}
	_, err := s.repo.CreateContact(ctx, data, companyID)
	return err
}

// recordRun persists the run to history when a store is configured.
// History is best effort; a failure never alters the import result.
func (s *Service) recordRun(ctx context.Context, result *ExecuteResult, duration time.Duration) {
	if s.runs == nil {
		return
	}
	run := ImportRun{
		ID:        uuid.New().String(),
		Stats:     result.Stats,
		Errors:    result.Errors,
		Duration:  duration,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.runs.RecordRun(ctx, run); err != nil {
		logging.FromContext(ctx).Error("record import run failed", "run_id", run.ID, "error", err)
	}
}
