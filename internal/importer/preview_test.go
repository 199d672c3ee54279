package importer

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func previewService(repo *fakeRepo) *Service {
	return NewService(repo, nil, nil)
}

func TestPreviewMixedNewCompanyAndContact(t *testing.T) {
	csvData := "Company,First,Last,Email\nAcme Corp,John,Doe,john@acme.com\n"

	result, err := previewService(newFakeRepo()).Preview(context.Background(), []byte(csvData), mixedMappings(), ModeMixed)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}

	if len(result.Companies) != 1 {
		t.Fatalf("companies = %d, want 1", len(result.Companies))
	}
	company := result.Companies[0]
	if company.Action != ActionCreate {
		t.Errorf("company action = %q, want create", company.Action)
	}
	if company.Data.Name != "Acme Corp" {
		t.Errorf("company name = %q", company.Data.Name)
	}
	if company.CompanyID == nil || *company.CompanyID != -1 {
		t.Errorf("company synthetic id = %v, want -1", company.CompanyID)
	}
	if !company.Selected {
		t.Error("company entry not selected by default")
	}

	if len(result.Contacts) != 1 {
		t.Fatalf("contacts = %d, want 1", len(result.Contacts))
	}
	contact := result.Contacts[0]
	if contact.Action != ActionCreate {
		t.Errorf("contact action = %q, want create", contact.Action)
	}
	if contact.MatchedCompany == nil || contact.MatchedCompany.ID != -1 || contact.MatchedCompany.Name != "Acme Corp" {
		t.Errorf("matchedCompany = %+v", contact.MatchedCompany)
	}
	if contact.CompanyID == nil || *contact.CompanyID != -1 {
		t.Errorf("contact companyId = %v, want -1", contact.CompanyID)
	}

	if result.SkippedRows != 0 {
		t.Errorf("skippedRows = %d, want 0", result.SkippedRows)
	}
}

func TestPreviewMixedCompanyFromContactSide(t *testing.T) {
	// No company columns mapped at all: in mixed mode the company entry
	// is sourced from the contact's free-text company name.
	mappings := FieldMappings{
		Contacts: []FieldMapping{
			{Column: 0, Field: FieldContactFirstName},
			{Column: 1, Field: FieldContactLastName},
			{Column: 2, Field: FieldContactEmail},
			{Column: 3, Field: FieldContactCompanyName},
		},
	}
	csvData := "First,Last,Email,Company\nJohn,Doe,john@acme.com,Acme Corp\n"

	result, err := previewService(newFakeRepo()).Preview(context.Background(), []byte(csvData), mappings, ModeMixed)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}

	if len(result.Companies) != 1 {
		t.Fatalf("companies = %d, want 1", len(result.Companies))
	}
	company := result.Companies[0]
	if company.Action != ActionCreate {
		t.Errorf("company action = %q, want create", company.Action)
	}
	if company.Data.Name != "Acme Corp" {
		t.Errorf("company name = %q, want contact-side name", company.Data.Name)
	}
	if company.CompanyID == nil || *company.CompanyID != -1 {
		t.Errorf("company synthetic id = %v, want -1", company.CompanyID)
	}

	if len(result.Contacts) != 1 {
		t.Fatalf("contacts = %d, want 1", len(result.Contacts))
	}
	contact := result.Contacts[0]
	if contact.MatchedCompany == nil || contact.MatchedCompany.ID != -1 || contact.MatchedCompany.Name != "Acme Corp" {
		t.Errorf("matchedCompany = %+v", contact.MatchedCompany)
	}
	if contact.CompanyID == nil || *contact.CompanyID != -1 {
		t.Errorf("contact companyId = %v, want -1", contact.CompanyID)
	}
}

func TestPreviewExistingCompanyCaseInsensitive(t *testing.T) {
	repo := newFakeRepo()
	repo.companies = []CompanyRef{{ID: 7, Name: "Acme Corp"}}

	mappings := FieldMappings{
		Companies: []FieldMapping{
			{Column: 0, Field: FieldCompanyName},
			{Column: 1, Field: FieldCompanyEmail},
		},
	}
	csvData := "Name,Email\nACME CORP,sales@acme.com\n"

	result, err := previewService(repo).Preview(context.Background(), []byte(csvData), mappings, ModeCompanies)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}

	if len(result.Companies) != 1 {
		t.Fatalf("companies = %d, want 1", len(result.Companies))
	}
	entry := result.Companies[0]
	if entry.Action != ActionUpdate {
		t.Errorf("action = %q, want update", entry.Action)
	}
	if entry.ExistingID == nil || *entry.ExistingID != 7 {
		t.Errorf("existingId = %v, want 7", entry.ExistingID)
	}
	if len(result.Contacts) != 0 {
		t.Errorf("contacts = %d, want 0", len(result.Contacts))
	}
}

func TestPreviewDuplicateCompanyNameInFile(t *testing.T) {
	csvData := strings.Join([]string{
		"Company,First,Last,Email",
		"New Co,John,Doe,john@newco.com",
		"NEW CO,Jane,Smith,jane@newco.com",
		"",
	}, "\n")

	result, err := previewService(newFakeRepo()).Preview(context.Background(), []byte(csvData), mixedMappings(), ModeMixed)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}

	if len(result.Companies) != 1 {
		t.Fatalf("duplicate name produced %d company entries, want 1", len(result.Companies))
	}
	if len(result.Contacts) != 2 {
		t.Fatalf("contacts = %d, want 2", len(result.Contacts))
	}
	for i, contact := range result.Contacts {
		if contact.CompanyID == nil || *contact.CompanyID != -1 {
			t.Errorf("contact %d companyId = %v, want shared -1", i, contact.CompanyID)
		}
	}
}

func TestPreviewExistingContactBecomesUpdate(t *testing.T) {
	repo := newFakeRepo()
	repo.contacts = []ContactRef{{ID: 42, Email: "john@acme.com"}}

	mappings := FieldMappings{
		Contacts: []FieldMapping{
			{Column: 0, Field: FieldContactFirstName},
			{Column: 1, Field: FieldContactLastName},
			{Column: 2, Field: FieldContactEmail},
		},
	}
	csvData := "First,Last,Email\nJohn,Doe,john@acme.com\n"

	result, err := previewService(repo).Preview(context.Background(), []byte(csvData), mappings, ModeContacts)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}

	if len(result.Contacts) != 1 {
		t.Fatalf("contacts = %d, want 1", len(result.Contacts))
	}
	entry := result.Contacts[0]
	if entry.Action != ActionUpdate {
		t.Errorf("action = %q, want update", entry.Action)
	}
	if entry.ExistingID == nil || *entry.ExistingID != 42 {
		t.Errorf("existingId = %v, want 42", entry.ExistingID)
	}
}

func TestPreviewSkipsIncompleteContacts(t *testing.T) {
	mappings := FieldMappings{
		Contacts: []FieldMapping{
			{Column: 0, Field: FieldContactFirstName},
			{Column: 1, Field: FieldContactLastName},
			{Column: 2, Field: FieldContactEmail},
		},
	}
	csvData := strings.Join([]string{
		"First,Last,Email",
		"John,,john@acme.com",
		"Jane,Smith,jane@acme.com",
		"",
	}, "\n")

	result, err := previewService(newFakeRepo()).Preview(context.Background(), []byte(csvData), mappings, ModeContacts)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}

	if len(result.Contacts) != 1 {
		t.Fatalf("contacts = %d, want 1", len(result.Contacts))
	}
	if result.Contacts[0].Data.FirstName != "Jane" {
		t.Errorf("wrong contact survived: %+v", result.Contacts[0].Data)
	}
	if result.SkippedRows != 1 {
		t.Errorf("skippedRows = %d, want 1", result.SkippedRows)
	}
}

func TestPreviewEmptyRowsIgnored(t *testing.T) {
	mappings := FieldMappings{
		Companies: []FieldMapping{{Column: 0, Field: FieldCompanyName}},
	}
	csvData := "Name\nAcme\n , \n\nGlobex\n"

	result, err := previewService(newFakeRepo()).Preview(context.Background(), []byte(csvData), mappings, ModeCompanies)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}

	if len(result.Companies) != 2 {
		t.Fatalf("companies = %d, want 2", len(result.Companies))
	}
	if result.SkippedRows != 0 {
		t.Errorf("empty rows counted as skipped: %d", result.SkippedRows)
	}
}

func TestPreviewRequestLevelErrors(t *testing.T) {
	valid := FieldMappings{Companies: []FieldMapping{{Column: 0, Field: FieldCompanyName}}}

	tests := []struct {
		name     string
		data     string
		mappings FieldMappings
	}{
		{"empty file", "", valid},
		{"header only", "Name\n", valid},
		{"unknown field", "Name\nAcme\n", FieldMappings{Companies: []FieldMapping{{Column: 0, Field: "bogus"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := previewService(newFakeRepo()).Preview(context.Background(), []byte(tt.data), tt.mappings, ModeCompanies)
			if err == nil {
				t.Error("expected request-level error, got nil")
			}
		})
	}
}

func TestPreviewLookupFailureDegradesToCreate(t *testing.T) {
	repo := newFakeRepo()
	repo.companies = []CompanyRef{{ID: 7, Name: "Acme Corp"}}
	repo.findCompaniesErr = errors.New("connection refused")

	mappings := FieldMappings{Companies: []FieldMapping{{Column: 0, Field: FieldCompanyName}}}
	csvData := "Name\nAcme Corp\n"

	result, err := previewService(repo).Preview(context.Background(), []byte(csvData), mappings, ModeCompanies)
	if err != nil {
		t.Fatalf("Preview failed the request on a lookup error: %v", err)
	}

	if len(result.Companies) != 1 {
		t.Fatalf("companies = %d, want 1", len(result.Companies))
	}
	if result.Companies[0].Action != ActionCreate {
		t.Errorf("action = %q, want create when lookup degrades", result.Companies[0].Action)
	}
}

func TestPreviewSingleBulkLookupPerRequest(t *testing.T) {
	repo := newFakeRepo()
	csvData := strings.Join([]string{
		"Company,First,Last,Email",
		"A Co,John,Doe,john@a.com",
		"B Co,Jane,Roe,jane@b.com",
		"C Co,Jim,Poe,jim@c.com",
		"",
	}, "\n")

	if _, err := previewService(repo).Preview(context.Background(), []byte(csvData), mixedMappings(), ModeMixed); err != nil {
		t.Fatalf("Preview: %v", err)
	}

	if repo.findCompanyCalls != 1 {
		t.Errorf("company lookups = %d, want 1", repo.findCompanyCalls)
	}
	if repo.findContactCalls != 1 {
		t.Errorf("contact lookups = %d, want 1", repo.findContactCalls)
	}
}
