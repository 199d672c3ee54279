package importer

import (
	"context"
	"fmt"
	"strings"
)

// fakeRepo is an in-memory Repository for engine tests. Writes are
// recorded so tests can assert on what would have been persisted, and
// individual operations can be forced to fail by natural key.
type fakeRepo struct {
	companies []CompanyRef
	contacts  []ContactRef

	nextCompanyID int
	nextContactID int

	failCompany map[string]bool // name key -> fail create/update
	failContact map[string]bool // email -> fail create/update

	findCompaniesErr error
	findContactsErr  error

	createdCompanies []CompanyData
	updatedCompanies map[int]CompanyData
	createdContacts  []createdContact
	updatedContacts  map[int]createdContact

	findCompanyCalls int
	findContactCalls int
}

type createdContact struct {
	data      ContactData
	companyID *int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		nextCompanyID:    100,
		nextContactID:    500,
		failCompany:      make(map[string]bool),
		failContact:      make(map[string]bool),
		updatedCompanies: make(map[int]CompanyData),
		updatedContacts:  make(map[int]createdContact),
	}
}

func (f *fakeRepo) FindCompaniesByName(ctx context.Context, names []string) ([]CompanyRef, error) {
	f.findCompanyCalls++
	if f.findCompaniesErr != nil {
		return nil, f.findCompaniesErr
	}

	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	var out []CompanyRef
	for _, ref := range f.companies {
		if want[strings.ToLower(ref.Name)] {
			out = append(out, ref)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindContactsByEmail(ctx context.Context, emails []string) ([]ContactRef, error) {
	f.findContactCalls++
	if f.findContactsErr != nil {
		return nil, f.findContactsErr
	}

	want := make(map[string]bool, len(emails))
	for _, e := range emails {
		want[e] = true
	}

	var out []ContactRef
	for _, ref := range f.contacts {
		if want[ref.Email] {
			out = append(out, ref)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateCompany(ctx context.Context, data CompanyData) (CompanyRef, error) {
	if f.failCompany[strings.ToLower(data.Name)] {
		return CompanyRef{}, fmt.Errorf("create company %q: forced failure", data.Name)
	}
	f.nextCompanyID++
	ref := CompanyRef{ID: f.nextCompanyID, Name: data.Name}
	f.companies = append(f.companies, ref)
	f.createdCompanies = append(f.createdCompanies, data)
	return ref, nil
}

func (f *fakeRepo) UpdateCompany(ctx context.Context, id int, data CompanyData) (CompanyRef, error) {
	if f.failCompany[strings.ToLower(data.Name)] {
		return CompanyRef{}, fmt.Errorf("update company %q: forced failure", data.Name)
	}
	f.updatedCompanies[id] = data
	return CompanyRef{ID: id, Name: data.Name}, nil
}

func (f *fakeRepo) CreateContact(ctx context.Context, data ContactData, companyID *int) (ContactRef, error) {
	if f.failContact[data.Email] {
		return ContactRef{}, fmt.Errorf("create contact %q: forced failure", data.Email)
	}
	f.nextContactID++
	ref := ContactRef{ID: f.nextContactID, Email: data.Email}
	f.contacts = append(f.contacts, ref)
	f.createdContacts = append(f.createdContacts, createdContact{data: data, companyID: companyID})
	return ref, nil
}

func (f *fakeRepo) UpdateContact(ctx context.Context, id int, data ContactData, companyID *int) (ContactRef, error) {
	if f.failContact[data.Email] {
		return ContactRef{}, fmt.Errorf("update contact %q: forced failure", data.Email)
	}
	f.updatedContacts[id] = createdContact{data: data, companyID: companyID}
	return ContactRef{ID: id, Email: data.Email}, nil
}

// Shared mapping fixtures used across preview tests.

func mixedMappings() FieldMappings {
	return FieldMappings{
		Companies: []FieldMapping{{Column: 0, Field: FieldCompanyName}},
		Contacts: []FieldMapping{
			{Column: 1, Field: FieldContactFirstName},
			{Column: 2, Field: FieldContactLastName},
			{Column: 3, Field: FieldContactEmail},
			{Column: 0, Field: FieldContactCompanyName},
		},
	}
}

func intPtr(v int) *int { return &v }
