package importer

// mapper.go turns a raw CSV row plus the user's column mappings into
// closed company/contact records, and classifies what each row yields
// under the selected import mode. Both steps are pure.

import (
	"fmt"
	"strings"
)

// Company field names accepted in mappings.
const (
	FieldCompanyName        = "name"
	FieldCompanyEmail       = "email"
	FieldCompanyPhone       = "phone"
	FieldCompanyAddress     = "address"
	FieldCompanyCity        = "city"
	FieldCompanyCountry     = "country"
	FieldCompanyWebsite     = "website"
	FieldCompanyDescription = "description"
)

// Contact field names accepted in mappings.
const (
	FieldContactFirstName   = "firstName"
	FieldContactLastName    = "lastName"
	FieldContactEmail       = "email"
	FieldContactPhone       = "phone"
	FieldContactJobTitle    = "jobTitle"
	FieldContactCompanyName = "companyName"
)

// ValidateMappings rejects mappings that reference unknown target
// fields. A bad mapping is a request-level error, caught before any row
// is processed. Out-of-range column indices are not validated here;
// they are silently skipped per row because CSV rows may be ragged.
func ValidateMappings(m FieldMappings) error {
	for _, fm := range m.Companies {
		if !setCompanyField(&CompanyData{}, fm.Field, "") {
			return fmt.Errorf("unknown company field: %q", fm.Field)
		}
	}
	for _, fm := range m.Contacts {
		if !setContactField(&ContactData{}, fm.Field, "") {
			return fmt.Errorf("unknown contact field: %q", fm.Field)
		}
	}
	return nil
}

// MapRow applies the column mappings to one CSV row, producing the
// candidate company and contact records. Cells are cleaned and trimmed;
// indices outside the row are skipped. Later mappings for the same
// target field overwrite earlier ones.
func MapRow(row []string, m FieldMappings) (CompanyData, ContactData) {
	var company CompanyData
	var contact ContactData

	for _, fm := range m.Companies {
		if fm.Column < 0 || fm.Column >= len(row) {
			continue
		}
		setCompanyField(&company, fm.Field, CleanCell(row[fm.Column]))
	}

	for _, fm := range m.Contacts {
		if fm.Column < 0 || fm.Column >= len(row) {
			continue
		}
		setContactField(&contact, fm.Field, CleanCell(row[fm.Column]))
	}

	return company, contact
}

func setCompanyField(c *CompanyData, field, value string) bool {
	switch field {
	case FieldCompanyName:
		c.Name = value
	case FieldCompanyEmail:
		c.Email = value
	case FieldCompanyPhone:
		c.Phone = value
	case FieldCompanyAddress:
		c.Address = value
	case FieldCompanyCity:
		c.City = value
	case FieldCompanyCountry:
		c.Country = value
	case FieldCompanyWebsite:
		c.Website = value
	case FieldCompanyDescription:
		c.Description = value
	default:
		return false
	}
	return true
}

func setContactField(c *ContactData, field, value string) bool {
	switch field {
	case FieldContactFirstName:
		c.FirstName = value
	case FieldContactLastName:
		c.LastName = value
	case FieldContactEmail:
		c.Email = value
	case FieldContactPhone:
		c.Phone = value
	case FieldContactJobTitle:
		c.JobTitle = value
	case FieldContactCompanyName:
		c.CompanyName = value
	default:
		return false
	}
	return true
}

// shouldImportCompany decides whether a row yields a company entry.
// In mixed mode a company can be sourced from the contact side's
// free-text company name even when no company columns are mapped.
func shouldImportCompany(mode ImportMode, company CompanyData, contact ContactData) bool {
	if mode == ModeContacts {
		return false
	}
	if strings.TrimSpace(company.Name) != "" {
		return true
	}
	return mode == ModeMixed && strings.TrimSpace(contact.CompanyName) != ""
}

// shouldImportContact decides whether a row yields a contact entry.
// First name, last name and email are hard preconditions; rows missing
// any of them contribute nothing and raise no error.
func shouldImportContact(mode ImportMode, contact ContactData) bool {
	if mode == ModeCompanies {
		return false
	}
	return strings.TrimSpace(contact.FirstName) != "" &&
		strings.TrimSpace(contact.LastName) != "" &&
		strings.TrimSpace(contact.Email) != ""
}
