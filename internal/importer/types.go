// Package importer provides the business logic for bulk CSV imports of
// companies and contacts. This package has no HTTP dependencies and can
// be driven by any frontend.
//
// An import happens in two phases. Preview maps and classifies every CSV
// row, resolves duplicates against the store and within the file, and
// proposes a reviewable list of create/update operations without writing
// anything. Execute persists the reviewer-approved subset with per-entry
// error isolation.
package importer

import (
	"context"
	"fmt"
	"time"
)

// ImportMode constrains which entity kinds a row may produce.
type ImportMode string

const (
	ModeCompanies ImportMode = "companies"
	ModeContacts  ImportMode = "contacts"
	ModeMixed     ImportMode = "mixed"
)

// ParseMode validates a mode string from the request surface.
func ParseMode(s string) (ImportMode, error) {
	switch ImportMode(s) {
	case ModeCompanies, ModeContacts, ModeMixed:
		return ImportMode(s), nil
	}
	return "", fmt.Errorf("unknown import mode: %q", s)
}

// Action is the proposed write operation for an entry.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
)

// FieldMapping pairs a CSV column index with a target field name.
type FieldMapping struct {
	Column int    `json:"csvColumnIndex"`
	Field  string `json:"targetField"`
}

// FieldMappings holds the column mappings for both entity kinds.
// Duplicate mappings onto one target field resolve last-write-wins in
// list order.
type FieldMappings struct {
	Companies []FieldMapping `json:"companies"`
	Contacts  []FieldMapping `json:"contacts"`
}

// CompanyData is the flat set of importable company fields.
// All fields are optional strings; blank means "not provided".
type CompanyData struct {
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	Country     string `json:"country,omitempty"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`
}

// ContactData is the flat set of importable contact fields.
//
// CompanyName is a free-text reference to a company, never a foreign
// key. It is resolved to a company id during preview/execute and is
// stripped before the contact is written.
type ContactData struct {
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	JobTitle    string `json:"jobTitle,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
}

// CompanyRef identifies a company by id and display name. During preview
// the id may be a synthetic negative id for a company that exists only
// in the current batch.
type CompanyRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ContactRef identifies a persisted contact.
type ContactRef struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
}

// Entry is one proposed write operation.
//
// ExistingID is set iff Action is ActionUpdate. Selected defaults to
// true and is the only field a reviewer is expected to flip before
// execution. MatchedCompany and CompanyID are populated on contact
// entries that resolved a company reference; CompanyID also carries the
// synthetic id on company create entries so execute can translate
// references from sibling contacts.
type Entry[T any] struct {
	Data           T           `json:"data"`
	Action         Action      `json:"action"`
	ExistingID     *int        `json:"existingId,omitempty"`
	Selected       bool        `json:"selected"`
	MatchedCompany *CompanyRef `json:"matchedCompany,omitempty"`
	CompanyID      *int        `json:"companyId,omitempty"`
}

// PreviewResult is the reviewable outcome of the preview phase.
// SkippedRows counts non-empty rows that produced no entry, either
// because classification dropped them or because row processing failed.
type PreviewResult struct {
	Companies   []Entry[CompanyData] `json:"companies"`
	Contacts    []Entry[ContactData] `json:"contacts"`
	SkippedRows int                  `json:"skippedRows"`
}

// Stats accumulates execution counters. Values are never decremented.
type Stats struct {
	TotalRecords int `json:"totalRecords"`
	Companies    int `json:"companies"`
	Contacts     int `json:"contacts"`
	Errors       int `json:"errors"`
}

// RowError reports a single failed entry during execution.
// Field is the literal string "company" or "contact".
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ExecuteResult is the terminal state of an execution run.
// Success is true iff no entry failed; partial success is reported via
// Stats and Errors, never as an error return.
type ExecuteResult struct {
	Success bool       `json:"success"`
	Stats   Stats      `json:"stats"`
	Errors  []RowError `json:"errors,omitempty"`
}

// Repository is the entity store capability the engine consumes.
// The engine owns no persistence; see internal/store for the pgx
// implementation.
type Repository interface {
	// FindCompaniesByName returns companies whose name matches any of the
	// given names case-insensitively. Callers pass lower-cased trimmed
	// names; implementations compare against LOWER(name).
	FindCompaniesByName(ctx context.Context, names []string) ([]CompanyRef, error)

	// FindContactsByEmail returns contacts matching any of the given
	// emails by exact, case-sensitive equality. Emails are canonical
	// identifiers; company names are not.
	FindContactsByEmail(ctx context.Context, emails []string) ([]ContactRef, error)

	CreateCompany(ctx context.Context, data CompanyData) (CompanyRef, error)
	UpdateCompany(ctx context.Context, id int, data CompanyData) (CompanyRef, error)

	// CreateContact and UpdateContact persist a contact with an optional
	// company association. The free-text CompanyName on data is ignored
	// by implementations; the resolved companyID is authoritative.
	CreateContact(ctx context.Context, data ContactData, companyID *int) (ContactRef, error)
	UpdateContact(ctx context.Context, id int, data ContactData, companyID *int) (ContactRef, error)
}

// ImportRun is the persisted record of one execution run.
type ImportRun struct {
	ID        string        `json:"id"`
	Stats     Stats         `json:"stats"`
	Errors    []RowError    `json:"errors,omitempty"`
	Duration  time.Duration `json:"-"`
	CreatedAt time.Time     `json:"createdAt"`
}

// RunStore records and lists execution runs.
type RunStore interface {
	RecordRun(ctx context.Context, run ImportRun) error
	ListRuns(ctx context.Context, limit int) ([]ImportRun, error)
}

// SavedMapping is a named, reusable field mapping set.
type SavedMapping struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Entity    string        `json:"entity"`
	Mappings  FieldMappings `json:"mappings"`
	CreatedAt time.Time     `json:"createdAt"`
}

// MappingStore persists saved field mappings.
type MappingStore interface {
	SaveMapping(ctx context.Context, m SavedMapping) (SavedMapping, error)
	ListMappings(ctx context.Context, entity string) ([]SavedMapping, error)
	GetMapping(ctx context.Context, id string) (*SavedMapping, error)
	DeleteMapping(ctx context.Context, id string) error
}
