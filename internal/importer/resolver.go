package importer

// resolver.go holds the preview-phase resolution state: which company
// names already exist in the store, which were first seen earlier in
// this batch, and the allocator for synthetic ids. The context is an
// explicit value threaded through the row loop, never ambient state.
//
// Synthetic ids are negative integers, strictly decreasing, unique
// within one run. They live only for the duration of the preview; the
// execution phase translates them back to real ids.

import "strings"

// tempCompany is an entry in the temp-name index: a company first seen
// in this batch, holding its synthetic id.
type tempCompany struct {
	ID   int
	Name string
}

// resolutionContext carries all mutable state of one preview pass.
type resolutionContext struct {
	nextTempID int
	temp       map[string]tempCompany // name key -> batch-local company
	existing   map[string]CompanyRef  // name key -> persisted company
}

// newResolutionContext seeds the context with the bulk existing-company
// matches. The temp index starts empty; the first row to mention a new
// name owns its synthetic id.
func newResolutionContext(existing []CompanyRef) *resolutionContext {
	rc := &resolutionContext{
		nextTempID: -1,
		temp:       make(map[string]tempCompany),
		existing:   make(map[string]CompanyRef, len(existing)),
	}
	for _, ref := range existing {
		rc.existing[nameKey(ref.Name)] = ref
	}
	return rc
}

// resolveCompany decides create-vs-update for a company row and returns
// the resolved reference (real or synthetic id). firstSeen is false when
// the name was already claimed by an earlier row of this batch, in which
// case no new entry should be appended; the returned ref still lets the
// current row's contact link to it.
func (rc *resolutionContext) resolveCompany(data CompanyData) (entry Entry[CompanyData], ref CompanyRef, firstSeen bool) {
	key := nameKey(data.Name)

	if match, ok := rc.existing[key]; ok {
		id := match.ID
		entry = Entry[CompanyData]{
			Data:       data,
			Action:     ActionUpdate,
			ExistingID: &id,
			Selected:   true,
		}
		return entry, match, true
	}

	if match, ok := rc.temp[key]; ok {
		return Entry[CompanyData]{}, CompanyRef{ID: match.ID, Name: match.Name}, false
	}

	id := rc.nextTempID
	rc.nextTempID--
	rc.temp[key] = tempCompany{ID: id, Name: strings.TrimSpace(data.Name)}

	ref = CompanyRef{ID: id, Name: strings.TrimSpace(data.Name)}
	entry = Entry[CompanyData]{
		Data:      data,
		Action:    ActionCreate,
		Selected:  true,
		CompanyID: &id,
	}
	return entry, ref, true
}

// linkContact resolves a contact's company reference, trying in order:
// the company produced by the same row, a company first seen earlier in
// this batch, then a persisted company matched by name. A miss is not an
// error; the contact is simply imported without a company link.
func (rc *resolutionContext) linkContact(rowCompany *CompanyRef, companyName string) (*CompanyRef, *int) {
	if rowCompany != nil {
		ref := *rowCompany
		return &ref, &ref.ID
	}

	if strings.TrimSpace(companyName) == "" {
		return nil, nil
	}

	key := nameKey(companyName)
	if match, ok := rc.temp[key]; ok {
		ref := CompanyRef{ID: match.ID, Name: match.Name}
		return &ref, &ref.ID
	}
	if match, ok := rc.existing[key]; ok {
		ref := match
		return &ref, &ref.ID
	}

	return nil, nil
}
