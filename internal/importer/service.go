package importer

// Service wires the import engine to its collaborators: the entity
// repository, and the optional run history and saved-mapping stores.
// Both stores may be nil; the engine itself never requires them.
type Service struct {
	repo     Repository
	runs     RunStore
	mappings MappingStore
}

// NewService creates a Service. runs and mappings may be nil when the
// caller does not persist history or saved mappings (tests do this).
func NewService(repo Repository, runs RunStore, mappings MappingStore) *Service {
	return &Service{
		repo:     repo,
		runs:     runs,
		mappings: mappings,
	}
}

// Runs exposes the run history store, or nil if none is configured.
func (s *Service) Runs() RunStore { return s.runs }

// Mappings exposes the saved-mapping store, or nil if none is configured.
func (s *Service) Mappings() MappingStore { return s.mappings }
