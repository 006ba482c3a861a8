package reference

// Store is a read-only lookup over patents and companies. It is never
// mutated after NewStore returns, so any number of goroutines may read it.
type Store struct {
	patents   map[string]Patent
	companies map[string]Company
}

// NewStore takes ownership of the given maps
func NewStore(patents map[string]Patent, companies map[string]Company) *Store {
	if patents == nil {
		patents = map[string]Patent{}
	}
	if companies == nil {
		companies = map[string]Company{}
	}
	return &Store{patents: patents, companies: companies}
}

// Patent looks up a patent by publication number
func (s *Store) Patent(publicationNumber string) (Patent, bool) {
	p, ok := s.patents[publicationNumber]
	return p, ok
}

// Company looks up a company by exact name
func (s *Store) Company(name string) (Company, bool) {
	c, ok := s.companies[name]
	return c, ok
}

// Counts returns the number of patents and companies held
func (s *Store) Counts() (patents, companies int) {
	return len(s.patents), len(s.companies)
}
