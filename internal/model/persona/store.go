package persona

import "strings"

// Store exposes persona retrieval for the orchestrator and HTTP handlers.
type Store interface {
	List() []Persona
	FindByID(id int) (Persona, bool)
	FindByFirstName(name string) (Persona, bool)
}

// MemoryStore implements Store with an in-memory slice; the roster is fixed
// at construction.
type MemoryStore struct {
	items []Persona
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied personas.
func NewMemoryStore(items []Persona) *MemoryStore {
	return &MemoryStore{items: append([]Persona(nil), items...)}
}

// List returns the predefined persona list.
func (s *MemoryStore) List() []Persona {
	return append([]Persona(nil), s.items...)
}

// FindByID looks up a persona by identifier.
func (s *MemoryStore) FindByID(id int) (Persona, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Persona{}, false
}

// FindByFirstName looks up a persona by its mention token, case-insensitively.
func (s *MemoryStore) FindByFirstName(name string) (Persona, bool) {
	for _, item := range s.items {
		if strings.EqualFold(item.FirstName(), name) {
			return item, true
		}
	}
	return Persona{}, false
}
