package phonebook

import "slices"

// Store maps contact names to contacts. Iteration follows creation order,
// net of deletions; a name that is deleted and created again moves to the end.
type Store struct {
	order    []string
	contacts map[string]*Contact
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{contacts: make(map[string]*Contact)}
}

// Len returns the number of contacts.
func (s *Store) Len() int {
	return len(s.order)
}

// Create inserts an empty contact named name. It returns false and leaves
// the store unchanged if the name is already taken.
func (s *Store) Create(name string) bool {
	if _, ok := s.contacts[name]; ok {
		return false
	}
	s.contacts[name] = &Contact{Name: name, Phones: []string{}, Emails: []string{}}
	s.order = append(s.order, name)
	return true
}

// Get returns the contact with the exact name.
func (s *Store) Get(name string) (*Contact, bool) {
	c, ok := s.contacts[name]
	return c, ok
}

// Delete removes the contact with the exact name. Absence is not an error.
func (s *Store) Delete(name string) bool {
	if _, ok := s.contacts[name]; !ok {
		return false
	}
	delete(s.contacts, name)
	s.order = slices.DeleteFunc(s.order, func(n string) bool { return n == name })
	return true
}

// Find returns every contact matching sub, in store order.
func (s *Store) Find(sub string) []*Contact {
	var out []*Contact
	for _, name := range s.order {
		if c := s.contacts[name]; c.Matches(sub) {
			out = append(out, c)
		}
	}
	return out
}

// DeleteMatching removes every contact matching sub and returns how many
// were removed.
func (s *Store) DeleteMatching(sub string) int {
	matched := s.Find(sub)
	for _, c := range matched {
		s.Delete(c.Name)
	}
	return len(matched)
}

// Contacts returns all contacts in store order. The contacts are shared
// with the store.
func (s *Store) Contacts() []*Contact {
	out := make([]*Contact, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.contacts[name])
	}
	return out
}

// Snapshot returns deep copies of all contacts in store order.
func (s *Store) Snapshot() []Contact {
	out := make([]Contact, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, *s.contacts[name].Clone())
	}
	return out
}
