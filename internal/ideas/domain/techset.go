package domain

// TechSet is an insertion-ordered set of technology names.
//
// Toggling a present name removes it; toggling an absent name appends it at the
// end. A name that is removed and toggled again therefore moves to the end rather
// than returning to its original position, and the prompt lists technologies in
// that order.
type TechSet struct {
	items []string
}

func NewTechSet(names ...string) *TechSet {
	s := &TechSet{}
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Toggle flips membership and reports whether name is selected afterwards.
func (s *TechSet) Toggle(name string) bool {
	if s.Contains(name) {
		s.Remove(name)
		return false
	}
	s.items = append(s.items, name)
	return true
}

func (s *TechSet) Add(name string) {
	if name == "" || s.Contains(name) {
		return
	}
	s.items = append(s.items, name)
}

func (s *TechSet) Remove(name string) {
	for i, n := range s.items {
		if n == name {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return
		}
	}
}

func (s *TechSet) Contains(name string) bool {
	for _, n := range s.items {
		if n == name {
			return true
		}
	}
	return false
}

func (s *TechSet) Len() int { return len(s.items) }

// Items returns a copy in insertion order.
func (s *TechSet) Items() []string {
	return append([]string{}, s.items...)
}

func (s *TechSet) Reset() { s.items = nil }
