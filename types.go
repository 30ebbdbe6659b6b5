// Package prm defines the core data structures for parameter-file parsing.
package prm

// Value represents any entry in a parameter tree: a Parameter leaf or a
// nested *Section.
type Value any

// Parameter is a leaf entry: the raw text value and an optional type
// annotation. Type is "" when the source line carried no annotation.
type Parameter struct {
	Value string
	Type  string
}

// Diagnostic records one line the parser could not classify.
type Diagnostic struct {
	Line int
	Text string
}

// Document represents one parsed parameter file.
type Document struct {
	Root  *Section
	Diags []Diagnostic
}

// Section is one nesting level of a parameter tree. Entries iterate in
// insertion order; writing an existing key replaces its value in place.
type Section struct {
	keys    []string
	entries map[string]Value
}

// NewSection returns an empty Section.
func NewSection() *Section {
	return &Section{entries: make(map[string]Value)}
}

// Len returns the number of entries in the section.
func (s *Section) Len() int {
	return len(s.keys)
}

// Keys returns the entry names in insertion order.
func (s *Section) Keys() []string {
	return s.keys
}

// Get returns the entry stored under key.
func (s *Section) Get(key string) (Value, bool) {
	v, ok := s.entries[key]
	return v, ok
}

// Set stores v under key. An existing entry keeps its position.
func (s *Section) Set(key string, v Value) {
	if _, ok := s.entries[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.entries[key] = v
}

// Sub returns the nested section stored under name.
func (s *Section) Sub(name string) (*Section, bool) {
	sub, ok := s.entries[name].(*Section)
	return sub, ok
}

// Param returns the leaf parameter stored under name.
func (s *Section) Param(name string) (Parameter, bool) {
	p, ok := s.entries[name].(Parameter)
	return p, ok
}
