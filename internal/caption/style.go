package caption

import "strings"

// Property is a single visual property on a style. Properties keep their
// insertion order so serialization is deterministic across exports.
type Property struct {
	Name  string
	Value string
}

// Style is a named set of ordered visual properties attachable to cues.
// Property names are not validated against any schema; unknown names pass
// through to the output format verbatim, which keeps styles forward
// compatible but means typos are not caught here.
type Style struct {
	Name       string
	properties []Property
}

// NewStyle creates an empty style with the given name.
func NewStyle(name string) Style {
	return Style{Name: strings.TrimSpace(name)}
}

// StyleFromPairs builds a style from alternating name/value pairs, preserving
// the order given. An odd trailing name is ignored.
func StyleFromPairs(name string, pairs ...string) Style {
	style := NewStyle(name)
	for i := 0; i+1 < len(pairs); i += 2 {
		style.Set(pairs[i], pairs[i+1])
	}
	return style
}

// Set assigns a property value. Re-setting an existing property overwrites
// its value in place (last write wins) without moving its position.
func (s *Style) Set(name, value string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	for i := range s.properties {
		if s.properties[i].Name == name {
			s.properties[i].Value = value
			return
		}
	}
	s.properties = append(s.properties, Property{Name: name, Value: value})
}

// Get returns a property value and whether it is present.
func (s *Style) Get(name string) (string, bool) {
	for _, prop := range s.properties {
		if prop.Name == name {
			return prop.Value, true
		}
	}
	return "", false
}

// Properties returns the ordered property list as a copy.
func (s *Style) Properties() []Property {
	out := make([]Property, len(s.properties))
	copy(out, s.properties)
	return out
}

// Len returns the number of properties.
func (s *Style) Len() int { return len(s.properties) }

// clone returns a deep copy so registry replacement stays atomic.
func (s Style) clone() Style {
	cp := Style{Name: s.Name}
	if len(s.properties) > 0 {
		cp.properties = make([]Property, len(s.properties))
		copy(cp.properties, s.properties)
	}
	return cp
}
