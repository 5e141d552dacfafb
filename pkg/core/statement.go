package core

import "strings"

// ParamPrefix marks a named parameter inside statement text.
const ParamPrefix = "@"

// Param is a named statement parameter. Name carries no prefix.
type Param struct {
	Name  string
	Value any
}

// Statement is SQL text plus its parameter bindings, in placeholder order.
type Statement struct {
	Text   string
	Params []Param
}

// Placeholder returns the placeholder for the named parameter ("@name").
func Placeholder(name string) string {
	return ParamPrefix + name
}

// Lookup returns the value bound to name.
func (s Statement) Lookup(name string) (any, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// Names returns the parameter names in binding order.
func (s Statement) Names() []string {
	names := make([]string, len(s.Params))
	for i, p := range s.Params {
		names[i] = p.Name
	}
	return names
}

// String returns the statement text.
func (s Statement) String() string {
	return strings.TrimSpace(s.Text)
}
