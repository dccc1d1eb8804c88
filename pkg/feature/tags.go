// Package feature classifies OSM ways into render groups by their tags.
//
// Classification is a fixed list of rules checked in order; the first rule
// whose predicate matches decides the group. Ways matching no rule are not
// drawn at all.
package feature

import "github.com/paulmach/osm"

// Tags is the free-form key/value metadata of an OSM element.
// A missing key reads as the empty string.
type Tags map[string]string

// Has reports whether key is set to a non-empty value.
func (t Tags) Has(key string) bool {
	return t[key] != ""
}

// Name returns the name tag, or "" if the element has none.
func (t Tags) Name() string {
	return t["name"]
}

// TagsFromOSM copies osm tags into a Tags map. Later duplicates win.
func TagsFromOSM(tags osm.Tags) Tags {
	if len(tags) == 0 {
		return Tags{}
	}
	return Tags(tags.Map())
}

type valueSet map[string]struct{}

func newValueSet(values ...string) valueSet {
	s := make(valueSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s valueSet) has(v string) bool {
	_, ok := s[v]
	return ok
}
