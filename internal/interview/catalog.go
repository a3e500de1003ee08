package interview

import "strings"

// Catalog is an ordered list of interview field identifiers. The order defines
// interview progression: the next question always targets the first field that
// has not been answered yet.
type Catalog []string

// DefaultCatalog lists the topics covered by a screening interview, in the
// order patients are asked about them.
var DefaultCatalog = Catalog{
	"chief_complaint",
	"symptoms",
	"duration",
	"severity",
	"medical_history",
	"current_medications",
	"allergies",
	"family_history",
	"lifestyle",
	"additional_notes",
}

// First returns the opening field of the catalog.
func (c Catalog) First() string {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// NextUnfilled returns the first catalog field not present in completed, or ""
// when every field has been answered.
func (c Catalog) NextUnfilled(completed []string) string {
	for _, field := range c {
		done := false
		for _, f := range completed {
			if f == field {
				done = true
				break
			}
		}
		if !done {
			return field
		}
	}
	return ""
}

// Contains reports whether field is part of the catalog.
func (c Catalog) Contains(field string) bool {
	for _, f := range c {
		if f == field {
			return true
		}
	}
	return false
}

// Label converts a field identifier into its display form, e.g.
// "chief_complaint" -> "chief complaint".
func Label(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}
