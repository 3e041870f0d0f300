// Package rank holds the static catalog of SABO billiard ranks. The catalog is
// ordered: K is the entry rank and E+ the highest. Level is the sole ordering
// key used for rank-gap computation.
package rank

// UnknownLevel is returned for codes not in the catalog. Callers degrade
// gracefully instead of failing a points operation on a data-quality issue.
const UnknownLevel = 0

// Rank is one immutable catalog entry.
type Rank struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Level int    `json:"level"`
}

var catalog = []Rank{
	{Code: "K", Name: "Novice", Level: 1},
	{Code: "J", Name: "Apprentice", Level: 2},
	{Code: "I", Name: "Intermediate", Level: 3},
	{Code: "I+", Name: "Intermediate Plus", Level: 4},
	{Code: "H", Name: "Advanced", Level: 5},
	{Code: "H+", Name: "Advanced Plus", Level: 6},
	{Code: "G", Name: "Expert", Level: 7},
	{Code: "G+", Name: "Expert Plus", Level: 8},
	{Code: "F", Name: "Master", Level: 9},
	{Code: "F+", Name: "Master Plus", Level: 10},
	{Code: "E", Name: "Elite", Level: 11},
	{Code: "E+", Name: "Elite Plus", Level: 12},
}

var byCode = func() map[string]Rank {
	m := make(map[string]Rank, len(catalog))
	for _, r := range catalog {
		m[r.Code] = r
	}
	return m
}()

// Level returns the ordinal level for a rank code, or UnknownLevel for
// unrecognized input.
func Level(code string) int {
	if r, ok := byCode[code]; ok {
		return r.Level
	}
	return UnknownLevel
}

// Name returns the display name for a rank code, or the code itself when it is
// not in the catalog.
func Name(code string) string {
	if r, ok := byCode[code]; ok {
		return r.Name
	}
	return code
}

// Gap returns Level(a) - Level(b). A positive gap means a outranks b.
func Gap(a, b string) int {
	return Level(a) - Level(b)
}

// Known reports whether the code is in the catalog.
func Known(code string) bool {
	_, ok := byCode[code]
	return ok
}

// All returns the catalog in ascending level order.
func All() []Rank {
	out := make([]Rank, len(catalog))
	copy(out, catalog)
	return out
}
