package directory

import (
	"strings"

	"github.com/hpungsan/roster/internal/employee"
)

// NormalizeTerm trims and lowercases a search term.
func NormalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// Filter returns the records whose name or title contains term,
// case-insensitively, in their original order. A blank term matches everything.
func Filter(records []employee.Employee, term string) []employee.Employee {
	term = NormalizeTerm(term)

	out := make([]employee.Employee, 0, len(records))
	for _, rec := range records {
		if term == "" || Matches(rec, term) {
			out = append(out, rec)
		}
	}
	return out
}

// Matches reports whether an already-normalized term is a substring of the
// record's lowercased name or title.
func Matches(rec employee.Employee, term string) bool {
	return strings.Contains(strings.ToLower(rec.Name), term) ||
		strings.Contains(strings.ToLower(rec.Title), term)
}
