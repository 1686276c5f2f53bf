package users

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter returns the users whose name or city contains substr, ignoring case.
// Order is preserved and an empty substr matches everything.
func Filter(list []User, substr string) []User {
	if substr == "" {
		return list
	}
	// A Caser is stateful; one per call.
	fold := cases.Fold()
	needle := fold.String(substr)
	out := make([]User, 0, len(list))
	for _, u := range list {
		if strings.Contains(fold.String(u.Name), needle) || strings.Contains(fold.String(u.City), needle) {
			out = append(out, u)
		}
	}
	return out
}
