package dhreach

import (
	"math"

	"github.com/phil-mansfield/dhreach/grid"
)

// Validate checks that dh is well formed and that ranges assigns values to
// exactly the free symbols of dh. Every returned error wraps ErrInvalidInput.
func Validate(dh Table, ranges grid.Ranges) error {
	if len(dh) == 0 {
		return invalidf("the DH table has no links")
	}
	for i, row := range dh {
		if len(row) != Columns {
			return invalidf(
				"link %d has %d DH parameters instead of %d", i+1, len(row), Columns,
			)
		}
		for j := range row {
			if row[j] == nil {
				return invalidf("link %d has an empty DH parameter", i+1)
			}
		}
	}

	seen := map[string]bool{}
	for _, r := range ranges {
		switch {
		case r.Name == "":
			return invalidf("a parameter range has no name")
		case seen[r.Name]:
			return invalidf("the range for '%s' is given twice", r.Name)
		case len(r.Values) == 0:
			return invalidf("the range for '%s' is empty", r.Name)
		}
		seen[r.Name] = true

		for _, v := range r.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return invalidf("the range for '%s' contains %g", r.Name, v)
			}
		}
	}

	free := dh.Symbols()
	used := map[string]bool{}
	for _, name := range free {
		used[name] = true
		if !seen[name] {
			return invalidf("the free symbol '%s' has no range", name)
		}
	}
	for _, r := range ranges {
		if !used[r.Name] {
			return invalidf(
				"the range for '%s' does not match any free symbol", r.Name,
			)
		}
	}

	return nil
}
