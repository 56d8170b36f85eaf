// Package rangeset implements Range: a sorted, disjoint, non-adjacent set of
// version intervals, and the Bound/Interval types that compose it. This is
// pure algebra over internal/version.Version with no third-party
// dependency — no library in the retrieved corpus offers a generic ordered
// interval-set algebra over an arbitrary comparable type, so it is
// implemented directly against the standard library, adapted from the
// span-merge structure of deps.dev's util/semver (interval.go, set.go).
package rangeset

import (
	"github.com/teamchong/metal0-sub013/internal/version"
)

// Bound is one endpoint of an Interval: unbounded (open to infinity),
// inclusive of a version, or exclusive of a version.
type Bound struct {
	unbounded bool
	inclusive bool
	value     version.Version
}

// Unbounded returns a bound with no limit.
func Unbounded() Bound { return Bound{unbounded: true} }

// Included returns a bound that includes v.
func Included(v version.Version) Bound { return Bound{inclusive: true, value: v} }

// Excluded returns a bound that excludes v.
func Excluded(v version.Version) Bound { return Bound{inclusive: false, value: v} }

// IsUnbounded reports whether b has no limit.
func (b Bound) IsUnbounded() bool { return b.unbounded }

// IsInclusive reports whether b includes its value (meaningless if
// IsUnbounded is true).
func (b Bound) IsInclusive() bool { return !b.unbounded && b.inclusive }

// Value returns the bound's version (zero value if unbounded).
func (b Bound) Value() version.Version { return b.value }

func (b Bound) String() string {
	if b.unbounded {
		return "unbounded"
	}
	if b.inclusive {
		return "included(" + b.value.String() + ")"
	}
	return "excluded(" + b.value.String() + ")"
}

// cmpAsLower orders two bounds as lower limits: unbounded sorts first
// (least restrictive); at equal values, Included sorts before Excluded
// since Included admits strictly more versions as a lower bound.
func cmpAsLower(a, b Bound) int {
	if a.unbounded && b.unbounded {
		return 0
	}
	if a.unbounded {
		return -1
	}
	if b.unbounded {
		return 1
	}
	if c := a.value.Order(b.value); c != 0 {
		return c
	}
	if a.inclusive == b.inclusive {
		return 0
	}
	if a.inclusive {
		return -1
	}
	return 1
}

// cmpAsUpper orders two bounds as upper limits: unbounded sorts last; at
// equal values, Excluded sorts before Included since Excluded admits
// strictly fewer versions as an upper bound.
func cmpAsUpper(a, b Bound) int {
	if a.unbounded && b.unbounded {
		return 0
	}
	if a.unbounded {
		return 1
	}
	if b.unbounded {
		return -1
	}
	if c := a.value.Order(b.value); c != 0 {
		return c
	}
	if a.inclusive == b.inclusive {
		return 0
	}
	if a.inclusive {
		return 1
	}
	return -1
}

func maxLower(a, b Bound) Bound {
	if cmpAsLower(a, b) >= 0 {
		return a
	}
	return b
}

func minLower(a, b Bound) Bound {
	if cmpAsLower(a, b) <= 0 {
		return a
	}
	return b
}

func minUpper(a, b Bound) Bound {
	if cmpAsUpper(a, b) <= 0 {
		return a
	}
	return b
}

func maxUpper(a, b Bound) Bound {
	if cmpAsUpper(a, b) >= 0 {
		return a
	}
	return b
}

// complementOfLower returns the upper bound of the complement interval that
// ends just before l, e.g. the complement of [v, ...) is (..., v).
func complementOfLower(l Bound) Bound {
	if l.unbounded {
		panic("rangeset: complement of unbounded lower bound requested")
	}
	return Bound{inclusive: !l.inclusive, value: l.value}
}

// complementOfUpper returns the lower bound of the complement interval that
// starts just after u, e.g. the complement of (..., v] is (v, ...).
func complementOfUpper(u Bound) Bound {
	if u.unbounded {
		panic("rangeset: complement of unbounded upper bound requested")
	}
	return Bound{inclusive: !u.inclusive, value: u.value}
}

func boundsEqual(a, b Bound) bool {
	if a.unbounded != b.unbounded {
		return false
	}
	if a.unbounded {
		return true
	}
	return a.inclusive == b.inclusive && a.value.Equal(b.value)
}
