package rangeset

import "github.com/teamchong/metal0-sub013/internal/version"

// Interval is a single contiguous span of versions between a lower and an
// upper Bound.
type Interval struct {
	Lower Bound
	Upper Bound
}

// Contains reports whether v falls within the interval.
func (iv Interval) Contains(v version.Version) bool {
	if !iv.Lower.unbounded {
		if iv.Lower.inclusive {
			if v.Less(iv.Lower.value) {
				return false
			}
		} else if !iv.Lower.value.Less(v) {
			return false
		}
	}
	if !iv.Upper.unbounded {
		if iv.Upper.inclusive {
			if iv.Upper.value.Less(v) {
				return false
			}
		} else if !v.Less(iv.Upper.value) {
			return false
		}
	}
	return true
}

// IsEmpty reports whether the interval admits no versions at all.
func (iv Interval) IsEmpty() bool {
	if iv.Lower.unbounded || iv.Upper.unbounded {
		return false
	}
	c := iv.Lower.value.Order(iv.Upper.value)
	if c > 0 {
		return true
	}
	if c == 0 {
		return !(iv.Lower.inclusive && iv.Upper.inclusive)
	}
	return false
}

func (iv Interval) equal(other Interval) bool {
	return boundsEqual(iv.Lower, other.Lower) && boundsEqual(iv.Upper, other.Upper)
}

func (iv Interval) String() string {
	lo := "("
	if iv.Lower.unbounded {
		lo = "(-inf"
	} else {
		if iv.Lower.inclusive {
			lo = "["
		}
		lo += iv.Lower.value.String()
	}
	hi := ")"
	hiVal := "+inf"
	if !iv.Upper.unbounded {
		hiVal = iv.Upper.value.String()
		if iv.Upper.inclusive {
			hi = "]"
		}
	}
	return lo + ", " + hiVal + hi
}

// touchesOrOverlaps reports whether the gap between a's upper bound and b's
// lower bound (a assumed to sort before b) contains no version at all, i.e.
// whether the two intervals should be merged into one.
func touchesOrOverlaps(a, b Interval) bool {
	if a.Upper.unbounded || b.Lower.unbounded {
		return true
	}
	c := a.Upper.value.Order(b.Lower.value)
	if c > 0 {
		return true
	}
	if c < 0 {
		return false
	}
	return a.Upper.inclusive || b.Lower.inclusive
}
