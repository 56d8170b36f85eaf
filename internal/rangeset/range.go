package rangeset

import (
	"sort"
	"strings"

	"github.com/teamchong/metal0-sub013/internal/version"
)

// Range is a sorted, disjoint, non-adjacent set of version intervals.
// The zero value is the empty range (matches no versions).
type Range struct {
	intervals []Interval
}

// Empty returns the range that matches no versions.
func Empty() Range { return Range{} }

// Full returns the range that matches every version.
func Full() Range {
	return Range{intervals: []Interval{{Lower: Unbounded(), Upper: Unbounded()}}}
}

// Singleton returns the range that matches exactly v.
func Singleton(v version.Version) Range {
	return Range{intervals: []Interval{{Lower: Included(v), Upper: Included(v)}}}
}

// GE returns the range [v, +inf).
func GE(v version.Version) Range {
	return Range{intervals: []Interval{{Lower: Included(v), Upper: Unbounded()}}}
}

// GT returns the range (v, +inf).
func GT(v version.Version) Range {
	return Range{intervals: []Interval{{Lower: Excluded(v), Upper: Unbounded()}}}
}

// LE returns the range (-inf, v].
func LE(v version.Version) Range {
	return Range{intervals: []Interval{{Lower: Unbounded(), Upper: Included(v)}}}
}

// LT returns the range (-inf, v).
func LT(v version.Version) Range {
	return Range{intervals: []Interval{{Lower: Unbounded(), Upper: Excluded(v)}}}
}

// Between returns the range bounded by lower and upper directly, canonicalized.
func Between(lower, upper Bound) Range {
	iv := Interval{Lower: lower, Upper: upper}
	if iv.IsEmpty() {
		return Empty()
	}
	return Range{intervals: []Interval{iv}}
}

// Intervals returns the range's intervals in sorted order. The returned
// slice must not be mutated by the caller.
func (r Range) Intervals() []Interval { return r.intervals }

// IsEmpty reports whether r matches no versions.
func (r Range) IsEmpty() bool { return len(r.intervals) == 0 }

// IsFull reports whether r matches every version.
func (r Range) IsFull() bool {
	return len(r.intervals) == 1 && r.intervals[0].Lower.unbounded && r.intervals[0].Upper.unbounded
}

// Contains reports whether v is matched by any interval in r.
func (r Range) Contains(v version.Version) bool {
	for _, iv := range r.intervals {
		if iv.Contains(v) {
			return true
		}
	}
	return false
}

// Clone returns an independent copy of r.
func (r Range) Clone() Range {
	out := make([]Interval, len(r.intervals))
	copy(out, r.intervals)
	return Range{intervals: out}
}

// Eql reports whether r and other describe exactly the same set of versions.
func (r Range) Eql(other Range) bool {
	if len(r.intervals) != len(other.intervals) {
		return false
	}
	for i := range r.intervals {
		if !r.intervals[i].equal(other.intervals[i]) {
			return false
		}
	}
	return true
}

// canon sorts by lower bound and merges overlapping/touching intervals.
func canon(intervals []Interval) []Interval {
	filtered := intervals[:0:0]
	for _, iv := range intervals {
		if !iv.IsEmpty() {
			filtered = append(filtered, iv)
		}
	}
	if len(filtered) <= 1 {
		return filtered
	}
	sort.Slice(filtered, func(i, j int) bool {
		if c := cmpAsLower(filtered[i].Lower, filtered[j].Lower); c != 0 {
			return c < 0
		}
		return cmpAsUpper(filtered[i].Upper, filtered[j].Upper) < 0
	})
	out := make([]Interval, 0, len(filtered))
	cur := filtered[0]
	for _, next := range filtered[1:] {
		if touchesOrOverlaps(cur, next) {
			cur.Upper = maxUpper(cur.Upper, next.Upper)
			continue
		}
		out = append(out, cur)
		cur = next
	}
	out = append(out, cur)
	return out
}

// Complement returns the set of versions not matched by r.
func (r Range) Complement() Range {
	if r.IsEmpty() {
		return Full()
	}
	if r.IsFull() {
		return Empty()
	}
	var out []Interval
	var pendingLower *Bound
	for _, iv := range r.intervals {
		if pendingLower == nil {
			if !iv.Lower.unbounded {
				out = append(out, Interval{Lower: Unbounded(), Upper: complementOfLower(iv.Lower)})
			}
		} else {
			out = append(out, Interval{Lower: *pendingLower, Upper: complementOfLower(iv.Lower)})
		}
		if iv.Upper.unbounded {
			pendingLower = nil
			return Range{intervals: canon(out)}
		}
		b := complementOfUpper(iv.Upper)
		pendingLower = &b
	}
	if pendingLower != nil {
		out = append(out, Interval{Lower: *pendingLower, Upper: Unbounded()})
	}
	return Range{intervals: canon(out)}
}

// Intersection returns the set of versions matched by both r and other.
func (r Range) Intersection(other Range) Range {
	var out []Interval
	i, j := 0, 0
	for i < len(r.intervals) && j < len(other.intervals) {
		a, b := r.intervals[i], other.intervals[j]
		lo := maxLower(a.Lower, b.Lower)
		hi := minUpper(a.Upper, b.Upper)
		iv := Interval{Lower: lo, Upper: hi}
		if !iv.IsEmpty() {
			out = append(out, iv)
		}
		if cmpAsUpper(a.Upper, b.Upper) <= 0 {
			i++
		} else {
			j++
		}
	}
	return Range{intervals: canon(out)}
}

// Union returns the set of versions matched by either r or other.
func (r Range) Union(other Range) Range {
	out := make([]Interval, 0, len(r.intervals)+len(other.intervals))
	out = append(out, r.intervals...)
	out = append(out, other.intervals...)
	return Range{intervals: canon(out)}
}

// IsDisjoint reports whether r and other share no versions.
func (r Range) IsDisjoint(other Range) bool {
	return r.Intersection(other).IsEmpty()
}

// SubsetOf reports whether every version matched by r is also matched by other.
func (r Range) SubsetOf(other Range) bool {
	return r.Intersection(other).Eql(r)
}

func (r Range) String() string {
	if r.IsEmpty() {
		return "∅"
	}
	parts := make([]string, len(r.intervals))
	for i, iv := range r.intervals {
		parts[i] = iv.String()
	}
	return strings.Join(parts, " ∪ ")
}
