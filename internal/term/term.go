// Package term implements Term, a signed constraint over a package's
// versions, and the combinator/relation algebra the PubGrub solver runs
// against it. Grounded on contriboss-pubgrub-go's term.go/term_utils.go
// polarity model, restructured around internal/rangeset.Range instead of
// that package's own interval-set type.
package term

import "github.com/teamchong/metal0-sub013/internal/rangeset"

// Relation describes how a term relates to the current partial assignment
// for its package.
type Relation int

const (
	// Satisfied means the assignment guarantees the term holds.
	Satisfied Relation = iota
	// Contradicted means the assignment guarantees the term cannot hold.
	Contradicted
	// Inconclusive means neither is yet guaranteed.
	Inconclusive
)

func (r Relation) String() string {
	switch r {
	case Satisfied:
		return "satisfied"
	case Contradicted:
		return "contradicted"
	default:
		return "inconclusive"
	}
}

// Term asserts that a package's version either must (Positive) or must not
// (!Positive) lie within Range. Positive(empty) means "no version of this
// package" (i.e. it must not be present); Negative(empty) means "any
// version is fine", the vacuous term.
type Term struct {
	Range    rangeset.Range
	Positive bool
}

// Pos builds a positive term over r.
func Pos(r rangeset.Range) Term { return Term{Range: r, Positive: true} }

// Neg builds a negative term over r.
func Neg(r rangeset.Range) Term { return Term{Range: r, Positive: false} }

// Any returns the vacuous negative term that every version satisfies.
func Any() Term { return Neg(rangeset.Empty()) }

// None returns the term that no version satisfies.
func None() Term { return Pos(rangeset.Empty()) }

// Negate returns the logical negation of t.
func (t Term) Negate() Term {
	return Term{Range: t.Range, Positive: !t.Positive}
}

// Allowed returns the set of versions t allows, regardless of polarity: for
// a positive term that's Range itself; for a negative term that's the
// complement of Range. Exported for internal/solve, which needs to reason
// about terms' allowed sets directly when evaluating incompatibilities
// against the partial solution.
func (t Term) Allowed() rangeset.Range {
	if t.Positive {
		return t.Range
	}
	return t.Range.Complement()
}

// fromAllowed constructs the (always positive-form) term that allows
// exactly r.
func fromAllowed(r rangeset.Range) Term {
	return Pos(r)
}

// Intersect combines two terms over the same package into the term that
// holds exactly when both hold.
func (a Term) Intersect(b Term) Term {
	return fromAllowed(a.Allowed().Intersection(b.Allowed()))
}

// Union combines two terms over the same package into the term that holds
// when either holds.
func (a Term) Union(b Term) Term {
	return fromAllowed(a.Allowed().Union(b.Allowed()))
}

// IsVacuous reports whether t is satisfied by every possible version.
func (t Term) IsVacuous() bool {
	return t.Allowed().IsFull()
}

// IsNone reports whether t is satisfied by no version.
func (t Term) IsNone() bool {
	return t.Allowed().IsEmpty()
}

// RelationWith reports how t relates to other, another term for the same
// package representing the accumulated assignment.
//
//   - Satisfied:    every version other allows is also allowed by t
//   - Contradicted: no version other allows is allowed by t
//   - Inconclusive: neither of the above
func (t Term) RelationWith(other Term) Relation {
	allowed := t.Allowed()
	otherAllowed := other.Allowed()

	if otherAllowed.SubsetOf(allowed) {
		return Satisfied
	}
	if otherAllowed.IsDisjoint(allowed) {
		return Contradicted
	}
	return Inconclusive
}
