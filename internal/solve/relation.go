package solve

import (
	"github.com/teamchong/metal0-sub013/internal/incompat"
	"github.com/teamchong/metal0-sub013/internal/term"
)

// incompatRelation is the four-way relation an Incompatibility can have
// against the current partial solution, distinct from term.Relation's
// three states: an incompatibility can additionally be AlmostSatisfied,
// the unit-propagation trigger.
type incompatRelation int

const (
	relSatisfied incompatRelation = iota
	relAlmostSatisfied
	relContradicted
	relInconclusive
)

// termRelation classifies a single term against the accumulated knowledge
// acc for its package. hasAssignment distinguishes "nothing is known yet"
// (Inconclusive) from "the accumulated term already settles it"
// (Satisfied/Contradicted) — a package with zero assignments is never
// Satisfied, even if its default (vacuous) accumulated term happens to be
// a subset of the target, since "no information yet" cannot itself
// satisfy a constraint; it is Inconclusive, or Contradicted when t allows
// no version at all.
func termRelation(t term.Term, acc term.Term, hasAssignment bool) term.Relation {
	if !hasAssignment {
		if acc.Allowed().IsDisjoint(t.Allowed()) {
			return term.Contradicted
		}
		return term.Inconclusive
	}
	rel := t.RelationWith(acc)
	if rel == term.Satisfied {
		return term.Satisfied
	}
	if rel == term.Contradicted {
		return term.Contradicted
	}
	return term.Inconclusive
}

// evaluateIncompatibility computes inc's relation against the full current
// partial solution, per SPEC_FULL.md's Open Question #1: a stateful method
// consulting the partial solution directly, rather than a generic/comptime
// form.
func (ps *partialSolution) evaluateIncompatibility(inc *incompat.Incompatibility) (incompatRelation, PackageID, term.Term) {
	var unsatPkg PackageID
	var unsatTerm term.Term
	found := false

	for pkg, t := range inc.Terms {
		acc := ps.accumulatedTerm(pkg)
		rel := termRelation(t, acc, ps.hasAssignments(pkg))
		switch rel {
		case term.Contradicted:
			return relContradicted, PackageID{}, term.Term{}
		case term.Satisfied:
			continue
		default:
			if found {
				return relInconclusive, PackageID{}, term.Term{}
			}
			found = true
			unsatPkg = pkg
			unsatTerm = t
		}
	}

	if !found {
		return relSatisfied, PackageID{}, term.Term{}
	}
	return relAlmostSatisfied, unsatPkg, unsatTerm
}

// satisfierAndPreviousLevel finds the strict PubGrub satisfier: the
// smallest prefix of the assignment trail that already satisfies inc, and
// the decision level of that prefix's last assignment. previousLevel is
// the highest decision level among the OTHER assignments in that prefix
// that contribute a satisfied term to inc — the level conflict resolution
// backtracks to when it decides not to merge further.
//
// This replaces contriboss-pubgrub-go's simplified "term with the highest
// decision level" heuristic (DESIGN.md Open Question #2): that heuristic
// can select a later satisfier than the true minimal prefix when two terms
// of an incompatibility become satisfied at the same decision level in a
// different order than their package's own most recent assignment.
func satisfierAndPreviousLevel(assignments []*assignment, inc *incompat.Incompatibility) (*assignment, int, error) {
	satisfiedAt := make(map[PackageID]int, len(inc.Terms))

	for _, a := range assignments {
		t, relevant := inc.Terms[a.Package]
		if !relevant {
			continue
		}
		if a.Accumulated.Allowed().SubsetOf(t.Allowed()) {
			satisfiedAt[a.Package] = a.DecisionLevel
		} else {
			delete(satisfiedAt, a.Package)
		}

		if len(satisfiedAt) == len(inc.Terms) {
			prev := 0
			for pkg, lvl := range satisfiedAt {
				if pkg == a.Package {
					continue
				}
				if lvl > prev {
					prev = lvl
				}
			}
			return a, prev, nil
		}
	}

	return nil, 0, ErrNoSatisfierCause
}
