package solve

import (
	"github.com/teamchong/metal0-sub013/internal/incompat"
	"github.com/teamchong/metal0-sub013/internal/rangeset"
	"github.com/teamchong/metal0-sub013/internal/term"
	"github.com/teamchong/metal0-sub013/internal/version"
)

// partialSolution is the evolving assignment trail: every decision and
// derivation made so far, indexed both chronologically and per package, so
// backtracking and accumulated-term lookups are both cheap.
type partialSolution struct {
	assignments []*assignment
	perPackage  map[PackageID][]*assignment
	decisionLvl int
	nextIndex   int
	root        PackageID
}

func newPartialSolution(root PackageID) *partialSolution {
	return &partialSolution{
		perPackage: make(map[PackageID][]*assignment),
		root:       root,
	}
}

func (ps *partialSolution) accumulatedTerm(pkg PackageID) term.Term {
	stack := ps.perPackage[pkg]
	if len(stack) == 0 {
		return term.Any()
	}
	return stack[len(stack)-1].Accumulated
}

// GetTerm returns the accumulated constraint for pkg, or the vacuous "any"
// term if nothing has been recorded for it yet.
func (ps *partialSolution) GetTerm(pkg PackageID) term.Term {
	return ps.accumulatedTerm(pkg)
}

func (ps *partialSolution) hasAssignments(pkg PackageID) bool {
	return len(ps.perPackage[pkg]) > 0
}

func (ps *partialSolution) append(a *assignment) {
	ps.assignments = append(ps.assignments, a)
	ps.perPackage[a.Package] = append(ps.perPackage[a.Package], a)
	ps.nextIndex++
}

// seedRoot records the root package's pinned version as the level-0
// decision that seeds the whole solve.
func (ps *partialSolution) seedRoot(pkg PackageID, v version.Version) *assignment {
	t := term.Pos(rangeset.Singleton(v))
	a := &assignment{
		Package:       pkg,
		Term:          t,
		Kind:          assignmentDecision,
		Version:       v,
		DecisionLevel: 0,
		GlobalIndex:   ps.nextIndex,
		Accumulated:   t,
	}
	ps.append(a)
	return a
}

// addDecision records an explicit version choice, opening a new decision
// level.
func (ps *partialSolution) addDecision(pkg PackageID, v version.Version) *assignment {
	ps.decisionLvl++
	t := term.Pos(rangeset.Singleton(v))
	acc := ps.accumulatedTerm(pkg).Intersect(t)
	a := &assignment{
		Package:       pkg,
		Term:          t,
		Kind:          assignmentDecision,
		Version:       v,
		DecisionLevel: ps.decisionLvl,
		GlobalIndex:   ps.nextIndex,
		Accumulated:   acc,
	}
	ps.append(a)
	return a
}

// addDerivation folds a constraint derived from unit propagation into the
// trail. It returns errNoAllowedVersions if doing so leaves the package
// with no possible version at all.
func (ps *partialSolution) addDerivation(pkg PackageID, t term.Term, cause *incompat.Incompatibility) (*assignment, bool, error) {
	prev := ps.accumulatedTerm(pkg)
	acc := prev.Intersect(t)
	if acc.IsNone() {
		return nil, false, errNoAllowedVersions
	}
	a := &assignment{
		Package:       pkg,
		Term:          t,
		Kind:          assignmentDerivation,
		Cause:         cause,
		DecisionLevel: ps.decisionLvl,
		GlobalIndex:   ps.nextIndex,
		Accumulated:   acc,
	}
	changed := !acc.Range.Eql(prev.Range) || acc.Positive != prev.Positive
	ps.append(a)
	return a, changed, nil
}

// backtrack discards every assignment above level, restoring the
// accumulated-term stacks to their state at that level.
func (ps *partialSolution) backtrack(level int) {
	if level < 0 {
		level = 0
	}
	for len(ps.assignments) > 0 {
		last := ps.assignments[len(ps.assignments)-1]
		if last.DecisionLevel <= level {
			break
		}
		ps.assignments = ps.assignments[:len(ps.assignments)-1]
		stack := ps.perPackage[last.Package]
		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			delete(ps.perPackage, last.Package)
		} else {
			ps.perPackage[last.Package] = stack
		}
	}
	ps.decisionLvl = level
}

func (ps *partialSolution) hasDecision(pkg PackageID) bool {
	for _, a := range ps.perPackage[pkg] {
		if a.isDecision() {
			return true
		}
	}
	return false
}

// undecidedCandidates returns every non-root package with assignments but
// no decision yet, in first-seen order.
func (ps *partialSolution) undecidedCandidates() []PackageID {
	seen := make(map[PackageID]bool)
	var out []PackageID
	for _, a := range ps.assignments {
		if a.Package == ps.root || seen[a.Package] {
			continue
		}
		seen[a.Package] = true
		if !ps.hasDecision(a.Package) {
			out = append(out, a.Package)
		}
	}
	return out
}

// isComplete reports whether every non-root package with assignments has a
// decision.
func (ps *partialSolution) isComplete() bool {
	return len(ps.undecidedCandidates()) == 0
}

// extractSolution builds the final package->version map from every
// decision in the trail.
func (ps *partialSolution) extractSolution() map[PackageID]version.Version {
	out := make(map[PackageID]version.Version)
	for _, a := range ps.assignments {
		if a.isDecision() {
			out[a.Package] = a.Version
		}
	}
	return out
}
