package solve

import (
	"github.com/teamchong/metal0-sub013/internal/incompat"
	"github.com/teamchong/metal0-sub013/internal/term"
	"github.com/teamchong/metal0-sub013/internal/version"
)

type assignmentKind int

const (
	assignmentDecision assignmentKind = iota
	assignmentDerivation
)

// assignment is a single entry in the partial solution's chronological
// trail: either an explicit version decision, or a term derived from unit
// propagation over a learned or declared incompatibility.
type assignment struct {
	Package PackageID
	Term    term.Term
	Kind    assignmentKind

	// Version is set only for decisions.
	Version version.Version

	// Cause is set only for derivations: the incompatibility that forced
	// this term.
	Cause *incompat.Incompatibility

	DecisionLevel int
	GlobalIndex   int

	// Accumulated is the package's running term immediately after this
	// assignment was folded in — the intersection of every term recorded
	// for Package up to and including this one.
	Accumulated term.Term
}

func (a *assignment) isDecision() bool {
	return a.Kind == assignmentDecision
}
