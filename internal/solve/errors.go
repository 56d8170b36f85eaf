package solve

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/teamchong/metal0-sub013/internal/incompat"
)

// errNoAllowedVersions is the sentinel used internally between
// partialSolution.addDerivation and its callers to signal that a
// derivation has driven a package's accumulated term to match no version
// at all — the trigger for building a conflict incompatibility.
var errNoAllowedVersions = errors.New("solve: derivation leaves no allowed version")

// NoSolutionError reports that resolution failed: Incompatibility is
// terminal (it refers only to the root package, at its exact pinned
// version), meaning no assignment of versions to every transitive
// dependency can satisfy all declared constraints simultaneously.
type NoSolutionError struct {
	Incompatibility *incompat.Incompatibility
}

func (e *NoSolutionError) Error() string {
	return fmt.Sprintf("no solution: %s", e.Incompatibility)
}

// ErrAlreadyDecided names the "package already has a decision" condition.
// No function in this package returns it: addDecision and addDerivation
// both accept a package that already has a decision.
var ErrAlreadyDecided = errors.New("solve: package already has a decision")

// ErrPackageNotInIncompat names the "package not mentioned by the
// incompatibility" condition. No function in this package returns it.
var ErrPackageNotInIncompat = errors.New("solve: package not referenced by incompatibility")

// ErrNoTermForPackage names the "no term recorded for package" condition.
// No function in this package returns it: GetTerm answers a package with
// no assignments with the vacuous "any" term.
var ErrNoTermForPackage = errors.New("solve: no term recorded for package")

// ErrNoSatisfierCause is returned by conflict resolution when no prefix of
// the assignment trail satisfies the conflict, or when the satisfier
// carries no cause and backtracking cannot undo it (its previous level is
// not below its own).
var ErrNoSatisfierCause = errors.New("solve: satisfier has no cause to merge")

// ErrIterationLimit is returned when the solver's step budget (if
// configured) is exhausted without reaching a decision.
type ErrIterationLimit struct {
	Steps int
}

func (e ErrIterationLimit) Error() string {
	return fmt.Sprintf("solve: exceeded %d steps without converging", e.Steps)
}
