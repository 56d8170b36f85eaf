// Package solve implements PartialSolution and Solver: the CDCL loop that
// drives PubGrub dependency resolution. Grounded on contriboss-pubgrub-go's
// {assignment,partial_solution,solver,solver_state,report}.go for overall
// architecture, restructured around this module's own
// internal/{version,rangeset,term,incompat} types and the two Open Question
// decisions recorded in DESIGN.md (a stateful relation evaluation, and a
// strict rather than heuristic findSatisfier).
package solve

import (
	"context"

	"github.com/teamchong/metal0-sub013/internal/incompat"
	"github.com/teamchong/metal0-sub013/internal/term"
	"github.com/teamchong/metal0-sub013/internal/version"
)

// PackageID identifies a solver subject (a package, or a package+extra).
type PackageID = incompat.PackageID

// Dependency is one dependency edge: a package must satisfy t.
type Dependency struct {
	Package PackageID
	Term    term.Term
}

// DependencyResult is what a DependencyProvider returns for a specific
// package version: either its full dependency list, or a reason it cannot
// be used at all.
type DependencyResult struct {
	Available    bool
	Dependencies []Dependency
	// Reason explains why Available is false. Only meaningful in that case.
	Reason string
}

// DependencyProvider is the solver's sole connection to the outside world:
// it answers "what versions exist" and "what does this version depend on".
// SPEC_FULL.md's internal/provider.PyPIProvider is the concrete
// implementation backing a real PyPI resolve; internal/solve never imports
// internal/pypi directly.
type DependencyProvider interface {
	// GetVersions returns every known version of pkg, newest first.
	GetVersions(ctx context.Context, pkg PackageID) ([]version.Version, error)

	// GetDependencies returns the dependency edges for pkg at v.
	GetDependencies(ctx context.Context, pkg PackageID, v version.Version) (DependencyResult, error)

	// Prioritize returns this package's decision priority: higher values
	// are decided earlier. Providers with no special knowledge should
	// return 0 uniformly, letting the solver's default heuristic (fewer
	// remaining intervals first) break ties.
	Prioritize(pkg PackageID) int
}
