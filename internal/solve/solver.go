package solve

import (
	"context"
	"sort"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/teamchong/metal0-sub013/internal/incompat"
	"github.com/teamchong/metal0-sub013/internal/rangeset"
	"github.com/teamchong/metal0-sub013/internal/term"
	"github.com/teamchong/metal0-sub013/internal/version"
)

// Options configures a Solver's behavior beyond the required
// DependencyProvider. Grounded on contriboss-pubgrub-go's SolverOptions,
// trimmed to the knobs SPEC_FULL.md actually calls for.
type Options struct {
	// MaxSteps bounds the main CDCL loop, guarding against a pathological
	// or buggy provider causing an infinite solve. Zero means unbounded.
	MaxSteps int
	Logger   zerolog.Logger
}

// Solver runs PubGrub's CDCL loop against a DependencyProvider to produce
// a consistent version assignment for every transitive dependency of a
// root package.
type Solver struct {
	provider DependencyProvider
	options  Options

	store             *incompat.Store
	incompatibilities map[PackageID][]incompat.ID

	queue  []PackageID
	queued map[PackageID]bool
}

// NewSolver builds a Solver backed by provider.
func NewSolver(provider DependencyProvider, opts Options) *Solver {
	return &Solver{
		provider:          provider,
		options:           opts,
		store:             incompat.NewStore(),
		incompatibilities: make(map[PackageID][]incompat.ID),
		queued:            make(map[PackageID]bool),
	}
}

func (s *Solver) enqueue(pkg PackageID) {
	if s.queued[pkg] {
		return
	}
	s.queue = append(s.queue, pkg)
	s.queued[pkg] = true
}

func (s *Solver) dequeue() (PackageID, bool) {
	if len(s.queue) == 0 {
		return PackageID{}, false
	}
	pkg := s.queue[0]
	s.queue = s.queue[1:]
	delete(s.queued, pkg)
	return pkg, true
}

func (s *Solver) addIncompatibility(inc *incompat.Incompatibility) {
	id := s.store.Add(inc)
	for pkg := range inc.Terms {
		s.incompatibilities[pkg] = append(s.incompatibilities[pkg], id)
	}
}

// Solve resolves root@rootVersion against every transitive dependency
// reachable through provider, returning the chosen version of each
// package involved (root included).
func (s *Solver) Solve(ctx context.Context, root PackageID, rootVersion version.Version) (map[PackageID]version.Version, error) {
	log := s.options.Logger.With().Str("root", root.Name).Logger()
	log.Debug().Str("version", rootVersion.String()).Msg("starting resolve")

	ps := newPartialSolution(root)
	rootAssign := ps.seedRoot(root, rootVersion)

	deps, err := s.provider.GetDependencies(ctx, root, rootVersion)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "fetching dependencies of root %s@%s", root.Name, rootVersion)
	}
	if !deps.Available {
		return nil, pkgerrors.Errorf("root %s@%s unavailable: %s", root.Name, rootVersion, deps.Reason)
	}

	conflict, err := s.registerDependencies(ps, root, rootVersion, deps.Dependencies)
	if err != nil {
		return nil, err
	}
	s.enqueue(rootAssign.Package)

	var propagateSeed PackageID
	hasSeed := false

	for steps := 0; ; steps++ {
		if s.options.MaxSteps > 0 && steps >= s.options.MaxSteps {
			return nil, ErrIterationLimit{Steps: s.options.MaxSteps}
		}

		if conflict != nil {
			log.Debug().Msg("resolving conflict")
			_, pivot, ok, err := s.resolveConflict(ps, conflict, root, rootVersion)
			if err != nil {
				var nsErr *NoSolutionError
				if pkgerrors.As(err, &nsErr) {
					return nil, nsErr
				}
				return nil, err
			}
			conflict = nil
			if ok {
				propagateSeed, hasSeed = pivot, true
			}
			continue
		}

		var seed PackageID
		if hasSeed {
			seed = propagateSeed
			hasSeed = false
		}
		propConflict, err := s.propagate(ps, seed)
		if err != nil {
			return nil, err
		}
		if propConflict != nil {
			conflict = propConflict
			continue
		}

		if ps.isComplete() {
			log.Debug().Int("steps", steps).Msg("resolution complete")
			return ps.extractSolution(), nil
		}

		next, ok := s.nextDecisionCandidate(ps)
		if !ok {
			return ps.extractSolution(), nil
		}

		ver, found, err := s.pickVersion(ctx, ps, next)
		if err != nil {
			return nil, err
		}
		if !found {
			noVersions, err := incompat.NoVersionsIncompatibility(next, ps.GetTerm(next))
			if err != nil {
				return nil, err
			}
			s.addIncompatibility(noVersions)
			conflict = noVersions
			continue
		}

		log.Debug().Str("package", next.Name).Str("version", ver.String()).Msg("deciding")
		decision := ps.addDecision(next, ver)

		depResult, err := s.provider.GetDependencies(ctx, next, ver)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "fetching dependencies of %s@%s", next.Name, ver)
		}
		if !depResult.Available {
			unavailable, err := incompat.CustomIncompatibility(next, term.Pos(rangeset.Singleton(ver)), depResult.Reason)
			if err != nil {
				return nil, err
			}
			s.addIncompatibility(unavailable)
			conflict = unavailable
			continue
		}

		depConflict, err := s.registerDependencies(ps, next, ver, depResult.Dependencies)
		if err != nil {
			return nil, err
		}
		if depConflict != nil {
			conflict = depConflict
			continue
		}

		s.enqueue(decision.Package)
	}
}

// propagate drains the work queue (seeding it with seed first, if set),
// re-evaluating every incompatibility that mentions a dequeued package.
// An AlmostSatisfied incompatibility derives the negation of its one
// unsatisfied term; a Satisfied one is itself the conflict to resolve.
func (s *Solver) propagate(ps *partialSolution, seed PackageID) (*incompat.Incompatibility, error) {
	if seed != (PackageID{}) {
		s.enqueue(seed)
	}

	for {
		pkg, ok := s.dequeue()
		if !ok {
			return nil, nil
		}

		for _, id := range s.incompatibilities[pkg] {
			inc := s.store.Get(id)
			relation, unsatPkg, unsatTerm := ps.evaluateIncompatibility(inc)

			switch relation {
			case relSatisfied:
				return inc, nil
			case relAlmostSatisfied:
				assign, changed, err := ps.addDerivation(unsatPkg, unsatTerm.Negate(), inc)
				if pkgerrors.Is(err, errNoAllowedVersions) {
					return inc, nil
				}
				if err != nil {
					return nil, err
				}
				if changed && assign != nil {
					s.enqueue(assign.Package)
				}
			}
		}
	}
}

// registerDependencies turns each dependency edge of pkg@v into a
// FromDependency incompatibility and folds its constraint into the
// partial solution, returning the first conflict encountered (if any).
func (s *Solver) registerDependencies(ps *partialSolution, pkg PackageID, v version.Version, deps []Dependency) (*incompat.Incompatibility, error) {
	for _, dep := range deps {
		inc, err := incompat.FromDependencyIncompatibility(pkg, v, dep.Package, dep.Term)
		if err != nil {
			return nil, err
		}
		s.addIncompatibility(inc)

		assign, changed, err := ps.addDerivation(dep.Package, dep.Term, inc)
		if pkgerrors.Is(err, errNoAllowedVersions) {
			base, baseErr := incompat.NoVersionsIncompatibility(dep.Package, dep.Term)
			if baseErr != nil {
				return nil, baseErr
			}
			merged, mergeErr := incompat.PriorCause(base, inc, dep.Package)
			if mergeErr != nil {
				return nil, mergeErr
			}
			return merged, nil
		}
		if err != nil {
			return nil, err
		}
		if changed && assign != nil {
			s.enqueue(assign.Package)
		}
	}
	return nil, nil
}

// resolveConflict runs CDCL conflict resolution: walk the derivation
// chain backward, merging incompatibilities via PriorCause at each step,
// until the conflict is terminal (unsolvable) or a decision can be
// undone by backtracking.
func (s *Solver) resolveConflict(ps *partialSolution, conflict *incompat.Incompatibility, root PackageID, rootVersion version.Version) (*incompat.Incompatibility, PackageID, bool, error) {
	for {
		if conflict.IsTerminal(root, rootVersion) {
			return nil, PackageID{}, false, &NoSolutionError{Incompatibility: conflict}
		}

		satisfier, prevLevel, err := satisfierAndPreviousLevel(ps.assignments, conflict)
		if err != nil {
			return nil, PackageID{}, false, err
		}

		if satisfier.Cause == nil {
			// Decisions never carry a cause: this is where resolution
			// bottoms out, either by backtracking past the decision or,
			// if it's the root at level 0, by giving up.
			if satisfier.DecisionLevel == 0 {
				return nil, PackageID{}, false, &NoSolutionError{Incompatibility: conflict}
			}
			if prevLevel < satisfier.DecisionLevel {
				ps.backtrack(prevLevel)
				s.addIncompatibility(conflict)
				return conflict, satisfier.Package, true, nil
			}
			return nil, PackageID{}, false, ErrNoSatisfierCause
		}

		merged, err := incompat.PriorCause(conflict, satisfier.Cause, satisfier.Package)
		if err != nil {
			return nil, PackageID{}, false, err
		}
		conflict = merged
	}
}

// pickVersion chooses the newest version of pkg that still satisfies its
// accumulated term, per provider.GetVersions' newest-first contract.
func (s *Solver) pickVersion(ctx context.Context, ps *partialSolution, pkg PackageID) (version.Version, bool, error) {
	t := ps.GetTerm(pkg)
	if t.IsNone() {
		return version.Version{}, false, nil
	}

	versions, err := s.provider.GetVersions(ctx, pkg)
	if err != nil {
		return version.Version{}, false, err
	}
	for _, v := range versions {
		if t.Allowed().Contains(v) {
			return v, true, nil
		}
	}
	return version.Version{}, false, nil
}

// nextDecisionCandidate picks the next undecided package to commit a
// version for: the provider's Prioritize ranking first, then the
// package with fewest remaining candidate intervals, matching
// contriboss-pubgrub-go's "most constrained first" heuristic intent.
func (s *Solver) nextDecisionCandidate(ps *partialSolution) (PackageID, bool) {
	candidates := ps.undecidedCandidates()
	if len(candidates) == 0 {
		return PackageID{}, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		pi, pj := s.provider.Prioritize(candidates[i]), s.provider.Prioritize(candidates[j])
		if pi != pj {
			return pi > pj
		}
		return len(ps.GetTerm(candidates[i]).Range.Intervals()) < len(ps.GetTerm(candidates[j]).Range.Intervals())
	})
	return candidates[0], true
}
