// Package provider adapts internal/pypi's tiered metadata Client to
// internal/solve's DependencyProvider interface, per spec.md §4.6.
// Grounded on _examples/google-deps.dev/util/resolve/pypi/resolve.go's
// shape: a PyPI-specific client wrapped behind the generic resolver
// interface the solver actually consumes, keeping internal/solve ignorant
// of PyPI, HTTP, and caching concerns entirely.
package provider

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/teamchong/metal0-sub013/internal/pypi"
	"github.com/teamchong/metal0-sub013/internal/rangeset"
	"github.com/teamchong/metal0-sub013/internal/solve"
	"github.com/teamchong/metal0-sub013/internal/term"
	"github.com/teamchong/metal0-sub013/internal/version"
)

// PyPIProvider implements solve.DependencyProvider over a pypi.Client.
type PyPIProvider struct {
	client *pypi.Client
	env    pypi.Environment
	logger zerolog.Logger
}

// New builds a PyPIProvider. env is the fixed target environment PEP 508
// markers are evaluated against (pypi.DefaultEnvironment() if the caller
// has no override).
func New(client *pypi.Client, env pypi.Environment, logger zerolog.Logger) *PyPIProvider {
	return &PyPIProvider{client: client, env: env, logger: logger}
}

// GetVersions returns every version of pkg the Simple API page announces
// with a usable file, newest first. A package the index has never heard of
// is reported as zero versions rather than an error — the solver turns
// that into its own NoVersions incompatibility.
func (p *PyPIProvider) GetVersions(ctx context.Context, pkg solve.PackageID) ([]version.Version, error) {
	page, err := p.client.GetSimplePage(ctx, pkg.Name)
	if err != nil {
		if perr, ok := err.(*pypi.Error); ok && perr.Kind == pypi.PackageNotFound {
			return nil, nil
		}
		return nil, err
	}

	versions := make([]version.Version, 0, len(page.Versions))
	for verStr := range page.Versions {
		v, err := version.Parse(verStr)
		if err != nil {
			p.logger.Debug().Str("package", pkg.Name).Str("version", verStr).Msg("skipping unparseable version from Simple API page")
			continue
		}
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[j].Less(versions[i]) })
	return versions, nil
}

// GetDependencies returns pkg@v's dependency edges. For a bare package
// this is exactly its Requires-Dist entries (after marker evaluation and
// extras expansion, per spec.md §4.10/§4.11); for an extras-qualified
// PackageID it is a pin back to the bare package at the same version plus
// whichever Requires-Dist entries that extra's marker (`extra == "name"`)
// enables.
func (p *PyPIProvider) GetDependencies(ctx context.Context, pkg solve.PackageID, v version.Version) (solve.DependencyResult, error) {
	md, err := p.client.GetMetadata(ctx, pkg.Name, v.String())
	if err != nil {
		if perr, ok := err.(*pypi.Error); ok {
			return solve.DependencyResult{Available: false, Reason: perr.Error()}, nil
		}
		return solve.DependencyResult{}, err
	}

	env := p.env
	env.Extra = pkg.Extra

	var deps []solve.Dependency
	if pkg.Extra != "" {
		deps = append(deps, solve.Dependency{
			Package: solve.PackageID{Name: pkg.Name},
			Term:    term.Pos(rangeset.Singleton(v)),
		})
	}

	for _, req := range md.Requires {
		if req.Marker != "" && !pypi.EvalMarker(req.Marker, env) {
			continue
		}
		// A bare dependency's own Requires-Dist entries are only in scope
		// for the bare PackageID's resolution, not for an extras variant's
		// *additional* requirements: an extras-qualified pkg skips every
		// unmarked entry and contributes the marker-bearing entries whose
		// marker holds (the EvalMarker check above, with env.Extra set to
		// pkg.Extra), plus the bare pin added above.
		if pkg.Extra != "" && req.Marker == "" {
			continue
		}

		deps = append(deps, solve.Dependency{
			Package: solve.PackageID{Name: req.Name},
			Term:    term.Pos(req.Range),
		})
		for _, extra := range req.Extras {
			deps = append(deps, solve.Dependency{
				Package: solve.PackageID{Name: req.Name, Extra: extra},
				Term:    term.Pos(req.Range),
			})
		}
	}

	return solve.DependencyResult{Available: true, Dependencies: deps}, nil
}

// Prioritize reports no special-case ordering: the solver's own
// fewer-remaining-intervals heuristic governs decision order.
func (p *PyPIProvider) Prioritize(pkg solve.PackageID) int {
	return 0
}
