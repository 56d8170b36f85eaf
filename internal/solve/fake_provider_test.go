package solve

import (
	"context"

	"github.com/teamchong/metal0-sub013/internal/rangeset"
	"github.com/teamchong/metal0-sub013/internal/term"
	"github.com/teamchong/metal0-sub013/internal/version"
)

// fakeEntry is one package version's published dependency edges, for the
// in-memory fake provider used across this package's seed-scenario tests.
type fakeEntry struct {
	deps []Dependency
}

// fakeProvider is a deterministic, in-memory DependencyProvider for tests,
// grounded on contriboss-pubgrub-go's InMemorySource.
type fakeProvider struct {
	versions map[string][]version.Version
	entries  map[string]map[string]fakeEntry // pkg name -> version string -> entry
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		versions: make(map[string][]version.Version),
		entries:  make(map[string]map[string]fakeEntry),
	}
}

func (f *fakeProvider) addVersion(name, v string, deps ...Dependency) {
	parsed := version.MustParse(v)
	f.versions[name] = append(f.versions[name], parsed)
	if f.entries[name] == nil {
		f.entries[name] = make(map[string]fakeEntry)
	}
	f.entries[name][parsed.String()] = fakeEntry{deps: deps}
}

func (f *fakeProvider) GetVersions(_ context.Context, pkg PackageID) ([]version.Version, error) {
	return f.versions[pkg.Name], nil
}

func (f *fakeProvider) GetDependencies(_ context.Context, pkg PackageID, v version.Version) (DependencyResult, error) {
	entry, ok := f.entries[pkg.Name][v.String()]
	if !ok {
		return DependencyResult{Available: false, Reason: "unknown version"}, nil
	}
	return DependencyResult{Available: true, Dependencies: entry.deps}, nil
}

func (f *fakeProvider) Prioritize(PackageID) int { return 0 }

// atLeast builds the term "version >= v".
func atLeast(v string) term.Term {
	return term.Pos(rangeset.GE(version.MustParse(v)))
}

// below builds the term "version < v".
func below(v string) term.Term {
	return term.Pos(rangeset.LT(version.MustParse(v)))
}
