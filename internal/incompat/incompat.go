// Package incompat implements Incompatibility: a set of terms that cannot
// all hold simultaneously, and its construction rules (not-root, from a
// package's declared dependency, no matching versions, and the derived
// merge produced during conflict resolution). Grounded on
// contriboss-pubgrub-go's incompatibility.go, adapted to this module's
// Term/PackageID shapes; the relation-against-partial-solution evaluation
// itself lives in internal/solve (see DESIGN.md's Open Question #1 — the
// stateful form is adopted there rather than a method here).
package incompat

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/teamchong/metal0-sub013/internal/rangeset"
	"github.com/teamchong/metal0-sub013/internal/term"
	"github.com/teamchong/metal0-sub013/internal/version"
)

// ErrEmptyIncompatibility is returned when construction would produce an
// incompatibility with zero terms — a degenerate shape that PriorCause can
// reach when every term it merges collapses to the vacuous "any" term. Per
// DESIGN.md's Open Question #3, such insertions are rejected rather than
// silently accepted.
var ErrEmptyIncompatibility = errors.New("incompat: refusing to build an incompatibility with no terms")

// PackageID identifies a package, optionally qualified by an extra
// (SPEC_FULL.md §4.11). The bare package and each of its extras are
// distinct solver subjects that happen to share a pinned version.
type PackageID struct {
	Name  string
	Extra string
}

func (p PackageID) String() string {
	if p.Extra == "" {
		return p.Name
	}
	return fmt.Sprintf("%s[%s]", p.Name, p.Extra)
}

// Bare returns the PackageID for the plain package with no extra.
func Bare(name string) PackageID { return PackageID{Name: name} }

// CauseKind tags why an Incompatibility was constructed.
type CauseKind int

const (
	// NotRoot marks the seed incompatibility {not root@rootVersion}.
	NotRoot CauseKind = iota
	// NoVersions marks an incompatibility derived from a package having no
	// version satisfying its accumulated term.
	NoVersions
	// FromDependency marks an incompatibility derived from one package's
	// declared dependency on another.
	FromDependency
	// Derived marks an incompatibility produced by merging two others
	// during conflict resolution (the PriorCause rule).
	Derived
	// Custom marks an incompatibility raised for a provider-reported
	// "package version unavailable" condition.
	Custom
)

// Cause records provenance for an Incompatibility.
type Cause struct {
	Kind CauseKind

	// Valid for FromDependency.
	DependerPackage PackageID
	DependerVersion version.Version
	DependeePackage PackageID

	// Valid for Derived.
	First  *Incompatibility
	Second *Incompatibility

	// Valid for Custom.
	Message string
}

// Incompatibility is a set of (package, term) pairs that the solver has
// proven cannot all hold at once.
type Incompatibility struct {
	Terms map[PackageID]term.Term
	Cause Cause
}

func newIncompatibility(terms map[PackageID]term.Term, cause Cause) (*Incompatibility, error) {
	if len(terms) == 0 {
		return nil, ErrEmptyIncompatibility
	}
	return &Incompatibility{Terms: terms, Cause: cause}, nil
}

// IsTerminal reports whether the incompatibility consists of exactly one
// term, for the root package, whose range contains the root's pinned
// version — the signal that conflict resolution has exhausted all
// possibilities and the overall problem has no solution.
func (i *Incompatibility) IsTerminal(root PackageID, rootVersion version.Version) bool {
	if len(i.Terms) != 1 {
		return false
	}
	t, ok := i.Terms[root]
	if !ok {
		return false
	}
	return t.Range.Contains(rootVersion)
}

func (i *Incompatibility) String() string {
	parts := make([]string, 0, len(i.Terms))
	for pkg, t := range i.Terms {
		sign := ""
		if !t.Positive {
			sign = "not "
		}
		parts = append(parts, fmt.Sprintf("%s%s %s", sign, pkg, t.Range))
	}
	out := "{"
	for idx, p := range parts {
		if idx > 0 {
			out += ", "
		}
		out += p
	}
	return out + "}"
}

// NotRootIncompatibility builds the seed incompatibility {not root@version}.
func NotRootIncompatibility(root PackageID, rootVersion version.Version) (*Incompatibility, error) {
	terms := map[PackageID]term.Term{
		root: term.Neg(rangeset.Singleton(rootVersion)),
	}
	return newIncompatibility(terms, Cause{Kind: NotRoot})
}

// FromDependencyIncompatibility builds {depender@dependerVersion, not dependee∈range}.
func FromDependencyIncompatibility(depender PackageID, dependerVersion version.Version, dependee PackageID, allowed term.Term) (*Incompatibility, error) {
	terms := map[PackageID]term.Term{
		depender: term.Pos(rangeset.Singleton(dependerVersion)),
		dependee: allowed.Negate(),
	}
	return newIncompatibility(terms, Cause{
		Kind:            FromDependency,
		DependerPackage: depender,
		DependerVersion: dependerVersion,
		DependeePackage: dependee,
	})
}

// NoVersionsIncompatibility builds {pkg∈term} for a package whose
// accumulated term matches no published version.
func NoVersionsIncompatibility(pkg PackageID, t term.Term) (*Incompatibility, error) {
	terms := map[PackageID]term.Term{pkg: t}
	return newIncompatibility(terms, Cause{Kind: NoVersions})
}

// CustomIncompatibility builds {pkg∈term} for a provider-reported
// unavailable package/version, carrying a human-readable message.
func CustomIncompatibility(pkg PackageID, t term.Term, message string) (*Incompatibility, error) {
	terms := map[PackageID]term.Term{pkg: t}
	return newIncompatibility(terms, Cause{Kind: Custom, Message: message})
}

// PriorCause merges incompatibility i and its satisfier's cause, both
// assumed to reference pkg, into the incompatibility learned from their
// resolution. pkg's two terms are unified by union; when that union allows
// every version it conveys nothing and pkg gets no term in the result
// (DESIGN.md Open Question #3). If only one side has a term for pkg, that
// term is carried over unchanged. Terms for every other package are carried
// over unchanged, except a package appearing in both i and cause, whose two
// terms are combined conjunctively (their allowed-version ranges are
// intersected, per contriboss-pubgrub-go's mergeTerms: the learned clause
// is only as strong as what both premises jointly rule out); if that
// intersection ends up covering every version the term conveys no
// information and is dropped from the merge entirely rather than inserted
// as a vacuous term.
func PriorCause(i, cause *Incompatibility, pkg PackageID) (*Incompatibility, error) {
	merged := make(map[PackageID]term.Term, len(i.Terms)+len(cause.Terms))

	for name, t := range i.Terms {
		if name == pkg {
			continue
		}
		merged[name] = t
	}
	for name, t := range cause.Terms {
		if name == pkg {
			continue
		}
		if existing, ok := merged[name]; ok {
			combined := existing.Intersect(t)
			if combined.IsVacuous() {
				delete(merged, name)
				continue
			}
			merged[name] = combined
			continue
		}
		merged[name] = t
	}

	t1, ok1 := i.Terms[pkg]
	t2, ok2 := cause.Terms[pkg]
	switch {
	case ok1 && ok2:
		if unified := t1.Union(t2); !unified.IsVacuous() {
			merged[pkg] = unified
		}
	case ok1:
		merged[pkg] = t1
	case ok2:
		merged[pkg] = t2
	}

	return newIncompatibility(merged, Cause{Kind: Derived, First: i, Second: cause})
}
