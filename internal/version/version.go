// Package version adapts PEP 440 version parsing, ordering and formatting
// for use by the resolver's range/term/solver layers. Parsing itself is
// treated as an external black box: all of the PEP 440 scheme logic lives
// in github.com/datawire/ocibuild/pkg/python/pep440, and this package only
// wraps it behind the narrow surface the rest of the module needs.
package version

import (
	"github.com/datawire/ocibuild/pkg/python/pep440"
	"github.com/pkg/errors"
)

// Version is an immutable, orderable PEP 440 version.
type Version struct {
	v pep440.Version
}

// Parse parses a PEP 440 version string.
func Parse(s string) (Version, error) {
	v, err := pep440.ParseVersion(s)
	if err != nil {
		return Version{}, errors.Wrapf(err, "parse version %q", s)
	}
	return Version{v: *v}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and for
// constructing well-known constants (e.g. a root package's synthetic
// version) from literals known at compile time to be valid.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String renders the version in canonical PEP 440 form.
func (v Version) String() string {
	return v.v.String()
}

// Order returns -1, 0, or 1 as v compares less than, equal to, or greater
// than other, per PEP 440's ordering rules (epoch, release segment,
// pre/post/dev qualifiers, then local version).
func (v Version) Order(other Version) int {
	return v.v.Cmp(other.v)
}

// Equal reports whether v and other compare equal under Order.
func (v Version) Equal(other Version) bool {
	return v.Order(other) == 0
}

// Less reports whether v sorts strictly before other.
func (v Version) Less(other Version) bool {
	return v.Order(other) < 0
}

// Clone returns an independent copy of v. pep440.Version carries slice
// fields (local version segments) that a shallow copy would alias, so this
// round-trips through Normalize+String+Parse to guarantee independence.
func (v Version) Clone() Version {
	norm, err := v.v.Normalize()
	if err != nil {
		// Normalize only fails on a version that failed to parse in the
		// first place, which cannot happen for a Version we already hold.
		return v
	}
	c, err := Parse(norm.String())
	if err != nil {
		return v
	}
	return c
}

// IsZero reports whether v is the zero Version (no version parsed into it).
func (v Version) IsZero() bool {
	return v.v.String() == ""
}
