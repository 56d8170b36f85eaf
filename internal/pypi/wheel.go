// Wheel filename parsing (SPEC_FULL.md §4.9). Grounded on
// _examples/google-deps.dev/util/pypi/wheel.go's ParseWheelName (splitting
// on "-", stripping the ".whl" suffix, handling the optional numeric build
// tag segment). Wheel-tag preference scoring is delegated to the real
// github.com/datawire/ocibuild/pkg/python/pep425 package (Tag/Installer)
// rather than reimplemented, since that package is a direct teacher
// dependency built exactly for this.
package pypi

import (
	"strings"

	"github.com/datawire/ocibuild/pkg/python/pep425"
	"github.com/pkg/errors"
)

// WheelInfo is the filename-derived identity of one wheel file.
type WheelInfo struct {
	Name     string
	Version  string
	BuildTag string
	Tags     []pep425.Tag
}

// ParseWheelName parses a wheel filename of the form
// {distribution}-{version}(-{build tag})?-{python tag}-{abi tag}-{platform tag}.whl
// per PEP 427.
func ParseWheelName(name string) (*WheelInfo, error) {
	base := strings.TrimSuffix(name, ".whl")
	if base == name {
		return nil, errors.Errorf("pypi: %q is not a .whl filename", name)
	}

	parts := strings.Split(base, "-")
	if len(parts) < 5 {
		return nil, errors.Errorf("pypi: wheel filename %q has too few '-'-separated fields", name)
	}

	distribution := parts[0]
	ver := parts[1]

	rest := parts[2:]
	buildTag := ""
	if len(rest) == 4 {
		buildTag = rest[0]
		rest = rest[1:]
	}
	if len(rest) != 3 {
		return nil, errors.Errorf("pypi: wheel filename %q has an unexpected number of tag fields", name)
	}

	tags := expandPEP425Tags(pep425.Tag{Python: rest[0], ABI: rest[1], Platform: rest[2]})

	return &WheelInfo{
		Name:     CanonPackageName(distribution),
		Version:  ver,
		BuildTag: buildTag,
		Tags:     tags,
	}, nil
}

// expandPEP425Tags decompresses a compressed PEP 425 tag triple (each
// segment may itself be a "."-joined set, e.g. "py2.py3-none-any") into
// every concrete (python, abi, platform) combination it represents, via
// pep425.Tag.Decompress.
func expandPEP425Tags(compressed pep425.Tag) []pep425.Tag {
	return compressed.Decompress()
}

// IsUniversalWheel reports whether any of a wheel's decompressed tags is
// the fully platform-independent py3-none-any or py2.py3-none-any tag —
// SPEC_FULL.md §4.9's preferred tag when choosing among metadata-bearing
// wheels for a version.
func IsUniversalWheel(tags []pep425.Tag) bool {
	for _, t := range tags {
		if t.ABI == "none" && t.Platform == "any" && (t.Python == "py3" || t.Python == "py2.py3") {
			return true
		}
	}
	return false
}

// VersionFromFilename extracts a version substring from an arbitrary
// distribution filename listed in a Simple API page (a wheel, sdist
// tarball, or zip), per spec.md §4.9's deliberately loose rule: the first
// hyphen followed immediately by a digit marks the start of the version;
// the version runs to the next hyphen, or to a trailing ".tar.gz"/".zip"
// suffix, whichever comes first.
func VersionFromFilename(filename string) (name, ver string, ok bool) {
	for i := 0; i < len(filename)-1; i++ {
		if filename[i] != '-' {
			continue
		}
		if filename[i+1] < '0' || filename[i+1] > '9' {
			continue
		}

		name = filename[:i]
		rest := filename[i+1:]
		rest = strings.TrimSuffix(rest, ".tar.gz")
		rest = strings.TrimSuffix(rest, ".zip")
		rest = strings.TrimSuffix(rest, ".whl")

		if end := strings.IndexByte(rest, '-'); end >= 0 {
			rest = rest[:end]
		}
		return CanonPackageName(name), rest, true
	}
	return "", "", false
}
