// RFC822-like METADATA parsing (SPEC_FULL.md §4.9 step 4). Grounded on
// _examples/google-deps.dev/util/pypi/metadata.go's Metadata/Dependency
// shape and its "UNKNOWN" sentinel handling, but deliberately not built on
// net/mail.ReadMessage: net/mail unfolds continuation lines (joining them
// into the previous header's value), while spec.md §4.8 requires
// continuation lines to be ignored outright. This file scans lines
// directly instead.
package pypi

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/teamchong/metal0-sub013/internal/version"
)

// Metadata is the subset of a wheel's METADATA (or PyPI JSON API "info")
// fields this resolver needs: enough to drive dependency resolution, not a
// full package-index mirror.
type Metadata struct {
	Name           string
	Version        version.Version
	RequiresPython string
	Requires       []Requirement
}

// ParseMetadataText parses RFC822-like METADATA text: "Key: value" header
// lines up to the first blank line. Continuation lines (leading space or
// tab) are ignored, per spec.md §4.8 — a multi-line License or Description
// body never corrupts the header keys that follow it. Requires-Dist is
// multi-valued; every occurrence is parsed as a dependency requirement via
// ParseDependency.
func ParseMetadataText(text string) (Metadata, error) {
	md := Metadata{}
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var nameSet, versionSet bool
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break
		}
		if line[0] == ' ' || line[0] == '\t' {
			continue
		}

		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			continue
		}
		key := strings.TrimSpace(line[:colon])
		value := strings.TrimSpace(line[colon+1:])
		if value == "UNKNOWN" {
			continue
		}

		switch strings.ToLower(key) {
		case "name":
			md.Name = value
			nameSet = true
		case "version":
			v, err := version.Parse(value)
			if err != nil {
				return Metadata{}, errors.Wrapf(err, "pypi: METADATA has invalid Version %q", value)
			}
			md.Version = v
			versionSet = true
		case "requires-python":
			md.RequiresPython = value
		case "requires-dist":
			req, err := ParseDependency(value)
			if err != nil {
				return Metadata{}, err
			}
			md.Requires = append(md.Requires, req)
		}
	}
	if err := scanner.Err(); err != nil {
		return Metadata{}, errors.Wrap(err, "pypi: scanning METADATA text")
	}
	if !nameSet || !versionSet {
		return Metadata{}, errors.New("pypi: METADATA missing required Name or Version header")
	}

	return md, nil
}

var canonNameRun = regexp.MustCompile(`[-_.]+`)

// CanonPackageName canonicalizes a PyPI distribution name per PEP 503:
// lowercase, with any run of "-", "_", or "." collapsed to a single "-".
func CanonPackageName(name string) string {
	return canonNameRun.ReplaceAllString(strings.ToLower(name), "-")
}
