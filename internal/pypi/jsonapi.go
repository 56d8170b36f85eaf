// JSON API fallback parsing (SPEC_FULL.md §4.9's "JSON path"). Parsed
// lazily via encoding/json into an untyped map so that only
// info.{name,version,requires_dist} and the top-level releases keys are
// extracted — file lists nested under each release are discarded, per
// spec.md §4.9.
package pypi

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/teamchong/metal0-sub013/internal/version"
)

// JSONPackage is the subset of a PyPI JSON API response this resolver
// needs: the current release's metadata plus every version string known
// to exist (from the "releases" map's keys).
type JSONPackage struct {
	Name     string
	Version  version.Version
	Requires []Requirement
	Versions []string
}

// ParseJSONAPIResponse parses a PyPI JSON API body (the `{json_api_url}/
// {name}/json` shape). A missing `info` object, or a missing/invalid
// required scalar within it, fails with ParseError per spec.md §4.9.
func ParseJSONAPIResponse(body []byte) (JSONPackage, error) {
	var raw struct {
		Info *struct {
			Name         string   `json:"name"`
			Version      string   `json:"version"`
			RequiresDist []string `json:"requires_dist"`
		} `json:"info"`
		Releases map[string]json.RawMessage `json:"releases"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return JSONPackage{}, &Error{Kind: ParseError, Cause: err}
	}
	if raw.Info == nil {
		return JSONPackage{}, &Error{Kind: ParseError, Cause: errors.New("pypi: JSON API response has no \"info\" object")}
	}
	if raw.Info.Name == "" || raw.Info.Version == "" {
		return JSONPackage{}, &Error{Kind: ParseError, Cause: errors.New("pypi: JSON API \"info\" is missing name or version")}
	}

	v, err := version.Parse(raw.Info.Version)
	if err != nil {
		return JSONPackage{}, &Error{Kind: ParseError, Cause: err}
	}

	pkg := JSONPackage{
		Name:    CanonPackageName(raw.Info.Name),
		Version: v,
	}
	for _, r := range raw.Info.RequiresDist {
		req, err := ParseDependency(r)
		if err != nil {
			return JSONPackage{}, &Error{Kind: ParseError, Cause: err}
		}
		pkg.Requires = append(pkg.Requires, req)
	}
	for verStr := range raw.Releases {
		pkg.Versions = append(pkg.Versions, verStr)
	}

	return pkg, nil
}
