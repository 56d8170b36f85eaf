// Simple API HTML parsing (SPEC_FULL.md §4.9 steps 2-3). Grounded on
// _examples/datawire-ocibuild/pkg/htmlutil/htmlutil.go's VisitHTML/GetAttr
// tree-walk helpers, which this file reuses directly rather than
// reimplementing an HTML anchor walk.
package pypi

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/datawire/ocibuild/pkg/htmlutil"
)

// SimpleFile is one anchor entry on a PyPI Simple API package page: a
// distribution file (wheel or sdist), its canonical download URL (fragment
// stripped), and whether the index announces PEP 658 METADATA alongside
// it.
type SimpleFile struct {
	Filename        string
	URL             string
	Version         string
	HasDistInfoMeta bool
	Wheel           *WheelInfo
}

// ParseSimplePage extracts every ".whl"/".tar.gz"/".zip" anchor from a
// Simple API v1 HTML page. Hrefs are kept as written (fragment stripped);
// a relative href stays relative here, and Client.GetSimplePage resolves
// it against the page's own URL (PyPI's real index always gives absolute
// URLs, but test fixtures and self-hosted indexes may not).
func ParseSimplePage(htmlText string) ([]SimpleFile, error) {
	doc, err := html.Parse(strings.NewReader(htmlText))
	if err != nil {
		return nil, &Error{Kind: ParseError, Cause: err}
	}

	var files []SimpleFile
	err = htmlutil.VisitHTML(doc, func(n *html.Node) error {
		if n.Type != html.ElementNode || n.Data != "a" {
			return nil
		}
		href, ok := htmlutil.GetAttr(n, "", "href")
		if !ok {
			return nil
		}
		filename := filenameFromHref(href)
		if !isDistributionFile(filename) {
			return nil
		}

		sf := SimpleFile{
			Filename: filename,
			URL:      stripFragment(href),
		}

		// PEP 658 announces metadata availability via either attribute name,
		// accepting both boolean (bare/"true") and object ("{sha256: ...}",
		// rendered here as a non-"false" string) forms. Only a literal
		// "false" opts out.
		if meta, ok := htmlutil.GetAttr(n, "", "data-dist-info-metadata"); ok {
			sf.HasDistInfoMeta = meta != "false"
		}
		if meta, ok := htmlutil.GetAttr(n, "", "core-metadata"); ok {
			sf.HasDistInfoMeta = sf.HasDistInfoMeta || meta != "false"
		}

		if strings.HasSuffix(filename, ".whl") {
			if wi, err := ParseWheelName(filename); err == nil {
				sf.Wheel = wi
				sf.Version = wi.Version
			}
		}
		if sf.Version == "" {
			if _, ver, ok := VersionFromFilename(filename); ok {
				sf.Version = ver
			}
		}

		files = append(files, sf)
		return nil
	}, nil)
	if err != nil {
		return nil, &Error{Kind: ParseError, Cause: err}
	}

	return files, nil
}

func filenameFromHref(href string) string {
	href = stripFragment(href)
	if idx := strings.LastIndexByte(href, '/'); idx >= 0 {
		return href[idx+1:]
	}
	return href
}

func stripFragment(href string) string {
	if idx := strings.IndexByte(href, '#'); idx >= 0 {
		return href[:idx]
	}
	return href
}

func isDistributionFile(filename string) bool {
	return strings.HasSuffix(filename, ".whl") ||
		strings.HasSuffix(filename, ".tar.gz") ||
		strings.HasSuffix(filename, ".zip")
}

// SelectPreferredWheel implements spec.md §4.9's per-version preference
// rule among a version's candidate files: prefer a wheel with metadata
// available; among those, prefer a universal (py3-none-any /
// py2.py3-none-any) wheel; otherwise the first-found file.
func SelectPreferredWheel(candidates []SimpleFile) (SimpleFile, bool) {
	if len(candidates) == 0 {
		return SimpleFile{}, false
	}

	best := candidates[0]
	bestScore := scoreCandidate(candidates[0])
	for _, c := range candidates[1:] {
		if s := scoreCandidate(c); s > bestScore {
			best, bestScore = c, s
		}
	}
	return best, true
}

func scoreCandidate(c SimpleFile) int {
	score := 0
	if c.HasDistInfoMeta {
		score += 2
	}
	if c.Wheel != nil && IsUniversalWheel(c.Wheel.Tags) {
		score++
	}
	return score
}
