// Client orchestrates the tiered metadata path from SPEC_FULL.md §4.9:
// fast path (Simple API + PEP 658 wheel METADATA) first, JSON API as a
// fallback per package. Grounded on
// _examples/google-deps.dev/util/pypi/{wheel.go,metadata.go}'s overall
// shape, restructured around this module's own internal/fetch and
// internal/cache rather than deps.dev's own HTTP/caching layers.
package pypi

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/teamchong/metal0-sub013/internal/cache"
	"github.com/teamchong/metal0-sub013/internal/fetch"
)

// MaxConcurrent is the hard per-batch cap from spec.md §4.9.
const MaxConcurrent = 100

// Options configures a Client.
type Options struct {
	SimpleAPIURL string
	JSONAPIURL   string
	MaxRetries   int
	Logger       zerolog.Logger
}

// Client is the tiered PyPI metadata client: Simple API + PEP 658 wheel
// METADATA preferred, JSON API as a per-package fallback, with retries
// applied at this layer (never inside internal/fetch).
type Client struct {
	fetcher    *fetch.Fetcher
	cache      *cache.Cache
	simpleURL  string
	jsonURL    string
	maxRetries int
	logger     zerolog.Logger
}

// New builds a Client over an already-constructed Fetcher and Cache (both
// shared with the rest of the resolve per spec.md §5's shared-resource
// policy).
func New(fetcher *fetch.Fetcher, c *cache.Cache, opts Options) *Client {
	simpleURL := opts.SimpleAPIURL
	if simpleURL == "" {
		simpleURL = "https://pypi.org/simple"
	}
	jsonURL := opts.JSONAPIURL
	if jsonURL == "" {
		jsonURL = "https://pypi.org/pypi"
	}
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	return &Client{
		fetcher:    fetcher,
		cache:      c,
		simpleURL:  simpleURL,
		jsonURL:    jsonURL,
		maxRetries: maxRetries,
		logger:     opts.Logger,
	}
}

// PackageVersions is the result of resolving one package's Simple API
// page: every version the index announces, plus the chosen preferred file
// (per SelectPreferredWheel) backing each one.
type PackageVersions struct {
	Name     string
	Versions map[string]SimpleFile
}

// fetchWithRetry issues a GET against url with exponential backoff
// (100ms << retryIndex) on transient failures, per spec.md §4.8/§4.9.
// Retries cover transport errors and the transient status classes
// (429/5xx); PackageNotFound (404) never retries.
func (c *Client) fetchWithRetry(ctx context.Context, url string) (fetch.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := 100 * time.Millisecond * time.Duration(math.Pow(2, float64(attempt-1)))
			select {
			case <-ctx.Done():
				return fetch.Response{}, ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := c.fetcher.Get(ctx, url)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.Status == 404 {
			return resp, nil
		}
		if resp.Status == 200 {
			return resp, nil
		}
		if resp.Status == 429 || resp.Status >= 500 {
			lastErr = errors.Errorf("pypi: %s: status %d", url, resp.Status)
			continue
		}
		return resp, nil
	}
	return fetch.Response{}, lastErr
}

// GetSimplePage fetches and parses name's Simple API page, consulting and
// populating the "simple:{name}" cache entry.
func (c *Client) GetSimplePage(ctx context.Context, name string) (PackageVersions, error) {
	name = CanonPackageName(name)
	key := fmt.Sprintf("simple:%s", name)

	pageURL := fmt.Sprintf("%s/%s/", c.simpleURL, name)

	var body []byte
	if cached, ok := c.cache.Get(key); ok {
		body = cached
	} else {
		resp, err := c.fetchWithRetry(ctx, pageURL)
		if err != nil {
			return PackageVersions{}, &Error{Kind: NetworkError, Package: name, Cause: err}
		}
		if resp.Status == 404 {
			return PackageVersions{}, &Error{Kind: PackageNotFound, Package: name}
		}
		if resp.Status != 200 {
			return PackageVersions{}, &Error{Kind: errorKindForStatus(resp.Status), Package: name}
		}
		body = resp.Body
		c.cache.Put(key, body)
	}

	files, err := ParseSimplePage(string(body))
	if err != nil {
		return PackageVersions{}, &Error{Kind: ParseError, Package: name, Cause: err}
	}

	base, _ := url.Parse(pageURL)
	byVersion := make(map[string][]SimpleFile)
	for _, f := range files {
		if f.Version == "" {
			continue
		}
		if ref, err := url.Parse(f.URL); err == nil && base != nil {
			f.URL = base.ResolveReference(ref).String()
		}
		byVersion[f.Version] = append(byVersion[f.Version], f)
	}

	result := PackageVersions{Name: name, Versions: make(map[string]SimpleFile, len(byVersion))}
	for ver, candidates := range byVersion {
		best, ok := SelectPreferredWheel(candidates)
		if ok {
			result.Versions[ver] = best
		}
	}
	return result, nil
}

// GetMetadata fetches the dependency metadata for one (name, version) pair
// via the fast path, falling back to the JSON API per-version lookup when
// PEP 658 metadata was not announced or its fetch/parse failed.
func (c *Client) GetMetadata(ctx context.Context, name, ver string) (Metadata, error) {
	name = CanonPackageName(name)
	metaKey := fmt.Sprintf("meta:%s", name)

	if cached, ok := c.cache.Get(metaKey); ok {
		md, err := ParseMetadataText(string(cached))
		if err == nil && md.Version.String() == ver {
			return md, nil
		}
		// Stale or mismatched cache entry (a different version was cached
		// under this name's slot since); fall through to refetch.
	}

	page, err := c.GetSimplePage(ctx, name)
	if err != nil {
		return Metadata{}, err
	}
	file, ok := page.Versions[ver]
	if !ok {
		return c.getJSONMetadata(ctx, name, ver)
	}

	if !file.HasDistInfoMeta {
		return c.getJSONMetadata(ctx, name, ver)
	}

	metaURL := file.URL + ".metadata"
	resp, err := c.fetchWithRetry(ctx, metaURL)
	if err != nil || resp.Status != 200 {
		c.logger.Debug().Str("package", name).Str("version", ver).Msg("PEP 658 metadata fetch failed, falling back to JSON API")
		return c.getJSONMetadata(ctx, name, ver)
	}

	md, err := ParseMetadataText(string(resp.Body))
	if err != nil {
		return c.getJSONMetadata(ctx, name, ver)
	}

	c.cache.Put(metaKey, resp.Body)
	return md, nil
}

func (c *Client) getJSONMetadata(ctx context.Context, name, ver string) (Metadata, error) {
	pkg, err := c.GetPackageJSON(ctx, name)
	if err != nil {
		return Metadata{}, err
	}
	if pkg.Version.String() != ver {
		return Metadata{}, &Error{Kind: PackageNotFound, Package: name, Cause: errors.Errorf("pypi: JSON API info.version %q does not match requested %q", pkg.Version.String(), ver)}
	}
	return Metadata{Name: pkg.Name, Version: pkg.Version, Requires: pkg.Requires}, nil
}

// GetPackageJSON fetches and parses name's JSON API document, consulting
// and populating the "pypi:json:{name}" cache entry.
func (c *Client) GetPackageJSON(ctx context.Context, name string) (JSONPackage, error) {
	name = CanonPackageName(name)
	key := fmt.Sprintf("pypi:json:%s", name)

	var body []byte
	if cached, ok := c.cache.Get(key); ok {
		body = cached
	} else {
		url := fmt.Sprintf("%s/%s/json", c.jsonURL, name)
		resp, err := c.fetchWithRetry(ctx, url)
		if err != nil {
			return JSONPackage{}, &Error{Kind: NetworkError, Package: name, Cause: err}
		}
		if resp.Status == 404 {
			return JSONPackage{}, &Error{Kind: PackageNotFound, Package: name}
		}
		if resp.Status != 200 {
			return JSONPackage{}, &Error{Kind: errorKindForStatus(resp.Status), Package: name}
		}
		body = resp.Body
		c.cache.Put(key, body)
	}

	pkg, err := ParseJSONAPIResponse(body)
	if err != nil {
		if perr, ok := err.(*Error); ok {
			perr.Package = name
			return JSONPackage{}, perr
		}
		return JSONPackage{}, &Error{Kind: ParseError, Package: name, Cause: err}
	}
	return pkg, nil
}

// BatchResult pairs a requested package name with its Simple API page
// lookup outcome, for use by GetPackagesFastWithCache's batch-concatenated
// result slice.
type BatchResult struct {
	Name  string
	Pages PackageVersions
	Err   error
}

// GetPackagesFastWithCache resolves the Simple API page for every name in
// names, splitting the request set into contiguous batches of at most
// MaxConcurrent and concatenating results in input order, per spec.md
// §4.9's batching rule. A per-package failure never aborts the batch: it
// is recorded in that entry's Err field.
func (c *Client) GetPackagesFastWithCache(ctx context.Context, names []string) []BatchResult {
	results := make([]BatchResult, len(names))

	for start := 0; start < len(names); start += MaxConcurrent {
		end := start + MaxConcurrent
		if end > len(names) {
			end = len(names)
		}
		batch := names[start:end]

		var group errgroup.Group
		for i, name := range batch {
			i, name := i, name
			group.Go(func() error {
				page, err := c.GetSimplePage(ctx, name)
				results[start+i] = BatchResult{Name: name, Pages: page, Err: err}
				return nil
			})
		}
		_ = group.Wait()
	}

	return results
}
