// Package fetch implements the HTTP/2 multiplexed fetcher described in
// SPEC_FULL.md §4.8: a single persistent connection per host, with get_all
// fanning a batch of requests out over that connection bounded by
// MaxConcurrent. No teacher file in the retrieved pack exercises
// golang.org/x/net/http2 or golang.org/x/sync/errgroup directly (both are
// present in go.mod for this reason); this package wires them the way a
// production Go HTTP client ordinarily does, following golang-dep's
// context-per-call and github.com/pkg/errors-wrapped error idiom for the
// rest of the shape.
package fetch

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/http2"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxConcurrent is the hard per-batch cap from SPEC_FULL.md §4.8.
const DefaultMaxConcurrent = 100

// DefaultTimeout is applied per request when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Response is the result of one fetch: an HTTP status and the full
// response body. Non-200 statuses are returned here, never as an error —
// only transport-level failures (DNS, TLS, timeout, connection reset)
// produce an error.
type Response struct {
	Status int
	Body   []byte
}

// Options configures a Fetcher.
type Options struct {
	// UserAgent is sent on every request. Defaults to "metal0-pkg/1.0".
	UserAgent string
	// Accept, if set, is sent as the Accept header on every request issued
	// through Get/GetAll. Callers needing per-request Accept values should
	// construct a separate Fetcher per Accept value, matching this
	// package's one-concern-per-client shape.
	Accept string
	// Timeout bounds a single request. Defaults to DefaultTimeout.
	Timeout time.Duration
	// MaxConcurrent bounds how many requests GetAll issues concurrently
	// over the shared connection. Zero, negative, or values above
	// DefaultMaxConcurrent all become DefaultMaxConcurrent.
	MaxConcurrent int
	// Client, if set, is used in place of the forced-HTTP/2 client New
	// would otherwise build. Exists so tests can point a Fetcher at an
	// httptest.Server's own trusting *http.Client instead of dialing real
	// TLS; production callers should leave this nil.
	Client *http.Client
}

// Fetcher issues HTTP/2 requests over a shared, persistent *http.Client.
// Thread-safety matches SPEC_FULL.md §5: a Fetcher has no internal locking
// beyond what net/http already provides for concurrent use of one Client.
type Fetcher struct {
	client        *http.Client
	userAgent     string
	accept        string
	timeout       time.Duration
	maxConcurrent int
}

// New builds a Fetcher configured for HTTP/2 with connection reuse across
// calls. Per spec, the transport is forced onto HTTP/2 (h2) rather than
// left to protocol negotiation, since the whole point of this layer is one
// multiplexed connection per host.
func New(opts Options) (*Fetcher, error) {
	client := opts.Client
	if client == nil {
		client = &http.Client{Transport: &http2.Transport{TLSClientConfig: &tls.Config{}}}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "metal0-pkg/1.0"
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent <= 0 || maxConcurrent > DefaultMaxConcurrent {
		maxConcurrent = DefaultMaxConcurrent
	}

	return &Fetcher{
		client:        client,
		userAgent:     userAgent,
		accept:        opts.Accept,
		timeout:       timeout,
		maxConcurrent: maxConcurrent,
	}, nil
}

// Get issues a single request, returning its status and body. Non-200
// statuses are returned as a Response, not an error. A transport-level
// failure (the request never got an HTTP response at all) is wrapped and
// returned as an error.
func (f *Fetcher) Get(ctx context.Context, url string) (Response, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return Response{}, errors.Wrapf(err, "fetch: building request for %s", url)
	}
	req.Header.Set("User-Agent", f.userAgent)
	if f.accept != "" {
		req.Header.Set("Accept", f.accept)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Response{}, errors.Wrapf(err, "fetch: requesting %s", url)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, errors.Wrapf(err, "fetch: reading body for %s", url)
	}

	return Response{Status: resp.StatusCode, Body: body}, nil
}

// GetAll fans a batch of URLs out concurrently, bounded by
// Options.MaxConcurrent, and returns results positionally aligned with
// urls. Per SPEC_FULL.md §5, each request runs under its own
// context.WithTimeout derived from ctx rather than from errgroup's group
// context, so one request's failure never cancels its siblings — only the
// first transport-level error is surfaced, as errgroup.Group's Wait
// contract already provides.
func (f *Fetcher) GetAll(ctx context.Context, urls []string) ([]Response, error) {
	if len(urls) > f.maxConcurrent {
		return nil, errors.Errorf("fetch: batch of %d exceeds MaxConcurrent %d; caller must split into contiguous batches", len(urls), f.maxConcurrent)
	}

	results := make([]Response, len(urls))
	var group errgroup.Group

	for i, url := range urls {
		i, url := i, url
		group.Go(func() error {
			resp, err := f.Get(ctx, url)
			if err != nil {
				return err
			}
			results[i] = resp
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
