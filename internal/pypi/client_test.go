package pypi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamchong/metal0-sub013/internal/cache"
	"github.com/teamchong/metal0-sub013/internal/fetch"
)

func newH2TestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewUnstartedServer(handler)
	srv.EnableHTTP2 = true
	srv.StartTLS()
	t.Cleanup(srv.Close)
	return srv
}

func newTestFetcher(t *testing.T, srv *httptest.Server) *fetch.Fetcher {
	t.Helper()
	f, err := fetch.New(fetch.Options{Client: srv.Client()})
	require.NoError(t, err)
	return f
}

// TestPyPIFastPathSeedScenario implements spec.md §8 seed scenario 4: a
// Simple API page listing one PEP-658-metadata-bearing wheel, whose
// .metadata fetch returns a two-line METADATA body. Expect the parsed
// result to report flask 3.1.2 depending on click>=8, and for both
// "simple:flask" and "meta:flask" to be populated in the cache afterward.
func TestPyPIFastPathSeedScenario(t *testing.T) {
	const metadataText = "Name: flask\nVersion: 3.1.2\nRequires-Dist: click>=8\n\n"

	srv := newH2TestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/simple/flask/":
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, `<html><body>
				<a href="/files/flask-3.1.2-py3-none-any.whl" data-dist-info-metadata="true">flask-3.1.2-py3-none-any.whl</a>
			</body></html>`)
		case "/files/flask-3.1.2-py3-none-any.whl.metadata":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(metadataText))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	fetcher := newTestFetcher(t, srv)
	c := cache.New(cache.Options{MaxMemoryBytes: 1 << 20})
	client := New(fetcher, c, Options{SimpleAPIURL: srv.URL + "/simple"})

	md, err := client.GetMetadata(context.Background(), "flask", "3.1.2")
	require.NoError(t, err)
	assert.Equal(t, "flask", md.Name)
	assert.Equal(t, "3.1.2", md.Version.String())
	require.Len(t, md.Requires, 1)
	assert.Equal(t, "click", md.Requires[0].Name)

	_, simpleCached := c.Get("simple:flask")
	assert.True(t, simpleCached)
	_, metaCached := c.Get("meta:flask")
	assert.True(t, metaCached)
}

func TestGetSimplePageCachesBody(t *testing.T) {
	var hits int
	srv := newH2TestServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `<a href="/files/demo-1.0-py3-none-any.whl">demo-1.0-py3-none-any.whl</a>`)
	})

	fetcher := newTestFetcher(t, srv)
	c := cache.New(cache.Options{MaxMemoryBytes: 1 << 20})
	client := New(fetcher, c, Options{SimpleAPIURL: srv.URL})

	_, err := client.GetSimplePage(context.Background(), "demo")
	require.NoError(t, err)
	_, err = client.GetSimplePage(context.Background(), "demo")
	require.NoError(t, err)

	assert.Equal(t, 1, hits)
}

func TestGetSimplePageReturnsPackageNotFoundOn404(t *testing.T) {
	srv := newH2TestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	fetcher := newTestFetcher(t, srv)
	c := cache.New(cache.Options{MaxMemoryBytes: 1 << 20})
	client := New(fetcher, c, Options{SimpleAPIURL: srv.URL})

	_, err := client.GetSimplePage(context.Background(), "missing")
	require.Error(t, err)
	perr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, PackageNotFound, perr.Kind)
}
