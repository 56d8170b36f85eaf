package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestFetcher builds a Fetcher pointed at an httptest.Server with HTTP/2
// enabled, reusing the server's own *http.Client (which already trusts the
// server's self-signed certificate and negotiates h2 via ALPN).
func newTestFetcher(t *testing.T, srv *httptest.Server) *Fetcher {
	t.Helper()
	f, err := New(Options{Client: srv.Client()})
	require.NoError(t, err)
	return f
}

func newH2TestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewUnstartedServer(handler)
	srv.EnableHTTP2 = true
	srv.StartTLS()
	t.Cleanup(srv.Close)
	return srv
}

func TestGetReturnsStatusAndBodyForOK(t *testing.T) {
	srv := newH2TestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "metal0-pkg/1.0", r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("hello"))
	})

	f := newTestFetcher(t, srv)
	resp, err := f.Get(context.Background(), srv.URL+"/pkg")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, []byte("hello"), resp.Body)
}

func TestGetReturnsNon200WithoutError(t *testing.T) {
	srv := newH2TestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	f := newTestFetcher(t, srv)
	resp, err := f.Get(context.Background(), srv.URL+"/missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.Status)
}

func TestGetAllReturnsPositionallyAlignedResults(t *testing.T) {
	srv := newH2TestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(r.URL.Path))
	})

	f := newTestFetcher(t, srv)
	urls := []string{srv.URL + "/a", srv.URL + "/b", srv.URL + "/c"}
	results, err := f.GetAll(context.Background(), urls)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "/a", string(results[0].Body))
	assert.Equal(t, "/b", string(results[1].Body))
	assert.Equal(t, "/c", string(results[2].Body))
}

func TestGetAllOneNotFoundDoesNotAbortBatch(t *testing.T) {
	var calls int32
	srv := newH2TestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	f := newTestFetcher(t, srv)
	urls := []string{srv.URL + "/a", srv.URL + "/missing", srv.URL + "/c"}
	results, err := f.GetAll(context.Background(), urls)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, http.StatusOK, results[0].Status)
	assert.Equal(t, http.StatusNotFound, results[1].Status)
	assert.Equal(t, http.StatusOK, results[2].Status)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestGetAllRejectsBatchLargerThanMaxConcurrent(t *testing.T) {
	f, err := New(Options{MaxConcurrent: 2})
	require.NoError(t, err)

	_, err = f.GetAll(context.Background(), []string{"http://a", "http://b", "http://c"})
	assert.Error(t, err)
}

func TestGetSurfacesTransportErrorForUnreachableHost(t *testing.T) {
	f, err := New(Options{Timeout: 0})
	require.NoError(t, err)

	_, err = f.Get(context.Background(), "https://127.0.0.1:1/unreachable")
	assert.Error(t, err)
}
