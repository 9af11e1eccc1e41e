package extractor

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"resume-critic/internal/document"
)

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(srv.URL, WithHTTPClient(&http.Client{Timeout: 2 * time.Second}))
	require.NoError(t, err)
	return c
}

func TestNewClient_EmptyEndpoint(t *testing.T) {
	_, err := NewClient("  ")
	require.Error(t, err)
	require.Contains(t, err.Error(), "endpoint")
}

func TestExtractText_HappyPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/pdf", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.Equal(t, "%PDF-1.7 fake", string(body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Pages":[{"Texts":[{"R":[{"T":"Jane%20Doe"}]},{"R":[{"T":"Go"},{"T":"Engineer"}]}]}]}`))
	}))
	defer srv.Close()

	text, err := newTestClient(t, srv).ExtractText(context.Background(), []byte("%PDF-1.7 fake"))
	require.NoError(t, err)
	require.Equal(t, "Jane Doe Go Engineer", text)
}

func TestExtract_EmptyInputNeverHitsEngine(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).Extract(context.Background(), []byte("   "))
	require.True(t, document.IsExtractionError(err))
	require.False(t, called)
}

func TestExtract_ClientErrorIsExtractionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"encrypted pdf"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).Extract(context.Background(), []byte("data"))
	require.True(t, document.IsExtractionError(err))
	require.Contains(t, err.Error(), "422")
}

func TestExtract_ServerErrorIsNotExtractionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).Extract(context.Background(), []byte("data"))
	require.Error(t, err)
	require.False(t, document.IsExtractionError(err))
	var statusErr *HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusServiceUnavailable, statusErr.HTTPStatusCode())
}

func TestExtract_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not-json`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).Extract(context.Background(), []byte("data"))
	var extractionErr *document.ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	require.Equal(t, document.ReasonNoStructure, extractionErr.Reason)
}

func TestExtractText_NoPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Pages":[]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).ExtractText(context.Background(), []byte("data"))
	require.True(t, document.IsExtractionError(err))
}

func TestExtract_NetworkError(t *testing.T) {
	c, err := NewClient("http://127.0.0.1:1", WithHTTPClient(&http.Client{Timeout: 100 * time.Millisecond}))
	require.NoError(t, err)

	_, err = c.Extract(context.Background(), []byte("data"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "request failed")
	require.False(t, document.IsExtractionError(err))
}
