// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package service_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/textpack/huffpack/digest"
	"github.com/textpack/huffpack/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T, opts service.Options) http.Handler {
	t.Helper()
	r, err := service.NewRouter(opts)
	require.NoError(t, err)
	return r
}

func do(h http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestCodecs(t *testing.T) {
	rec := do(newRouter(t, service.Options{}), http.MethodGet, "/codecs", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct{ Codecs []string }
	decode(t, rec, &resp)
	require.Equal(t, []string{"fixed", "huffman"}, resp.Codecs)
}

func TestCompress(t *testing.T) {
	h := newRouter(t, service.Options{})
	body := []byte("AAABBC")

	rec := do(h, http.MethodPost, "/compress", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp service.CompressResponse
	decode(t, rec, &resp)
	require.Equal(t, "huffman", resp.Codec)
	require.Equal(t, int64(6), resp.OriginalBytes)
	require.Equal(t, int64(9), resp.CompressedBits)
	require.Equal(t, int64(2), resp.CompressedBytes)
	require.InDelta(t, 2.0/6, resp.Ratio, 1e-9)
	require.Equal(t, digest.Hex(body), resp.Digest)
	require.Equal(t, []service.CodeEntry{
		{Symbol: 'A', Count: 3, Code: "0"},
		{Symbol: 'B', Count: 2, Code: "11"},
		{Symbol: 'C', Count: 1, Code: "10"},
	}, resp.Codes)
	require.False(t, resp.Cached)

	rec = do(h, http.MethodPost, "/compress", body)
	decode(t, rec, &resp)
	require.True(t, resp.Cached)
}

func TestCompressFixed(t *testing.T) {
	rec := do(newRouter(t, service.Options{}), http.MethodPost, "/compress?codec=fixed", []byte("hello"))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp service.CompressResponse
	decode(t, rec, &resp)
	require.Equal(t, "fixed", resp.Codec)
	require.Equal(t, int64(40), resp.CompressedBits)
	require.Equal(t, 1.0, resp.Ratio)
	require.Empty(t, resp.Codes)
}

func TestRoundTrip(t *testing.T) {
	h := newRouter(t, service.Options{})
	body := []byte(strings.Repeat("the quick brown fox ", 100))

	for _, name := range []string{"huffman", "fixed"} {
		rec := do(h, http.MethodPost, "/roundtrip?codec="+name, body)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp service.RoundTripResponse
		decode(t, rec, &resp)
		require.True(t, resp.Verified, name)
		require.Equal(t, int64(len(body)), resp.OriginalBytes)
	}
}

func TestErrors(t *testing.T) {
	h := newRouter(t, service.Options{MaxBody: 16})

	cases := []struct {
		target string
		body   []byte
		status int
	}{
		{"/compress", nil, http.StatusBadRequest},
		{"/compress?codec=lzw", []byte("abc"), http.StatusBadRequest},
		{"/roundtrip", nil, http.StatusBadRequest},
		{"/compress", bytes.Repeat([]byte("x"), 17), http.StatusRequestEntityTooLarge},
	}

	for _, c := range cases {
		rec := do(h, http.MethodPost, c.target, c.body)
		require.Equal(t, c.status, rec.Code, c.target)

		var resp struct{ Error string }
		decode(t, rec, &resp)
		require.NotEmpty(t, resp.Error, c.target)
	}
}
