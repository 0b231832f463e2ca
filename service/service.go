// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

/*
Package service exposes the codecs over HTTP.

	GET  /codecs                  names of the registered codecs
	POST /compress?codec=NAME     compress the request body; report sizes, ratio and code table
	POST /roundtrip?codec=NAME    compress and decompress the request body; report timings and verification

The codec defaults to huffman.  Compression results are cached by codec and body checksum, so repeating a
request does not rebuild the tree.  Errors are reported as {"error": "..."}, with status 400 for empty or
unusable input and 500 otherwise.
*/
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/op/go-logging"

	"github.com/textpack/huffpack/codec"
	"github.com/textpack/huffpack/digest"
	"github.com/textpack/huffpack/huffman"
	"github.com/textpack/huffpack/stats"
)

var log = logging.MustGetLogger("huffpack/service")

const (
	DefaultCacheSize = 64
	DefaultMaxBody   = 16 << 20
)

var ErrEmptyBody = errors.New("service: empty request body")

// Options configures a router.  Zero fields take the defaults.
type Options struct {
	CacheSize int
	MaxBody   int64
}

type cacheKey struct {
	codec string
	sum   uint64
	size  int
}

type entry struct {
	result *codec.Result
	stats  stats.Stats
	digest string
}

type server struct {
	opts  Options
	cache *lru.Cache[cacheKey, *entry]
}

// CodeEntry is one row of a code table in a response.
type CodeEntry struct {
	Symbol uint8  `json:"symbol"`
	Count  uint64 `json:"count"`
	Code   string `json:"code"`
}

// CompressResponse is the body returned by /compress.
type CompressResponse struct {
	Codec           string      `json:"codec"`
	OriginalBytes   int64       `json:"original_bytes"`
	CompressedBits  int64       `json:"compressed_bits"`
	CompressedBytes int64       `json:"compressed_bytes"`
	Ratio           float64     `json:"ratio"`
	SpaceSaving     float64     `json:"space_saving"`
	Digest          string      `json:"digest"`
	Codes           []CodeEntry `json:"codes,omitempty"`
	Cached          bool        `json:"cached"`
}

// RoundTripResponse is the body returned by /roundtrip.
type RoundTripResponse struct {
	Codec           string  `json:"codec"`
	OriginalBytes   int64   `json:"original_bytes"`
	CompressedBytes int64   `json:"compressed_bytes"`
	Ratio           float64 `json:"ratio"`
	EncodeMillis    float64 `json:"encode_ms"`
	DecodeMillis    float64 `json:"decode_ms"`
	Verified        bool    `json:"verified"`
}

// NewRouter builds the HTTP handler.
func NewRouter(opts Options) (*gin.Engine, error) {
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.MaxBody <= 0 {
		opts.MaxBody = DefaultMaxBody
	}

	cache, err := lru.New[cacheKey, *entry](opts.CacheSize)
	if err != nil {
		return nil, err
	}
	s := &server{opts: opts, cache: cache}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger)
	r.GET("/codecs", s.listCodecs)
	r.POST("/compress", s.compress)
	r.POST("/roundtrip", s.roundTrip)
	return r, nil
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func ListenAndServe(ctx context.Context, addr string, opts Options) error {
	handler, err := NewRouter(opts)
	if err != nil {
		return err
	}

	srv := &http.Server{Addr: addr, Handler: handler}
	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != http.ErrServerClosed {
		return err
	}
	return nil
}

func requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	log.Debugf("%s %s -> %d in %v", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
}

func fail(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func (s *server) listCodecs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"codecs": codec.Available()})
}

// input reads the request body and resolves the codec.  It writes the error response itself and returns ok
// false on failure.
func (s *server) input(c *gin.Context) (cd codec.Codec, body []byte, ok bool) {
	cd, err := codec.Lookup(c.DefaultQuery("codec", codec.HuffmanName))
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return nil, nil, false
	}

	body, err = io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.MaxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, err)
		} else {
			fail(c, http.StatusBadRequest, err)
		}
		return nil, nil, false
	}
	if len(body) == 0 {
		fail(c, http.StatusBadRequest, ErrEmptyBody)
		return nil, nil, false
	}
	return cd, body, true
}

func (s *server) lookupOrCompress(cd codec.Codec, body []byte) (*entry, bool, error) {
	key := cacheKey{cd.Name(), xxhash.Sum64(body), len(body)}
	if e, hit := s.cache.Get(key); hit {
		return e, true, nil
	}

	result, err := cd.Compress(body)
	if err != nil {
		return nil, false, err
	}
	st, err := stats.Compute(int64(len(body)), int64(result.Bits.BitLength))
	if err != nil {
		return nil, false, err
	}

	e := &entry{result: result, stats: st, digest: digest.Hex(body)}
	s.cache.Add(key, e)
	return e, false, nil
}

func codeEntries(result *codec.Result) []CodeEntry {
	if result.Codes == nil || result.Freqs == nil {
		return nil
	}
	entries := make([]CodeEntry, 0, result.Codes.Len())
	result.Codes.Each(func(s huffman.Symbol, code huffman.BitString) {
		count, _ := result.Freqs.Count(s)
		entries = append(entries, CodeEntry{s, count, code.Digits()})
	})
	return entries
}

func (s *server) compress(c *gin.Context) {
	cd, body, ok := s.input(c)
	if !ok {
		return
	}

	e, cached, err := s.lookupOrCompress(cd, body)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, CompressResponse{
		Codec:           cd.Name(),
		OriginalBytes:   e.stats.OriginalBytes,
		CompressedBits:  e.stats.CompressedBits,
		CompressedBytes: e.stats.CompressedBytes,
		Ratio:           e.stats.Ratio,
		SpaceSaving:     e.stats.SpaceSaving,
		Digest:          e.digest,
		Codes:           codeEntries(e.result),
		Cached:          cached,
	})
}

func (s *server) roundTrip(c *gin.Context) {
	cd, body, ok := s.input(c)
	if !ok {
		return
	}

	sw := stats.Start()
	result, err := cd.Compress(body)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	encodeTime := sw.Lap()

	out, err := cd.Decompress(result)
	if err != nil {
		fail(c, http.StatusInternalServerError, fmt.Errorf("decompressing own output: %w", err))
		return
	}
	decodeTime := sw.Lap()

	st, err := stats.Compute(int64(len(body)), int64(result.Bits.BitLength))
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}

	verified := digest.Equal(body, out)
	if !verified {
		log.Errorf("%s round trip mismatch on %d-byte input", cd.Name(), len(body))
	}
	c.JSON(http.StatusOK, RoundTripResponse{
		Codec:           cd.Name(),
		OriginalBytes:   st.OriginalBytes,
		CompressedBytes: st.CompressedBytes,
		Ratio:           st.Ratio,
		EncodeMillis:    stats.Millis(encodeTime),
		DecodeMillis:    stats.Millis(decodeTime),
		Verified:        verified,
	})
}
