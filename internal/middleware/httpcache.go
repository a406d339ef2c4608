package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	APICachePrefix        = "zivana-api-cache:"
	defaultHTTPCacheTTL   = 15 * time.Second
	defaultHTTPCacheBytes = 1 << 20
)

// HTTPCacheOptions tunes HTTPCache.
type HTTPCacheOptions struct {
	TTL          time.Duration
	MaxBodyBytes int
	// SkipPrefixes are path prefixes that are never cached.
	SkipPrefixes []string
}

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// captureWriter tees the response body up to limit bytes.
type captureWriter struct {
	gin.ResponseWriter
	body     []byte
	limit    int
	overflow bool
}

func (w *captureWriter) Write(data []byte) (int, error) {
	w.capture(data)
	return w.ResponseWriter.Write(data)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.capture([]byte(s))
	return w.ResponseWriter.WriteString(s)
}

func (w *captureWriter) capture(data []byte) {
	if w.overflow {
		return
	}
	if len(w.body)+len(data) > w.limit {
		w.overflow = true
		w.body = nil
		return
	}
	w.body = append(w.body, data...)
}

// HTTPCache serves anonymous GET responses from Redis for opts.TTL.
// Admin requests bypass it and are marked private.
func HTTPCache(rdb *redis.Client, opts HTTPCacheOptions) gin.HandlerFunc {
	if opts.TTL <= 0 {
		opts.TTL = defaultHTTPCacheTTL
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultHTTPCacheBytes
	}
	maxAge := fmt.Sprintf("public, max-age=%d", int(opts.TTL/time.Second))

	return func(c *gin.Context) {
		if rdb == nil || c.Request.Method != http.MethodGet || skipCache(c.Request.URL.Path, opts.SkipPrefixes) {
			c.Next()
			return
		}
		if IsAuthenticated(c) {
			c.Header("Cache-Control", "private, no-store")
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := APICachePrefix + c.Request.URL.RequestURI()
		if cached, ok := readCached(ctx, rdb, key); ok {
			c.Header("X-Zivana-Cache", "hit")
			c.Header("Cache-Control", maxAge)
			c.Data(cached.Status, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		w := &captureWriter{ResponseWriter: c.Writer, limit: opts.MaxBodyBytes}
		c.Writer = w
		c.Next()

		if w.Status() != http.StatusOK || w.overflow || len(w.body) == 0 {
			return
		}
		raw, err := json.Marshal(cachedResponse{
			Status:      http.StatusOK,
			ContentType: w.Header().Get("Content-Type"),
			Body:        w.body,
		})
		if err != nil {
			return
		}
		_ = rdb.Set(ctx, key, raw, opts.TTL).Err()
	}
}

// PurgeHTTPCache deletes every cached response, returning how many went.
func PurgeHTTPCache(ctx context.Context, rdb *redis.Client) (int64, error) {
	if rdb == nil {
		return 0, nil
	}
	var (
		cursor  uint64
		deleted int64
	)
	for {
		keys, next, err := rdb.Scan(ctx, cursor, APICachePrefix+"*", 200).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			n, err := rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, err
			}
			deleted += n
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

// PurgeOnWrite clears the response cache after every successful admin write
// so public pages pick up edits immediately.
func PurgeOnWrite(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if c.Request.Method == http.MethodGet || c.Writer.Status() >= 400 {
			return
		}
		_, _ = PurgeHTTPCache(context.WithoutCancel(c.Request.Context()), rdb)
	}
}

func readCached(ctx context.Context, rdb *redis.Client, key string) (cachedResponse, bool) {
	raw, err := rdb.Get(ctx, key).Bytes()
	if err != nil || len(raw) == 0 {
		return cachedResponse{}, false
	}
	var cached cachedResponse
	if err := json.Unmarshal(raw, &cached); err != nil || cached.Status == 0 {
		return cachedResponse{}, false
	}
	if cached.ContentType == "" {
		cached.ContentType = "application/json; charset=utf-8"
	}
	return cached, true
}

func skipCache(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
