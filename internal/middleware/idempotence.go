package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	IdempotenceHeader = "X-Idempotence-Key"
	idempotenceTTL    = 60 * time.Second
	idempotencePrefix = "zivana:idempotence:"
)

// Idempotence rejects a POST or PUT identical to one that is in flight or
// succeeded within the last minute. Requests to skipPaths are exempt.
func Idempotence(rdb *redis.Client, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[strings.TrimRight(p, "/")] = struct{}{}
	}
	return func(c *gin.Context) {
		if rdb == nil || (c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut) {
			c.Next()
			return
		}
		if _, ok := skip[strings.TrimRight(c.Request.URL.Path, "/")]; ok {
			c.Next()
			return
		}

		key, err := idempotenceKey(c)
		if err != nil || key == "" {
			c.Next()
			return
		}

		redisKey := idempotencePrefix + key
		ctx := c.Request.Context()

		val, err := rdb.Get(ctx, redisKey).Result()
		if err == nil {
			msg := "Permintaan yang sama sudah berhasil, tunggu 60 detik"
			if val == "0" {
				msg = "Permintaan yang sama sedang diproses"
			}
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"ok": 0, "code": http.StatusConflict, "message": msg})
			return
		}
		if !errors.Is(err, redis.Nil) {
			c.Next()
			return
		}
		if err := rdb.Set(ctx, redisKey, "0", idempotenceTTL).Err(); err != nil {
			c.Next()
			return
		}

		c.Next()

		if status := c.Writer.Status(); status >= 200 && status < 300 {
			rdb.Set(ctx, redisKey, "1", redis.KeepTTL)
		} else {
			rdb.Del(ctx, redisKey)
		}
	}
}

// idempotenceKey prefers the explicit header and otherwise hashes the
// request line, body and caller identity.
func idempotenceKey(c *gin.Context) (string, error) {
	if hdr := strings.TrimSpace(c.GetHeader(IdempotenceHeader)); hdr != "" {
		return hdr, nil
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", err
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	raw := strings.Join([]string{
		c.Request.Method,
		c.Request.URL.String(),
		string(body),
		c.Request.UserAgent(),
		c.ClientIP(),
		ExtractToken(c),
	}, "|")
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:]), nil
}
