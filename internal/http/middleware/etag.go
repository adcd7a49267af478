package middleware

import (
	"crypto/rand"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tanmayjain06/videotube/internal/redis"
)

const etagTTL = 24 * time.Hour

// ETag answers conditional GETs against a redis-backed tag. Writers invalidate
// by deleting the key, so the next read mints a fresh tag and a stale
// If-None-Match stops matching immediately. The middleware is a pass-through
// when redis is not configured or keyFor yields an empty key.
func ETag(keyFor func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redis.Rdb == nil {
			c.Next()
			return
		}
		key := keyFor(c)
		if key == "" {
			c.Next()
			return
		}

		tag, ok := redis.Get(c.Request.Context(), key)
		if !ok {
			tag = newTag()
			redis.Set(c.Request.Context(), key, tag, etagTTL)
		}

		c.Header("ETag", tag)
		if c.GetHeader("If-None-Match") == tag {
			c.AbortWithStatus(http.StatusNotModified)
			return
		}
		c.Next()
	}
}

func newTag() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf(`"%d"`, time.Now().UnixNano())
	}
	return fmt.Sprintf(`"%x"`, buf)
}
