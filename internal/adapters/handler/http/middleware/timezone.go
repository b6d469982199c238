package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/strideapp/stride-engine/internal/core/domain"
)

const (
	timezoneOffsetHeader = "X-Timezone-Offset"
	timezoneOffsetCookie = "tz_offset"
	ContextOffsetKey     = "offsetMinutes"
)

// TimezoneMiddleware resolves the caller's UTC offset in minutes
// (east-positive) from the header or, failing that, the cookie the web
// client sets. Unparseable or absent values fall back to UTC; out-of-range
// values clamp. The server never resolves timezones itself beyond this.
func TimezoneMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(timezoneOffsetHeader)
		if raw == "" {
			if cookie, err := c.Cookie(timezoneOffsetCookie); err == nil {
				raw = cookie
			}
		}

		offset := 0
		if raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil {
				offset = domain.ClampOffset(parsed)
			}
		}

		c.Set(ContextOffsetKey, offset)
		c.Next()
	}
}

func GetOffsetMinutes(c *gin.Context) int {
	if v, exists := c.Get(ContextOffsetKey); exists {
		if offset, ok := v.(int); ok {
			return offset
		}
	}
	return 0
}
