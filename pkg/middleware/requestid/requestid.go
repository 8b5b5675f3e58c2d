package requestid

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// Header carries the request id in and out. Devices that retry a sync
	// batch resend the same id, which lets log lines from both attempts be
	// correlated server-side.
	Header = "X-Request-ID"

	contextKey = "request_id"

	// maxClientIDLen guards against a device stuffing arbitrary payloads
	// into the header; anything longer is replaced.
	maxClientIDLen = 64
)

// Middleware adopts the device-supplied request id when present and sane,
// otherwise mints one, and echoes it on the response.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(Header)
		if id == "" || len(id) > maxClientIDLen {
			id = newID()
		}

		c.Set(contextKey, id)
		c.Writer.Header().Set(Header, id)

		c.Next()
	}
}

// Value returns the request id for the current request, or "" outside the
// middleware.
func Value(c *gin.Context) string {
	v, ok := c.Get(contextKey)
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}

func newID() string {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		// rand failing is effectively fatal elsewhere; a clock-based id
		// keeps the request serviceable.
		return "t" + strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return hex.EncodeToString(buf)
}
