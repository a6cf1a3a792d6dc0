package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

var (
	preflightMethods = strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodOptions}, ", ")
	preflightHeaders = strings.Join([]string{"Accept", "Content-Type", RequestIDHeader}, ", ")
)

// OriginPolicy decides which browser origins may read relay responses and
// which routes answer their own OPTIONS requests.
type OriginPolicy struct {
	// Origins allowed to read responses; "*" allows any.
	Origins []string
	// MethodStrict routes (gin full paths) get the allow-origin header but
	// never a preflight answer: OPTIONS falls through to the route handler.
	MethodStrict []string
	MaxAge       time.Duration
}

// DefaultOriginPolicy opens reads to any origin and leaves the upload
// route's method check to its handler, so OPTIONS /api/upload is a 405.
// A multipart POST is a simple request and never needs a preflight.
func DefaultOriginPolicy() OriginPolicy {
	return OriginPolicy{
		Origins:      []string{"*"},
		MethodStrict: []string{"/api/upload"},
		MaxAge:       time.Hour,
	}
}

func (p OriginPolicy) allowOrigin(origin string) (string, bool) {
	if lo.Contains(p.Origins, "*") {
		return "*", true
	}
	if origin != "" && lo.Contains(p.Origins, origin) {
		return origin, true
	}
	return "", false
}

// CrossOrigin applies the policy to every route
func CrossOrigin(p OriginPolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, ok := p.allowOrigin(c.GetHeader("Origin"))
		if ok {
			c.Header("Access-Control-Allow-Origin", allowed)
			c.Header("Access-Control-Expose-Headers", RequestIDHeader)
			if allowed != "*" {
				c.Header("Vary", "Origin")
			}
		}

		if c.Request.Method != http.MethodOptions || lo.Contains(p.MethodStrict, c.FullPath()) {
			c.Next()
			return
		}

		if ok {
			c.Header("Access-Control-Allow-Methods", preflightMethods)
			c.Header("Access-Control-Allow-Headers", preflightHeaders)
			if p.MaxAge > 0 {
				c.Header("Access-Control-Max-Age", strconv.Itoa(int(p.MaxAge.Seconds())))
			}
		}
		c.AbortWithStatus(http.StatusNoContent)
	}
}
