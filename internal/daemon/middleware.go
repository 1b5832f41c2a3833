package daemon

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/thand-io/components/internal/models"
)

// corsMiddleware picks gin-contrib/cors when every origin is exact and the
// pattern matching CORSMiddleware when any origin holds a wildcard. Nil means
// no origins are configured and CORS stays off.
func (s *Server) corsMiddleware() gin.HandlerFunc {

	corsConfig := s.Config.Server.Security.CORS.WithDefaults()

	if len(corsConfig.AllowedOrigins) == 0 {
		return nil
	}

	logrus.WithFields(logrus.Fields{
		"allowedOrigins": corsConfig.AllowedOrigins,
		"wildcards":      corsConfig.HasWildcardOrigins(),
	}).Debugln("CORS configuration")

	if corsConfig.HasWildcardOrigins() {
		return CORSMiddleware(corsConfig)
	}

	return cors.New(cors.Config{
		AllowOrigins:     corsConfig.AllowedOrigins,
		AllowMethods:     corsConfig.AllowedMethods,
		AllowHeaders:     corsConfig.AllowedHeaders,
		ExposeHeaders:    corsConfig.ExposeHeaders,
		AllowCredentials: corsConfig.AllowCredentials,
		MaxAge:           time.Duration(corsConfig.MaxAge) * time.Second,
	})
}

// CORSMiddleware answers CORS for origin patterns such as
// "https://*.example.com", which plain CORS cannot express.
func CORSMiddleware(cfg models.CORSConfig) gin.HandlerFunc {

	corsConfig := cfg.WithDefaults()

	if corsConfig.AllowCredentials && slices.Contains(corsConfig.AllowedOrigins, "*") {
		logrus.Warnln("CORS origin \"*\" never allows credentials, use explicit origins or patterns")
	}

	return func(c *gin.Context) {

		origin := c.GetHeader("Origin")

		allowed, anyOrigin := false, false
		for _, pattern := range corsConfig.AllowedOrigins {
			if matchOrigin(origin, pattern) {
				allowed, anyOrigin = true, pattern == "*"
				break
			}
		}

		if !allowed {
			if len(origin) > 0 {
				logrus.WithFields(logrus.Fields{
					"origin": origin,
				}).Debugln("CORS origin not allowed")
			}
			// Preflights from unknown origins are refused outright
			if c.Request.Method == http.MethodOptions {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.Next()
			return
		}

		// Browsers reject credentials with "*", and echoing the origin
		// instead would grant credentialed access to every site.
		if anyOrigin {
			c.Header("Access-Control-Allow-Origin", "*")
		} else {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")

			if corsConfig.AllowCredentials {
				c.Header("Access-Control-Allow-Credentials", "true")
			}
		}

		if len(corsConfig.ExposeHeaders) > 0 {
			c.Header("Access-Control-Expose-Headers", strings.Join(corsConfig.ExposeHeaders, ", "))
		}

		if c.Request.Method == http.MethodOptions {
			c.Header("Access-Control-Allow-Methods", strings.Join(corsConfig.AllowedMethods, ", "))
			c.Header("Access-Control-Allow-Headers", strings.Join(corsConfig.AllowedHeaders, ", "))
			if corsConfig.MaxAge > 0 {
				c.Header("Access-Control-Max-Age", strconv.Itoa(corsConfig.MaxAge))
			}
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// matchOrigin supports exact origins, "*" and "scheme://*.domain" patterns.
func matchOrigin(origin, pattern string) bool {
	switch {
	case len(origin) == 0:
		return false
	case origin == pattern, pattern == "*":
		return true
	case strings.Contains(pattern, "*"):
		return matchWildcardOrigin(origin, pattern)
	default:
		return false
	}
}

// matchWildcardOrigin matches one leading subdomain wildcard. The part after
// the "*" must start with a dot so "https://*example.com" can never match
// "https://evilexample.com". Nested subdomains are allowed.
func matchWildcardOrigin(origin, pattern string) bool {

	prefix, suffix, found := strings.Cut(pattern, "*")
	if !found || !strings.HasPrefix(suffix, ".") {
		return false
	}

	if !strings.HasPrefix(origin, prefix) || !strings.HasSuffix(origin, suffix) {
		return false
	}

	return len(origin) > len(prefix)+len(suffix)
}

// RequestLoggerMiddleware logs every request through logrus with its
// correlation id, at debug level for successes.
func RequestLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {

		started := time.Now()

		c.Next()

		status := c.Writer.Status()

		entry := LogWithCorrelation(c).WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  status,
			"latency": time.Since(started).String(),
			"ip":      c.ClientIP(),
		})

		switch {
		case status >= http.StatusInternalServerError:
			entry.Errorln("Request failed")
		case status >= http.StatusBadRequest:
			entry.Infoln("Request rejected")
		default:
			entry.Debugln("Request completed")
		}
	}
}
