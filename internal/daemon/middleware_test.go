package daemon

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/thand-io/components/internal/models"
)

func testContext(authorization string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if len(authorization) > 0 {
		c.Request.Header.Set("Authorization", authorization)
	}
	return c, w
}

func TestMatchOrigin(t *testing.T) {
	tests := []struct {
		name     string
		origin   string
		pattern  string
		expected bool
	}{
		{name: "exact match", origin: "https://search.example.org", pattern: "https://search.example.org", expected: true},
		{name: "wildcard subdomain", origin: "https://staging.search.example.org", pattern: "https://*.search.example.org", expected: true},
		{name: "wildcard with hyphens and digits", origin: "https://pr-123.search.example.org", pattern: "https://*.search.example.org", expected: true},
		{name: "nested subdomain", origin: "https://a.b.search.example.org", pattern: "https://*.search.example.org", expected: true},
		{name: "wildcard with port", origin: "http://dev.search.example.org:5225", pattern: "http://*.search.example.org:5225", expected: true},
		{name: "allow all", origin: "https://anything.test", pattern: "*", expected: true},
		{name: "different domain", origin: "https://foo.evil.com", pattern: "https://*.search.example.org", expected: false},
		{name: "different tld", origin: "https://foo.search.example.com", pattern: "https://*.search.example.org", expected: false},
		{name: "missing subdomain", origin: "https://search.example.org", pattern: "https://*.search.example.org", expected: false},
		{name: "empty subdomain", origin: "https://.search.example.org", pattern: "https://*.search.example.org", expected: false},
		{name: "scheme mismatch", origin: "http://foo.search.example.org", pattern: "https://*.search.example.org", expected: false},
		{name: "suffix without dot", origin: "https://evilexample.org", pattern: "https://*example.org", expected: false},
		{name: "empty origin", origin: "", pattern: "*", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, matchOrigin(tt.origin, tt.pattern))
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		origin         string
		method         string
		allowedOrigins []string
		expectedOrigin string
		expectedCreds  string
		expectedStatus int
	}{
		{
			name:           "wildcard match",
			origin:         "https://staging.search.example.org",
			method:         http.MethodGet,
			allowedOrigins: []string{"https://*.search.example.org"},
			expectedOrigin: "https://staging.search.example.org",
			expectedCreds:  "true",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "second pattern matches",
			origin:         "https://foo.example.net",
			method:         http.MethodGet,
			allowedOrigins: []string{"https://*.search.example.org", "https://*.example.net"},
			expectedOrigin: "https://foo.example.net",
			expectedCreds:  "true",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "any origin never carries credentials",
			origin:         "https://evil.com",
			method:         http.MethodGet,
			allowedOrigins: []string{"*"},
			expectedOrigin: "*",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "pattern before any origin keeps credentials",
			origin:         "https://staging.search.example.org",
			method:         http.MethodGet,
			allowedOrigins: []string{"https://*.search.example.org", "*"},
			expectedOrigin: "https://staging.search.example.org",
			expectedCreds:  "true",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown origin passes without headers",
			origin:         "https://evil.com",
			method:         http.MethodGet,
			allowedOrigins: []string{"https://*.search.example.org"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "no origin header",
			method:         http.MethodGet,
			allowedOrigins: []string{"https://*.search.example.org"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "preflight allowed",
			origin:         "https://staging.search.example.org",
			method:         http.MethodOptions,
			allowedOrigins: []string{"https://*.search.example.org"},
			expectedOrigin: "https://staging.search.example.org",
			expectedCreds:  "true",
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "preflight refused",
			origin:         "https://evil.com",
			method:         http.MethodOptions,
			allowedOrigins: []string{"https://*.search.example.org"},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORSMiddleware(models.CORSConfig{
				AllowedOrigins:   tt.allowedOrigins,
				AllowCredentials: true,
			}))
			router.GET("/test", func(c *gin.Context) {
				c.String(http.StatusOK, "OK")
			})
			router.OPTIONS("/test", func(c *gin.Context) {
				c.String(http.StatusOK, "not reached for preflights")
			})

			req := httptest.NewRequest(tt.method, "/test", nil)
			if len(tt.origin) > 0 {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.method == http.MethodOptions {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedOrigin, w.Header().Get("Access-Control-Allow-Origin"))

			assert.Equal(t, tt.expectedCreds, w.Header().Get("Access-Control-Allow-Credentials"))

			if len(tt.expectedOrigin) > 0 {
				assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), CorrelationHeader)
			}
			if tt.expectedStatus == http.StatusNoContent {
				assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
				assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
			}
		})
	}
}

func TestServer_CORSSelection(t *testing.T) {
	backend := newFakeBackend(t)

	t.Run("exact origins use gin-contrib/cors", func(t *testing.T) {
		cfg := testConfig(backend.server.URL)
		cfg.Server.Security.CORS.AllowedOrigins = []string{"https://search.example.org"}
		server := newTestServer(t, cfg)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://search.example.org")
		w := httptest.NewRecorder()
		server.Router().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://search.example.org", w.Header().Get("Access-Control-Allow-Origin"))

		req = httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://evil.com")
		w = httptest.NewRecorder()
		server.Router().ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("wildcards use the pattern matcher", func(t *testing.T) {
		cfg := testConfig(backend.server.URL)
		cfg.Server.Security.CORS.AllowedOrigins = []string{"https://*.search.example.org"}
		server := newTestServer(t, cfg)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://pr-7.search.example.org")
		w := httptest.NewRecorder()
		server.Router().ServeHTTP(w, req)

		assert.Equal(t, "https://pr-7.search.example.org", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("no origins disable cors", func(t *testing.T) {
		cfg := testConfig(backend.server.URL)
		cfg.Server.Security.CORS.AllowedOrigins = nil
		server := newTestServer(t, cfg)

		assert.Nil(t, server.corsMiddleware())
	})
}

func TestRequestLoggerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CorrelationMiddleware(), RequestLoggerMiddleware())
	router.GET("/boom", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, w.Header().Get(CorrelationHeader))
}
