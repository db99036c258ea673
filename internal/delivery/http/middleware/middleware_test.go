package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	g := gin.New()
	g.Use(RequestID())
	var seen string
	g.GET("/", func(c *gin.Context) {
		seen = c.GetString(response.RequestIDKey)
		c.Status(http.StatusOK)
	})

	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Len(t, seen, 36)
	assert.Equal(t, seen, rw.Header().Get(RequestIDHeader))
}

func TestRequestID_ReusesWellFormedHeader(t *testing.T) {
	g := gin.New()
	g.Use(RequestID())
	g.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "edge-abc.123")
	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, req)
	assert.Equal(t, "edge-abc.123", rw.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "bad id\r\nx")
	rw = httptest.NewRecorder()
	g.ServeHTTP(rw, req)
	assert.NotEqual(t, "bad id\r\nx", rw.Header().Get(RequestIDHeader))
	assert.Len(t, rw.Header().Get(RequestIDHeader), 36)
}

func TestErrorHandler_AppErrorKeepsDetailsHidesCause(t *testing.T) {
	g := gin.New()
	g.Use(RequestID(), ErrorHandler())
	g.GET("/", func(c *gin.Context) {
		_ = c.Error(apperror.BadGateway("Failed to send message.", errors.New("535 bad credentials for smtp user")))
	})
	g.GET("/fields", func(c *gin.Context) {
		_ = c.Error(apperror.BadRequest("Please correct the highlighted fields.").
			WithDetails(map[string]string{"name": "Name must be at least 2 characters."}))
	})

	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusBadGateway, rw.Code)
	assert.NotContains(t, rw.Body.String(), "535")

	var body response.Response
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Failed to send message.", body.Message)
	assert.NotEmpty(t, body.RequestID)

	rw = httptest.NewRecorder()
	g.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/fields", nil))
	assert.Equal(t, http.StatusBadRequest, rw.Code)
	assert.Contains(t, rw.Body.String(), "Name must be at least 2 characters.")
}

func TestErrorHandler_PlainErrorIsGeneric500(t *testing.T) {
	g := gin.New()
	g.Use(ErrorHandler())
	g.GET("/", func(c *gin.Context) { _ = c.Error(errors.New("pq: relation does not exist")) })

	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rw.Code)
	assert.NotContains(t, rw.Body.String(), "relation")
}

func TestCORS(t *testing.T) {
	newEngine := func(prod bool) *gin.Engine {
		g := gin.New()
		g.Use(CORSMiddleware([]string{"https://example.dev/"}, prod))
		g.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })
		return g
	}

	tests := []struct {
		name       string
		prod       bool
		method     string
		origin     string
		wantStatus int
		wantAllow  string
	}{
		{"configured origin preflight", true, http.MethodOptions, "https://example.dev", http.StatusNoContent, "https://example.dev"},
		{"unknown origin preflight", true, http.MethodOptions, "https://evil.example", http.StatusForbidden, ""},
		{"localhost in dev", false, http.MethodOptions, "http://localhost:3000", http.StatusNoContent, "http://localhost:3000"},
		{"localhost in production", true, http.MethodOptions, "http://localhost:3000", http.StatusForbidden, ""},
		{"same origin post", true, http.MethodPost, "", http.StatusOK, ""},
		{"unknown origin post gets no headers", true, http.MethodPost, "https://evil.example", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rw := httptest.NewRecorder()
			newEngine(tt.prod).ServeHTTP(rw, req)
			assert.Equal(t, tt.wantStatus, rw.Code)
			assert.Equal(t, tt.wantAllow, rw.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	g := gin.New()
	g.Use(SecurityHeadersMiddleware())
	g.GET("/v1/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	g.GET("/v1/swagger/*any", func(c *gin.Context) { c.Status(http.StatusOK) })

	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/v1/health", nil))
	assert.Equal(t, "nosniff", rw.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, apiCSP, rw.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "no-store", rw.Header().Get("Cache-Control"))

	rw = httptest.NewRecorder()
	g.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/v1/swagger/index.html", nil))
	assert.Contains(t, rw.Header().Get("Content-Security-Policy"), "script-src 'self'")
}
