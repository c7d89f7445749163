package security

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func serve(t *testing.T, cfg HeadersConfig, r *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	h := NewHeadersMiddleware(cfg).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func TestHeaders_API(t *testing.T) {
	rec := serve(t, DefaultHeadersConfig(), httptest.NewRequest(http.MethodGet, "/api/summary", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"), "no HSTS over plain http")
}

func TestHeaders_HealthNotNoStore(t *testing.T) {
	rec := serve(t, DefaultHeadersConfig(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Empty(t, rec.Header().Get("Cache-Control"))
}

func TestHeaders_HSTSOverTLS(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	r.TLS = &tls.ConnectionState{}

	rec := serve(t, DefaultHeadersConfig(), r)
	assert.Equal(t, "max-age=31536000; includeSubDomains", rec.Header().Get("Strict-Transport-Security"))
}

func TestHeaders_EmptyValuesSkipped(t *testing.T) {
	rec := serve(t, HeadersConfig{}, httptest.NewRequest(http.MethodGet, "/api/x", nil))
	assert.Empty(t, rec.Header().Get("Content-Security-Policy"))
	assert.Empty(t, rec.Header().Get("X-Frame-Options"))
}
