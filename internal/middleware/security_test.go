package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSecurityHeadersProduction(t *testing.T) {
	handler := SecurityHeaders(DefaultSecurityHeadersConfig(false))(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	r := httptest.NewRequest(http.MethodGet, "/api/news", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	h := w.Header()
	if got := h.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := h.Get("X-Frame-Options"); got != "SAMEORIGIN" {
		t.Errorf("X-Frame-Options = %q", got)
	}
	if got := h.Get("Referrer-Policy"); got != "strict-origin-when-cross-origin" {
		t.Errorf("Referrer-Policy = %q", got)
	}

	csp := h.Get("Content-Security-Policy")
	if !strings.HasPrefix(csp, "default-src 'self'") {
		t.Errorf("CSP should start with default-src: %q", csp)
	}
	if strings.Contains(csp, "unsafe-eval") {
		t.Errorf("production CSP allows eval: %q", csp)
	}

	hsts := h.Get("Strict-Transport-Security")
	if !strings.Contains(hsts, "max-age=31536000") {
		t.Errorf("HSTS = %q", hsts)
	}
	if !strings.Contains(hsts, "includeSubDomains") {
		t.Errorf("HSTS missing includeSubDomains: %q", hsts)
	}
}

func TestSecurityHeadersDevelopment(t *testing.T) {
	handler := SecurityHeaders(DefaultSecurityHeadersConfig(true))(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	r := httptest.NewRequest(http.MethodGet, "/api/news", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if got := w.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("HSTS set in development: %q", got)
	}
	csp := w.Header().Get("Content-Security-Policy")
	if !strings.Contains(csp, "unsafe-eval") {
		t.Errorf("dev CSP should allow eval for the Vite server: %q", csp)
	}
	if !strings.Contains(csp, "ws:") {
		t.Errorf("dev CSP should allow websockets: %q", csp)
	}
}

func TestSecurityHeadersCustomCSP(t *testing.T) {
	cfg := SecurityHeadersConfig{ContentSecurityPolicy: "default-src 'none'"}
	handler := SecurityHeaders(cfg)(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if got := w.Header().Get("Content-Security-Policy"); got != "default-src 'none'" {
		t.Errorf("CSP = %q", got)
	}
	if got := w.Header().Get("X-Frame-Options"); got != "" {
		t.Errorf("X-Frame-Options should be unset: %q", got)
	}
}
