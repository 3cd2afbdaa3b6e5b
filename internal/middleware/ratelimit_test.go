package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestIPRateLimiterAllow(t *testing.T) {
	rl := NewIPRateLimiter(1, 3)

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d within burst denied", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("request beyond burst allowed")
	}

	// Other IPs have their own budget.
	if !rl.Allow("10.0.0.2") {
		t.Error("fresh IP denied")
	}
}

func TestIPRateLimiterMiddleware(t *testing.T) {
	rl := NewIPRateLimiter(1, 2)
	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
		r.RemoteAddr = "192.0.2.7:50000"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w
	}

	for i := 0; i < 2; i++ {
		if w := send(); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, w.Code)
		}
	}

	w := send()
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if !strings.Contains(w.Body.String(), "rate_limit_exceeded") {
		t.Errorf("body %q missing error code", w.Body.String())
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		realIP     string
		forwarded  string
		want       string
	}{
		{name: "remote addr only", remoteAddr: "203.0.113.5:1234", want: "203.0.113.5"},
		{name: "remote addr without port", remoteAddr: "203.0.113.5", want: "203.0.113.5"},
		{name: "x-real-ip wins", remoteAddr: "10.0.0.1:80", realIP: "198.51.100.9", want: "198.51.100.9"},
		{name: "forwarded first hop", remoteAddr: "10.0.0.1:80", forwarded: "198.51.100.9, 10.0.0.2", want: "198.51.100.9"},
		{name: "real ip beats forwarded", remoteAddr: "10.0.0.1:80", realIP: "198.51.100.1", forwarded: "198.51.100.2", want: "198.51.100.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLimiterCacheClearIfExceeds(t *testing.T) {
	lc := newLimiterCache[string](1, 1)
	for _, key := range []string{"a", "b", "c"} {
		lc.get(key)
	}

	if lc.clearIfExceeds(10) {
		t.Error("cleared below threshold")
	}
	if !lc.clearIfExceeds(2) {
		t.Error("not cleared above threshold")
	}
	if lc.clearIfExceeds(2) {
		t.Error("cleared again while empty")
	}
}
