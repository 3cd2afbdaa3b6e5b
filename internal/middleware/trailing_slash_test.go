package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStripTrailingSlash(t *testing.T) {
	handler := StripTrailingSlash(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name         string
		path         string
		wantStatus   int
		wantLocation string
	}{
		{name: "no trailing slash", path: "/api/certificates", wantStatus: http.StatusOK},
		{name: "trailing slash redirects", path: "/api/certificates/", wantStatus: http.StatusMovedPermanently, wantLocation: "/api/certificates"},
		{name: "query preserved", path: "/api/news/?lang=mk", wantStatus: http.StatusMovedPermanently, wantLocation: "/api/news?lang=mk"},
		{name: "root untouched", path: "/", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantLocation != "" {
				if got := w.Header().Get("Location"); got != tt.wantLocation {
					t.Errorf("Location = %q, want %q", got, tt.wantLocation)
				}
			}
		})
	}
}
