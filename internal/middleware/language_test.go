package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/pipeplast/pipecms/internal/cache"
	"github.com/pipeplast/pipecms/internal/content"
	"github.com/pipeplast/pipecms/internal/store"
)

func languageCache(t *testing.T) *cache.LanguageCache {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "pipecms-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if err := store.Seed(context.Background(), db); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return cache.NewLanguageCache(store.New(db))
}

// langProbe records the language code seen by the inner handler.
func langProbe(got *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = string(GetLanguageCode(r))
		if info := GetLanguage(r); info == nil {
			*got = "no-context"
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestLanguageDetection(t *testing.T) {
	languages := languageCache(t)

	tests := []struct {
		name    string
		path    string
		cookie  string
		accept  string
		want    string
		setsNew bool // expect a new preference cookie
	}{
		{name: "default without hints", path: "/api/certificates", want: "en"},
		{name: "query parameter", path: "/api/certificates?lang=mk", want: "mk", setsNew: true},
		{name: "query parameter unknown code", path: "/api/certificates?lang=fr", want: "en"},
		{name: "cookie preference", path: "/api/news", cookie: "de", want: "de"},
		{name: "cookie with unknown code", path: "/api/news", cookie: "ru", want: "en"},
		{name: "accept language header", path: "/api/news", accept: "mk-MK,en;q=0.5", want: "mk"},
		{name: "accept language regional variant", path: "/api/news", accept: "de-AT", want: "de"},
		{name: "query beats cookie", path: "/api/news?lang=de", cookie: "mk", want: "de", setsNew: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			handler := Language(languages)(langProbe(&got))

			r := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: LanguageCookieName, Value: tt.cookie})
			}
			if tt.accept != "" {
				r.Header.Set("Accept-Language", tt.accept)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			if got != tt.want {
				t.Errorf("language = %q, want %q", got, tt.want)
			}

			hasCookie := false
			for _, c := range w.Result().Cookies() {
				if c.Name == LanguageCookieName {
					hasCookie = true
					if c.Value != tt.want {
						t.Errorf("cookie value = %q, want %q", c.Value, tt.want)
					}
				}
			}
			if hasCookie != tt.setsNew {
				t.Errorf("cookie set = %v, want %v", hasCookie, tt.setsNew)
			}
		})
	}
}

func TestLanguageURLParam(t *testing.T) {
	languages := languageCache(t)

	var got string
	r := chi.NewRouter()
	r.Route("/{lang}", func(r chi.Router) {
		r.Use(Language(languages))
		r.Get("/certificates", func(w http.ResponseWriter, req *http.Request) {
			got = string(GetLanguageCode(req))
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/mk/certificates", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got != "mk" {
		t.Errorf("language from URL param = %q, want mk", got)
	}
}

func TestGetLanguageCodeWithoutMiddleware(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetLanguageCode(r); got != content.DefaultLanguage {
		t.Errorf("GetLanguageCode = %q, want default", got)
	}
	if GetLanguage(r) != nil {
		t.Error("GetLanguage = non-nil without middleware")
	}
}
