package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/pipeplast/pipecms/internal/model"
	"github.com/pipeplast/pipecms/internal/store"
)

func authTestDB(t *testing.T) *sql.DB {
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
	return db
}

func createTestUser(t *testing.T, db *sql.DB, role string) store.User {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	user, err := store.New(db).CreateUser(context.Background(), store.CreateUserParams{
		Email:        role + "@example.com",
		PasswordHash: "x",
		Role:         role,
		Name:         "Test " + role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

// loginAndGetCookie runs one request through the session manager that puts
// the user ID into the session, and returns the session cookie.
func loginAndGetCookie(t *testing.T, sm *scs.SessionManager, userID int64) *http.Cookie {
	t.Helper()

	handler := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sm.Put(r.Context(), SessionKeyUserID, userID)
	}))

	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	for _, c := range w.Result().Cookies() {
		if c.Name == sm.Cookie.Name {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestRequireAuth(t *testing.T) {
	sm := scs.New()

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := sm.LoadAndSave(RequireAuth(sm)(okHandler))

	t.Run("without session", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/admin/certificates", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if !strings.Contains(w.Body.String(), "unauthorized") {
			t.Errorf("body %q missing error code", w.Body.String())
		}
	})

	t.Run("with session", func(t *testing.T) {
		cookie := loginAndGetCookie(t, sm, 42)

		r := httptest.NewRequest(http.MethodGet, "/api/admin/certificates", nil)
		r.AddCookie(cookie)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})
}

func TestLoadUser(t *testing.T) {
	db := authTestDB(t)
	sm := scs.New()
	user := createTestUser(t, db, model.RoleEditor)

	var seen *store.User
	handler := sm.LoadAndSave(LoadUser(sm, db)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUser(r)
	})))

	t.Run("loads existing user", func(t *testing.T) {
		cookie := loginAndGetCookie(t, sm, user.ID)

		r := httptest.NewRequest(http.MethodGet, "/api/admin/news", nil)
		r.AddCookie(cookie)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if seen == nil {
			t.Fatal("user not loaded into context")
		}
		if seen.ID != user.ID || seen.Email != user.Email {
			t.Errorf("context user = %+v, want %+v", seen, user)
		}
	})

	t.Run("deleted user invalidates session", func(t *testing.T) {
		cookie := loginAndGetCookie(t, sm, user.ID+1000)

		seen = nil
		r := httptest.NewRequest(http.MethodGet, "/api/admin/news", nil)
		r.AddCookie(cookie)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
		if seen != nil {
			t.Error("handler ran for deleted user")
		}
	})

	t.Run("anonymous passes through", func(t *testing.T) {
		seen = nil
		r := httptest.NewRequest(http.MethodGet, "/api/admin/news", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
		if seen != nil {
			t.Error("anonymous request got a context user")
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	withUser := func(role string) *http.Request {
		r := httptest.NewRequest(http.MethodDelete, "/api/admin/users/1", nil)
		ctx := context.WithValue(r.Context(), ContextKeyUser, store.User{ID: 1, Role: role})
		return r.WithContext(ctx)
	}

	t.Run("admin allowed", func(t *testing.T) {
		w := httptest.NewRecorder()
		RequireAdmin(okHandler).ServeHTTP(w, withUser(model.RoleAdmin))
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("editor forbidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		RequireAdmin(okHandler).ServeHTTP(w, withUser(model.RoleEditor))
		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", w.Code)
		}
	})

	t.Run("no user unauthorized", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodDelete, "/api/admin/users/1", nil)
		RequireAdmin(okHandler).ServeHTTP(w, r)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})
}
