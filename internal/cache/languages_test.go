package cache

import (
	"context"
	"os"
	"testing"

	"github.com/pipeplast/pipecms/internal/store"
)

func languageTestDB(t *testing.T) *store.Queries {
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
	return store.New(db)
}

func TestLanguageCache(t *testing.T) {
	queries := languageTestDB(t)
	c := NewLanguageCache(queries)
	ctx := context.Background()

	active, err := c.GetActive(ctx)
	if err != nil {
		t.Fatalf("GetActive: %v", err)
	}
	if len(active) != 3 {
		t.Fatalf("got %d active languages, want 3", len(active))
	}

	def, err := c.GetDefault(ctx)
	if err != nil {
		t.Fatalf("GetDefault: %v", err)
	}
	if def == nil || def.Code != "en" {
		t.Fatalf("default = %+v, want en", def)
	}

	mk, err := c.GetByCode(ctx, "mk")
	if err != nil {
		t.Fatalf("GetByCode: %v", err)
	}
	if mk == nil || mk.NativeName != "Македонски" {
		t.Errorf("mk = %+v, want native name Македонски", mk)
	}

	unknown, err := c.GetByCode(ctx, "fr")
	if err != nil {
		t.Fatalf("GetByCode(fr): %v", err)
	}
	if unknown != nil {
		t.Errorf("GetByCode(fr) = %+v, want nil", unknown)
	}

	ok, err := c.IsActive(ctx, "de")
	if err != nil || !ok {
		t.Errorf("IsActive(de) = %v, %v, want true", ok, err)
	}
}

func TestLanguageCacheInvalidate(t *testing.T) {
	queries := languageTestDB(t)
	c := NewLanguageCache(queries)
	ctx := context.Background()

	if _, err := c.GetActive(ctx); err != nil {
		t.Fatalf("GetActive: %v", err)
	}

	// Deactivate a language behind the cache's back; the stale value is
	// served until Invalidate.
	de, err := queries.GetLanguageByCode(ctx, "de")
	if err != nil {
		t.Fatalf("GetLanguageByCode: %v", err)
	}
	if _, err := queries.UpdateLanguage(ctx, store.UpdateLanguageParams{
		ID: de.ID, Name: de.Name, NativeName: de.NativeName,
		IsActive: false, Direction: de.Direction, Position: de.Position,
		UpdatedAt: de.UpdatedAt,
	}); err != nil {
		t.Fatalf("UpdateLanguage: %v", err)
	}

	ok, err := c.IsActive(ctx, "de")
	if err != nil || !ok {
		t.Fatalf("IsActive before invalidate = %v, %v, want stale true", ok, err)
	}

	c.Invalidate()
	ok, err = c.IsActive(ctx, "de")
	if err != nil {
		t.Fatalf("IsActive: %v", err)
	}
	if ok {
		t.Error("de still active after invalidate")
	}
}
