package scheduler

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/pipeplast/pipecms/internal/content"
	"github.com/pipeplast/pipecms/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func schedulerTestDB(t *testing.T) *sql.DB {
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

func createArticle(t *testing.T, queries *store.Queries, slug string, publishAt sql.NullTime) store.NewsArticle {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	article, err := queries.CreateNews(context.Background(), store.CreateNewsParams{
		Slug:            slug,
		Title:           "Article " + slug,
		Body:            "Body",
		Translations:    content.TranslationMap{},
		DefaultLanguage: string(content.DefaultLanguage),
		PublishAt:       publishAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		t.Fatalf("CreateNews: %v", err)
	}
	return article
}

func TestNew(t *testing.T) {
	s := New(nil, testLogger(), nil)
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.cron == nil {
		t.Error("New() scheduler has nil cron")
	}
}

func TestSchedulerStartStop(t *testing.T) {
	s := New(schedulerTestDB(t), testLogger(), nil)

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	s.Stop()
}

func TestProcessDueNews(t *testing.T) {
	db := schedulerTestDB(t)
	queries := store.New(db)
	ctx := context.Background()

	past := sql.NullTime{Time: time.Now().UTC().Add(-time.Hour).Truncate(time.Second), Valid: true}
	future := sql.NullTime{Time: time.Now().UTC().Add(time.Hour).Truncate(time.Second), Valid: true}

	overdue := createArticle(t, queries, "factory-expansion", past)
	pending := createArticle(t, queries, "new-certification", future)
	draft := createArticle(t, queries, "draft-note", sql.NullTime{})

	invalidated := 0
	s := New(db, testLogger(), func() { invalidated++ })

	if err := s.ProcessDueNews(); err != nil {
		t.Fatalf("ProcessDueNews: %v", err)
	}

	got, err := queries.GetNewsByID(ctx, overdue.ID)
	if err != nil {
		t.Fatalf("GetNewsByID: %v", err)
	}
	if !got.IsPublished {
		t.Error("overdue article not published")
	}
	if !got.PublishedAt.Valid {
		t.Error("published article has no published_at")
	}

	for _, article := range []store.NewsArticle{pending, draft} {
		got, err := queries.GetNewsByID(ctx, article.ID)
		if err != nil {
			t.Fatalf("GetNewsByID: %v", err)
		}
		if got.IsPublished {
			t.Errorf("article %q published early", got.Slug)
		}
	}

	if invalidated != 1 {
		t.Errorf("onPublish called %d times, want 1", invalidated)
	}

	// An event is logged for the publish.
	events, err := queries.ListEvents(ctx, store.ListEventsParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	found := false
	for _, e := range events {
		if e.Category == "content" && e.Level == "info" {
			found = true
		}
	}
	if !found {
		t.Error("no content event logged for scheduled publish")
	}

	// A second run finds nothing due and does not invalidate again.
	if err := s.ProcessDueNews(); err != nil {
		t.Fatalf("ProcessDueNews second run: %v", err)
	}
	if invalidated != 1 {
		t.Errorf("onPublish called %d times after second run, want 1", invalidated)
	}
}
