package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/pipeplast/pipecms/internal/model"
	"github.com/pipeplast/pipecms/internal/store"
)

func testDB(t *testing.T) (*store.Queries, *slog.Logger) {
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

	logger := slog.New(NewEventLogHandler(slog.NewTextHandler(io.Discard, nil), db))
	return store.New(db), logger
}

func TestEventLogHandlerPersistsWarnings(t *testing.T) {
	queries, logger := testDB(t)
	ctx := context.Background()

	logger.Info("routine startup message")
	logger.Warn("mail delivery failed", "recipient", "sales@example.com")
	logger.Error("login failed", "email", "admin@example.com")

	events, err := queries.ListEvents(ctx, store.ListEventsParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2 (info must not be persisted)", len(events))
	}

	byMessage := map[string]store.Event{}
	for _, e := range events {
		byMessage[e.Message] = e
	}

	warn, ok := byMessage["mail delivery failed"]
	if !ok {
		t.Fatal("warning event missing")
	}
	if warn.Level != model.EventLevelWarning {
		t.Errorf("warn level = %q, want warning", warn.Level)
	}
	if warn.Category != model.EventCategoryMail {
		t.Errorf("warn category = %q, want mail", warn.Category)
	}
	if warn.Metadata != `{"recipient":"sales@example.com"}` {
		t.Errorf("warn metadata = %q", warn.Metadata)
	}

	errEvent, ok := byMessage["login failed"]
	if !ok {
		t.Fatal("error event missing")
	}
	if errEvent.Level != model.EventLevelError {
		t.Errorf("error level = %q, want error", errEvent.Level)
	}
	if errEvent.Category != model.EventCategoryAuth {
		t.Errorf("error category = %q, want auth", errEvent.Category)
	}
}

func TestEventLogHandlerExplicitCategory(t *testing.T) {
	queries, logger := testDB(t)
	ctx := context.Background()

	logger.Warn("slow query detected", "category", model.EventCategorySystem, "ms", "1500")

	events, err := queries.ListEvents(ctx, store.ListEventsParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Category != model.EventCategorySystem {
		t.Errorf("category = %q, want system", events[0].Category)
	}
	// The category attribute is lifted out of the metadata.
	if events[0].Metadata != `{"ms":"1500"}` {
		t.Errorf("metadata = %q", events[0].Metadata)
	}
}
