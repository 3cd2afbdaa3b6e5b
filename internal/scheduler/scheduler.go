// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pipeplast/pipecms/internal/store"
)

// Scheduler handles scheduled tasks like publishing news articles.
type Scheduler struct {
	db     *sql.DB
	cron   *cron.Cron
	logger *slog.Logger

	// onPublish is called after at least one article was published, so
	// cached public listings can be invalidated.
	onPublish func()
}

// New creates a new scheduler instance.
func New(db *sql.DB, logger *slog.Logger, onPublish func()) *Scheduler {
	return &Scheduler{
		db:        db,
		cron:      cron.New(),
		logger:    logger,
		onPublish: onPublish,
	}
}

// Start begins the scheduler with a job to check for due articles every
// minute.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("* * * * *", func() {
		if err := s.ProcessDueNews(); err != nil {
			s.logger.Error("failed to process due news", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// ProcessDueNews publishes news articles whose publish time has passed.
func (s *Scheduler) ProcessDueNews() error {
	ctx := context.Background()
	queries := store.New(s.db)

	now := time.Now().UTC().Truncate(time.Second)
	due, err := queries.ListDueNews(ctx, now)
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}

	s.logger.Info("processing due news articles", "count", len(due))

	published := 0
	for _, article := range due {
		if err := s.publishArticle(ctx, queries, article, now); err != nil {
			s.logger.Error("failed to publish due article",
				"news_id", article.ID,
				"news_title", article.Title,
				"error", err,
			)
			continue
		}
		published++

		s.logger.Info("published scheduled article",
			"news_id", article.ID,
			"news_title", article.Title,
			"publish_at", article.PublishAt.Time,
		)
	}

	if published > 0 && s.onPublish != nil {
		s.onPublish()
	}
	return nil
}

// publishArticle publishes a single due article and logs the event.
func (s *Scheduler) publishArticle(ctx context.Context, queries *store.Queries, article store.NewsArticle, now time.Time) error {
	if err := queries.PublishNews(ctx, article.ID, now); err != nil {
		return err
	}

	metadata := map[string]interface{}{
		"news_id":      article.ID,
		"news_title":   article.Title,
		"news_slug":    article.Slug,
		"publish_at":   article.PublishAt.Time.Format(time.RFC3339),
		"published_at": now.Format(time.RFC3339),
	}
	metadataJSON, _ := json.Marshal(metadata)

	_, err := queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     "info",
		Category:  "content",
		Message:   "News article published automatically by scheduler: " + article.Title,
		UserID:    sql.NullInt64{}, // system action, no user
		Metadata:  string(metadataJSON),
		CreatedAt: now,
	})
	if err != nil {
		s.logger.Warn("failed to log scheduled publish event", "error", err)
	}
	return nil
}
