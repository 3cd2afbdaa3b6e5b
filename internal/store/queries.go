// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrStaleUpdate is returned by Update* methods when the row exists but the
// caller's updated_at token no longer matches the stored one: another editor
// saved in between. The write is rejected instead of silently overwriting.
var ErrStaleUpdate = errors.New("store: stale update token")

// DBTX is the minimal database handle the query methods need; both *sql.DB
// and *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries bundles all typed database operations.
type Queries struct {
	db DBTX
}

// New creates a Queries instance bound to the given handle.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries instance bound to the transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// guardStale distinguishes a missing row from a stale token after an
// optimistic update matched zero rows.
func (q *Queries) guardStale(ctx context.Context, table string, id int64) error {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+" WHERE id = ?", id).Scan(&n)
	if err != nil {
		return fmt.Errorf("checking %s existence: %w", table, err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return ErrStaleUpdate
}

// ============================================================================
// Languages
// ============================================================================

const languageColumns = "id, code, name, native_name, is_default, is_active, direction, position, created_at, updated_at"

func scanLanguage(row interface{ Scan(...any) error }) (Language, error) {
	var l Language
	err := row.Scan(&l.ID, &l.Code, &l.Name, &l.NativeName, &l.IsDefault, &l.IsActive,
		&l.Direction, &l.Position, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

// ListLanguages returns all languages ordered by position.
func (q *Queries) ListLanguages(ctx context.Context) ([]Language, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+languageColumns+" FROM languages ORDER BY position, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Language
	for rows.Next() {
		l, err := scanLanguage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ListActiveLanguages returns active languages ordered by position.
func (q *Queries) ListActiveLanguages(ctx context.Context) ([]Language, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+languageColumns+" FROM languages WHERE is_active = 1 ORDER BY position, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Language
	for rows.Next() {
		l, err := scanLanguage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// GetDefaultLanguage returns the language flagged as default.
func (q *Queries) GetDefaultLanguage(ctx context.Context) (Language, error) {
	return scanLanguage(q.db.QueryRowContext(ctx,
		"SELECT "+languageColumns+" FROM languages WHERE is_default = 1 LIMIT 1"))
}

// GetLanguageByID returns a language by primary key.
func (q *Queries) GetLanguageByID(ctx context.Context, id int64) (Language, error) {
	return scanLanguage(q.db.QueryRowContext(ctx,
		"SELECT "+languageColumns+" FROM languages WHERE id = ?", id))
}

// GetLanguageByCode returns a language by its ISO code.
func (q *Queries) GetLanguageByCode(ctx context.Context, code string) (Language, error) {
	return scanLanguage(q.db.QueryRowContext(ctx,
		"SELECT "+languageColumns+" FROM languages WHERE code = ?", code))
}

// CreateLanguageParams holds the fields for CreateLanguage.
type CreateLanguageParams struct {
	Code       string
	Name       string
	NativeName string
	IsDefault  bool
	IsActive   bool
	Direction  string
	Position   int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CreateLanguage inserts a language and returns the stored row.
func (q *Queries) CreateLanguage(ctx context.Context, p CreateLanguageParams) (Language, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO languages (code, name, native_name, is_default, is_active, direction, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Code, p.Name, p.NativeName, p.IsDefault, p.IsActive, p.Direction, p.Position, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return Language{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Language{}, err
	}
	return q.GetLanguageByID(ctx, id)
}

// UpdateLanguageParams holds the fields for UpdateLanguage.
type UpdateLanguageParams struct {
	ID         int64
	Name       string
	NativeName string
	IsActive   bool
	Direction  string
	Position   int64
	UpdatedAt  time.Time
}

// UpdateLanguage updates mutable language fields.
func (q *Queries) UpdateLanguage(ctx context.Context, p UpdateLanguageParams) (Language, error) {
	_, err := q.db.ExecContext(ctx, `
		UPDATE languages SET name = ?, native_name = ?, is_active = ?, direction = ?, position = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, p.NativeName, p.IsActive, p.Direction, p.Position, p.UpdatedAt, p.ID)
	if err != nil {
		return Language{}, err
	}
	return q.GetLanguageByID(ctx, p.ID)
}

// SetDefaultLanguage flags one language as default and clears the rest.
func (q *Queries) SetDefaultLanguage(ctx context.Context, id int64) error {
	if _, err := q.db.ExecContext(ctx, "UPDATE languages SET is_default = 0 WHERE is_default = 1"); err != nil {
		return err
	}
	res, err := q.db.ExecContext(ctx, "UPDATE languages SET is_default = 1, is_active = 1 WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteLanguage removes a language. The default language cannot be deleted.
func (q *Queries) DeleteLanguage(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM languages WHERE id = ? AND is_default = 0", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ============================================================================
// Users
// ============================================================================

const userColumns = "id, email, password_hash, role, name, created_at, updated_at, last_login_at"

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Name,
		&u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt)
	return u, err
}

// GetUserByEmail returns a user by email.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ?", email))
}

// GetUserByID returns a user by primary key.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id))
}

// CreateUserParams holds the fields for CreateUser.
type CreateUserParams struct {
	Email        string
	PasswordHash string
	Role         string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUser inserts a user and returns the stored row.
func (q *Queries) CreateUser(ctx context.Context, p CreateUserParams) (User, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, role, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.Email, p.PasswordHash, p.Role, p.Name, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return User{}, err
	}
	return q.GetUserByID(ctx, id)
}

// UpdateUserPassword replaces a user's stored password hash. Used when
// a hash needs re-creation with current argon2id parameters.
func (q *Queries) UpdateUserPassword(ctx context.Context, id int64, passwordHash string, at time.Time) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?",
		passwordHash, at, id)
	return err
}

// TouchUserLogin records a successful login.
func (q *Queries) TouchUserLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := q.db.ExecContext(ctx, "UPDATE users SET last_login_at = ? WHERE id = ?", at, id)
	return err
}

// CountUsers returns the number of users.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}

// ============================================================================
// Events
// ============================================================================

// CreateEventParams holds the fields for CreateEvent.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	UserID    sql.NullInt64
	Metadata  string
	CreatedAt time.Time
}

// CreateEvent appends an event log entry.
func (q *Queries) CreateEvent(ctx context.Context, p CreateEventParams) (Event, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO events (level, category, message, user_id, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.Level, p.Category, p.Message, p.UserID, p.Metadata, p.CreatedAt)
	if err != nil {
		return Event{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID: id, Level: p.Level, Category: p.Category, Message: p.Message,
		UserID: p.UserID, Metadata: p.Metadata, CreatedAt: p.CreatedAt,
	}, nil
}

// ListEventsParams holds paging for ListEvents.
type ListEventsParams struct {
	Limit  int64
	Offset int64
}

// ListEvents returns events newest first.
func (q *Queries) ListEvents(ctx context.Context, p ListEventsParams) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, level, category, message, user_id, metadata, created_at
		FROM events ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		p.Limit, p.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.UserID, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountEvents returns the number of event log entries.
func (q *Queries) CountEvents(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&n)
	return n, err
}
