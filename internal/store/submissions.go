// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

// ============================================================================
// Contact messages
// ============================================================================

const contactColumns = "id, reference, name, email, phone, subject, message, is_read, created_at"

func scanContactMessage(row interface{ Scan(...any) error }) (ContactMessage, error) {
	var m ContactMessage
	err := row.Scan(&m.ID, &m.Reference, &m.Name, &m.Email, &m.Phone, &m.Subject,
		&m.Message, &m.IsRead, &m.CreatedAt)
	return m, err
}

// CreateContactMessageParams holds the fields for CreateContactMessage.
type CreateContactMessageParams struct {
	Reference string
	Name      string
	Email     string
	Phone     string
	Subject   string
	Message   string
	CreatedAt time.Time
}

// CreateContactMessage stores a public contact form submission.
func (q *Queries) CreateContactMessage(ctx context.Context, p CreateContactMessageParams) (ContactMessage, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO contact_messages (reference, name, email, phone, subject, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Reference, p.Name, p.Email, p.Phone, p.Subject, p.Message, p.CreatedAt)
	if err != nil {
		return ContactMessage{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return ContactMessage{}, err
	}
	return q.GetContactMessageByID(ctx, id)
}

// GetContactMessageByID returns a contact message by primary key.
func (q *Queries) GetContactMessageByID(ctx context.Context, id int64) (ContactMessage, error) {
	return scanContactMessage(q.db.QueryRowContext(ctx,
		"SELECT "+contactColumns+" FROM contact_messages WHERE id = ?", id))
}

// ListContactMessagesParams holds paging for ListContactMessages.
type ListContactMessagesParams struct {
	Limit  int64
	Offset int64
}

// ListContactMessages returns contact messages newest first.
func (q *Queries) ListContactMessages(ctx context.Context, p ListContactMessagesParams) ([]ContactMessage, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+contactColumns+" FROM contact_messages ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		p.Limit, p.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ContactMessage
	for rows.Next() {
		m, err := scanContactMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CountContactMessages returns the number of contact messages.
func (q *Queries) CountContactMessages(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM contact_messages").Scan(&n)
	return n, err
}

// CountUnreadContactMessages returns the number of unread contact messages.
func (q *Queries) CountUnreadContactMessages(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM contact_messages WHERE is_read = 0").Scan(&n)
	return n, err
}

// MarkContactMessageRead flags a contact message as read.
func (q *Queries) MarkContactMessageRead(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, "UPDATE contact_messages SET is_read = 1 WHERE id = ?", id)
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

// DeleteContactMessage removes a contact message.
func (q *Queries) DeleteContactMessage(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM contact_messages WHERE id = ?", id)
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
// Job applications
// ============================================================================

const jobColumns = "id, reference, name, email, phone, position, message, cv_url, is_read, created_at"

func scanJobApplication(row interface{ Scan(...any) error }) (JobApplication, error) {
	var a JobApplication
	err := row.Scan(&a.ID, &a.Reference, &a.Name, &a.Email, &a.Phone, &a.Position,
		&a.Message, &a.CVURL, &a.IsRead, &a.CreatedAt)
	return a, err
}

// CreateJobApplicationParams holds the fields for CreateJobApplication.
type CreateJobApplicationParams struct {
	Reference string
	Name      string
	Email     string
	Phone     string
	Position  string
	Message   string
	CVURL     string
	CreatedAt time.Time
}

// CreateJobApplication stores a public job application submission.
func (q *Queries) CreateJobApplication(ctx context.Context, p CreateJobApplicationParams) (JobApplication, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO job_applications (reference, name, email, phone, position, message, cv_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Reference, p.Name, p.Email, p.Phone, p.Position, p.Message, p.CVURL, p.CreatedAt)
	if err != nil {
		return JobApplication{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return JobApplication{}, err
	}
	return q.GetJobApplicationByID(ctx, id)
}

// GetJobApplicationByID returns a job application by primary key.
func (q *Queries) GetJobApplicationByID(ctx context.Context, id int64) (JobApplication, error) {
	return scanJobApplication(q.db.QueryRowContext(ctx,
		"SELECT "+jobColumns+" FROM job_applications WHERE id = ?", id))
}

// ListJobApplicationsParams holds paging for ListJobApplications.
type ListJobApplicationsParams struct {
	Limit  int64
	Offset int64
}

// ListJobApplications returns job applications newest first.
func (q *Queries) ListJobApplications(ctx context.Context, p ListJobApplicationsParams) ([]JobApplication, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+jobColumns+" FROM job_applications ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		p.Limit, p.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []JobApplication
	for rows.Next() {
		a, err := scanJobApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CountJobApplications returns the number of job applications.
func (q *Queries) CountJobApplications(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM job_applications").Scan(&n)
	return n, err
}

// CountUnreadJobApplications returns the number of unread job applications.
func (q *Queries) CountUnreadJobApplications(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM job_applications WHERE is_read = 0").Scan(&n)
	return n, err
}

// MarkJobApplicationRead flags a job application as read.
func (q *Queries) MarkJobApplicationRead(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, "UPDATE job_applications SET is_read = 1 WHERE id = ?", id)
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

// DeleteJobApplication removes a job application.
func (q *Queries) DeleteJobApplication(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM job_applications WHERE id = ?", id)
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
// Email settings
// ============================================================================

// GetEmailSettings returns the single email settings row, creating the
// default row on first access.
func (q *Queries) GetEmailSettings(ctx context.Context) (EmailSettings, error) {
	var s EmailSettings
	err := q.db.QueryRowContext(ctx, `
		SELECT id, provider, api_key, sender_email, sender_name, notify_to, updated_at
		FROM email_settings WHERE id = 1`).
		Scan(&s.ID, &s.Provider, &s.APIKey, &s.SenderEmail, &s.SenderName, &s.NotifyTo, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		now := time.Now().UTC()
		if _, err := q.db.ExecContext(ctx,
			"INSERT INTO email_settings (id, updated_at) VALUES (1, ?)", now); err != nil {
			return EmailSettings{}, err
		}
		return q.GetEmailSettings(ctx)
	}
	return s, err
}

// UpdateEmailSettingsParams holds the fields for UpdateEmailSettings. An
// empty APIKey with KeepAPIKey set leaves the stored key untouched so the
// admin form never has to echo the secret back.
type UpdateEmailSettingsParams struct {
	Provider    string
	APIKey      string
	KeepAPIKey  bool
	SenderEmail string
	SenderName  string
	NotifyTo    string
	UpdatedAt   time.Time
}

// UpdateEmailSettings saves the email settings row.
func (q *Queries) UpdateEmailSettings(ctx context.Context, p UpdateEmailSettingsParams) (EmailSettings, error) {
	if _, err := q.GetEmailSettings(ctx); err != nil {
		return EmailSettings{}, err
	}
	if p.KeepAPIKey {
		_, err := q.db.ExecContext(ctx, `
			UPDATE email_settings SET provider = ?, sender_email = ?, sender_name = ?, notify_to = ?, updated_at = ?
			WHERE id = 1`,
			p.Provider, p.SenderEmail, p.SenderName, p.NotifyTo, p.UpdatedAt)
		if err != nil {
			return EmailSettings{}, err
		}
	} else {
		_, err := q.db.ExecContext(ctx, `
			UPDATE email_settings SET provider = ?, api_key = ?, sender_email = ?, sender_name = ?, notify_to = ?, updated_at = ?
			WHERE id = 1`,
			p.Provider, p.APIKey, p.SenderEmail, p.SenderName, p.NotifyTo, p.UpdatedAt)
		if err != nil {
			return EmailSettings{}, err
		}
	}
	return q.GetEmailSettings(ctx)
}

// ClearEmailAPIKey removes the stored API key.
func (q *Queries) ClearEmailAPIKey(ctx context.Context, at time.Time) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE email_settings SET api_key = '', updated_at = ? WHERE id = 1", at)
	return err
}
