// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mailer sends notification mail for public form submissions.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/pipeplast/pipecms/internal/config"
	"github.com/pipeplast/pipecms/internal/i18n"
	"github.com/pipeplast/pipecms/internal/store"
)

// brevoRelayHost is the SMTP relay used when the admin-configured provider
// is "brevo". The stored API key is the relay password.
const brevoRelayHost = "smtp-relay.brevo.com"

// ErrNotConfigured means neither the admin email settings nor the
// environment provide a usable SMTP relay.
var ErrNotConfigured = fmt.Errorf("mailer: no SMTP relay configured")

// Mailer sends notification mail using the admin-managed email settings,
// falling back to the environment SMTP relay.
type Mailer struct {
	queries *store.Queries
	cfg     *config.Config
	logger  *slog.Logger

	// sendFn is the delivery function, replaceable in tests.
	sendFn func(d *gomail.Dialer, msgs ...*gomail.Message) error
}

// New creates a Mailer.
func New(queries *store.Queries, cfg *config.Config, logger *slog.Logger) *Mailer {
	return &Mailer{
		queries: queries,
		cfg:     cfg,
		logger:  logger,
		sendFn: func(d *gomail.Dialer, msgs ...*gomail.Message) error {
			return d.DialAndSend(msgs...)
		},
	}
}

// dialer builds an SMTP dialer from the stored settings. The "brevo"
// provider uses the Brevo relay with the stored API key; the "smtp"
// provider uses the environment relay.
func (m *Mailer) dialer(settings store.EmailSettings) (*gomail.Dialer, error) {
	switch settings.Provider {
	case "brevo":
		if settings.APIKey == "" {
			return nil, ErrNotConfigured
		}
		user := m.cfg.SMTPUser
		if user == "" {
			user = settings.SenderEmail
		}
		return gomail.NewDialer(brevoRelayHost, 587, user, settings.APIKey), nil
	case "smtp":
		if !m.cfg.SMTPEnabled() {
			return nil, ErrNotConfigured
		}
		return gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.SMTPUser, m.cfg.SMTPPassword), nil
	default:
		return nil, fmt.Errorf("mailer: unknown provider %q", settings.Provider)
	}
}

// SendContactNotification mails the site operators about a new contact
// message. The language selects the subject translation.
func (m *Mailer) SendContactNotification(ctx context.Context, msg store.ContactMessage, lang string) error {
	settings, err := m.queries.GetEmailSettings(ctx)
	if err != nil {
		return fmt.Errorf("loading email settings: %w", err)
	}
	if settings.NotifyTo == "" {
		m.logger.Warn("contact notification skipped: no notify address configured",
			"category", "mail", "reference", msg.Reference)
		return nil
	}

	subject := i18n.T(lang, "contact.subject", msg.Name)
	body := contactBody(msg)

	if err := m.deliver(settings, subject, body); err != nil {
		m.logger.Error("contact notification failed",
			"category", "mail", "reference", msg.Reference, "error", err)
		return err
	}
	m.logger.Info("contact notification sent",
		"category", "mail", "reference", msg.Reference, "to", settings.NotifyTo)
	return nil
}

// SendJobNotification mails the site operators about a new job application.
func (m *Mailer) SendJobNotification(ctx context.Context, app store.JobApplication, lang string) error {
	settings, err := m.queries.GetEmailSettings(ctx)
	if err != nil {
		return fmt.Errorf("loading email settings: %w", err)
	}
	if settings.NotifyTo == "" {
		m.logger.Warn("job notification skipped: no notify address configured",
			"category", "mail", "reference", app.Reference)
		return nil
	}

	subject := i18n.T(lang, "job.subject", app.Name)
	body := jobBody(app)

	if err := m.deliver(settings, subject, body); err != nil {
		m.logger.Error("job notification failed",
			"category", "mail", "reference", app.Reference, "error", err)
		return err
	}
	m.logger.Info("job notification sent",
		"category", "mail", "reference", app.Reference, "to", settings.NotifyTo)
	return nil
}

func (m *Mailer) deliver(settings store.EmailSettings, subject, body string) error {
	d, err := m.dialer(settings)
	if err != nil {
		return err
	}

	from := settings.SenderEmail
	if from == "" {
		from = m.cfg.SMTPUser
	}
	if from == "" {
		return ErrNotConfigured
	}

	msg := gomail.NewMessage()
	if settings.SenderName != "" {
		msg.SetAddressHeader("From", from, settings.SenderName)
	} else {
		msg.SetHeader("From", from)
	}
	msg.SetHeader("To", settings.NotifyTo)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return m.sendFn(d, msg)
}

func contactBody(msg store.ContactMessage) string {
	var b strings.Builder
	writeField(&b, "Reference", msg.Reference)
	writeField(&b, "Name", msg.Name)
	writeField(&b, "Email", msg.Email)
	writeField(&b, "Phone", msg.Phone)
	writeField(&b, "Subject", msg.Subject)
	writeField(&b, "Received", msg.CreatedAt.Format(time.RFC3339))
	b.WriteString("\n")
	b.WriteString(msg.Message)
	b.WriteString("\n")
	return b.String()
}

func jobBody(app store.JobApplication) string {
	var b strings.Builder
	writeField(&b, "Reference", app.Reference)
	writeField(&b, "Name", app.Name)
	writeField(&b, "Email", app.Email)
	writeField(&b, "Phone", app.Phone)
	writeField(&b, "Position", app.Position)
	writeField(&b, "CV", app.CVURL)
	writeField(&b, "Received", app.CreatedAt.Format(time.RFC3339))
	b.WriteString("\n")
	b.WriteString(app.Message)
	b.WriteString("\n")
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}
