package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/pipeplast/pipecms/internal/store"
)

func TestSubmitContact(t *testing.T) {
	db, h := testSetup(t)

	body := `{
		"name": "Ana Petrova",
		"email": "ana@example.com",
		"phone": "+389 70 123 456",
		"subject": "PE100 pipes",
		"message": "Please send a quote for 500m of PE100 DN110."
	}`
	req := newJSONRequest(t, http.MethodPost, "/api/contact", body, nil)
	w := executeHandler(t, h.SubmitContact, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body %s", w.Code, http.StatusCreated, w.Body.String())
	}
	resp := unmarshalData[SubmissionResponse](t, w)
	if len(resp.Reference) != 8 {
		t.Errorf("reference = %q, want 8 characters", resp.Reference)
	}
	if resp.Message == "" {
		t.Error("expected a confirmation message")
	}

	messages, err := store.New(db).ListContactMessages(context.Background(),
		store.ListContactMessagesParams{Limit: 10})
	if err != nil {
		t.Fatalf("listing messages: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("stored %d messages, want 1", len(messages))
	}
	if messages[0].Reference != resp.Reference {
		t.Errorf("stored reference = %q, want %q", messages[0].Reference, resp.Reference)
	}
	if messages[0].IsRead {
		t.Error("new message should be unread")
	}
}

func TestSubmitContactStripsMarkup(t *testing.T) {
	db, h := testSetup(t)

	body := `{
		"name": "Ana <b>Petrova</b>",
		"email": "ana@example.com",
		"subject": "<img src=x onerror=alert(1)>Quote request",
		"message": "Need 500m of PE100<script>alert(1)</script> pipes & fittings \"DN110\"."
	}`
	req := newJSONRequest(t, http.MethodPost, "/api/contact", body, nil)
	w := executeHandler(t, h.SubmitContact, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body %s", w.Code, http.StatusCreated, w.Body.String())
	}

	messages, err := store.New(db).ListContactMessages(context.Background(),
		store.ListContactMessagesParams{Limit: 10})
	if err != nil {
		t.Fatalf("listing messages: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("stored %d messages, want 1", len(messages))
	}

	msg := messages[0]
	if msg.Name != "Ana Petrova" {
		t.Errorf("stored name = %q, want markup stripped", msg.Name)
	}
	if msg.Subject != "Quote request" {
		t.Errorf("stored subject = %q, want markup stripped", msg.Subject)
	}
	// Tags go, plain text including & and quotes stays intact.
	want := `Need 500m of PE100 pipes & fittings "DN110".`
	if msg.Message != want {
		t.Errorf("stored message = %q, want %q", msg.Message, want)
	}
}

func TestSubmitContactValidation(t *testing.T) {
	_, h := testSetup(t)

	tests := []struct {
		name   string
		body   string
		fields []string
	}{
		{
			name:   "missing required fields",
			body:   `{"phone": "123"}`,
			fields: []string{"name", "email", "message"},
		},
		{
			name:   "bad email",
			body:   `{"name": "A", "email": "not-an-email", "message": "hi"}`,
			fields: []string{"email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newJSONRequest(t, http.MethodPost, "/api/contact", tt.body, nil)
			w := executeHandler(t, h.SubmitContact, req)

			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
			}
			detail := unmarshalError(t, w)
			if detail.Code != "validation_error" {
				t.Errorf("code = %q, want validation_error", detail.Code)
			}
			for _, field := range tt.fields {
				if _, ok := detail.Details[field]; !ok {
					t.Errorf("missing field error for %q in %v", field, detail.Details)
				}
			}
		})
	}
}

func TestSubmitJob(t *testing.T) {
	db, h := testSetup(t)

	body := `{
		"name": "Jovan Stojanov",
		"email": "jovan@example.com",
		"position": "Extrusion Operator",
		"cv_url": "https://example.com/cv.pdf"
	}`
	req := newJSONRequest(t, http.MethodPost, "/api/jobs", body, nil)
	w := executeHandler(t, h.SubmitJob, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body %s", w.Code, http.StatusCreated, w.Body.String())
	}

	applications, err := store.New(db).ListJobApplications(context.Background(),
		store.ListJobApplicationsParams{Limit: 10})
	if err != nil {
		t.Fatalf("listing applications: %v", err)
	}
	if len(applications) != 1 {
		t.Fatalf("stored %d applications, want 1", len(applications))
	}
	if applications[0].Position != "Extrusion Operator" {
		t.Errorf("position = %q", applications[0].Position)
	}
}

func TestSubmitJobRejectsBadCVURL(t *testing.T) {
	_, h := testSetup(t)

	body := `{"name": "J", "email": "j@example.com", "position": "Operator", "cv_url": "not a url"}`
	req := newJSONRequest(t, http.MethodPost, "/api/jobs", body, nil)
	w := executeHandler(t, h.SubmitJob, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
	detail := unmarshalError(t, w)
	if _, ok := detail.Details["cv_url"]; !ok {
		t.Errorf("missing cv_url error in %v", detail.Details)
	}
}

func TestSubmitContactBadJSON(t *testing.T) {
	_, h := testSetup(t)

	req := newJSONRequest(t, http.MethodPost, "/api/contact", "{not json", nil)
	w := executeHandler(t, h.SubmitContact, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
