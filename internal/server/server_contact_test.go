package server

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"lensfolio/internal/notify"
	"lensfolio/pkg/domain"
)

type fakeEmail struct {
	err   error
	calls int
}

func (f *fakeEmail) SendContactEmail(context.Context, domain.ContactMessage) error {
	f.calls++
	return f.err
}

type fakeSMS struct {
	err   error
	calls int
}

func (f *fakeSMS) SendSMS(context.Context, string) error {
	f.calls++
	return f.err
}

type contactResponse struct {
	Message string `json:"message"`
	Email   bool   `json:"email"`
	SMS     bool   `json:"sms"`
}

func TestContactReportsPerChannelOutcomes(t *testing.T) {
	email := &fakeEmail{}
	sms := &fakeSMS{err: errors.New("twilio down")}
	srv := newTestServer(t, notify.NewNotifier(email, sms))

	resp := doJSON(t, http.DefaultClient, http.MethodPost, srv.URL+"/api/contact", map[string]string{
		"name":    "Ada",
		"email":   "ada@example.com",
		"message": "I would like a print",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("contact expected 200 despite SMS failure, got %d", resp.StatusCode)
	}
	var body contactResponse
	decodeBody(t, resp, &body)
	if !body.Email || body.SMS {
		t.Fatalf("expected email=true sms=false, got %+v", body)
	}
	if email.calls != 1 || sms.calls != 1 {
		t.Fatalf("both channels must be attempted, got email=%d sms=%d", email.calls, sms.calls)
	}
}

func TestContactWithNoChannelsConfigured(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := doJSON(t, http.DefaultClient, http.MethodPost, srv.URL+"/api/contact", map[string]string{
		"name":    "Ada",
		"email":   "ada@example.com",
		"message": "hello",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("contact expected 200, got %d", resp.StatusCode)
	}
	var body contactResponse
	decodeBody(t, resp, &body)
	// Absent email is a no-op success, absent SMS reports false.
	if !body.Email || body.SMS {
		t.Fatalf("expected email=true sms=false, got %+v", body)
	}
}

func TestContactValidation(t *testing.T) {
	email := &fakeEmail{}
	srv := newTestServer(t, notify.NewNotifier(email, nil))

	cases := []map[string]string{
		{"email": "ada@example.com", "message": "hi"},
		{"name": "Ada", "message": "hi"},
		{"name": "Ada", "email": "ada@example.com"},
		{"name": "Ada", "email": "not-an-email", "message": "hi"},
	}
	for i, payload := range cases {
		resp := doJSON(t, http.DefaultClient, http.MethodPost, srv.URL+"/api/contact", payload)
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("case %d: expected 400, got %d", i, resp.StatusCode)
		}
	}
	if email.calls != 0 {
		t.Fatalf("invalid submissions must not dispatch, got %d calls", email.calls)
	}
}
