package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"time"

	"lensfolio/pkg/domain"
)

const resendEndpoint = "https://api.resend.com/emails"

// EmailService delivers contact notifications through the Resend API.
type EmailService struct {
	apiKey     string
	from       string
	to         string
	httpClient *http.Client
	endpoint   string
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendResponse struct {
	ID    string `json:"id"`
	Error string `json:"error,omitempty"`
}

// NewEmailService builds the email channel.
func NewEmailService(apiKey, from, to string) *EmailService {
	return &EmailService{
		apiKey: apiKey,
		from:   from,
		to:     to,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		endpoint: resendEndpoint,
	}
}

// SendContactEmail delivers a contact-form notification.
func (s *EmailService) SendContactEmail(ctx context.Context, msg domain.ContactMessage) error {
	body := resendRequest{
		From:    s.from,
		To:      []string{s.to},
		Subject: "New Contact Form Submission - Photography Portfolio",
		HTML:    contactEmailHTML(msg),
	}
	reqBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal email request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("create email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email request: %w", err)
	}
	defer resp.Body.Close()

	var apiResp resendResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("decode email response: %w", err)
	}
	if resp.StatusCode >= 400 {
		if apiResp.Error != "" {
			return fmt.Errorf("email API error (status %d): %s", resp.StatusCode, apiResp.Error)
		}
		return fmt.Errorf("email API error (status %d)", resp.StatusCode)
	}
	return nil
}

func contactEmailHTML(msg domain.ContactMessage) string {
	return fmt.Sprintf(
		`<h2>New Contact Form Submission</h2>
<p><strong>Name:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Message:</strong></p>
<p>%s</p>`,
		html.EscapeString(msg.Name),
		html.EscapeString(msg.Email),
		html.EscapeString(msg.Message),
	)
}
