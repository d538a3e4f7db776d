package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SMSService delivers contact notifications through the Twilio Messages
// REST API.
type SMSService struct {
	accountSID string
	authToken  string
	from       string
	to         string
	httpClient *http.Client
	baseURL    string
}

type twilioResponse struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewSMSService builds the SMS channel.
func NewSMSService(accountSID, authToken, from, to string) *SMSService {
	return &SMSService{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		to:         to,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: "https://api.twilio.com",
	}
}

// SendSMS delivers a free-form text message.
func (s *SMSService) SendSMS(ctx context.Context, body string) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.baseURL, url.PathEscape(s.accountSID))
	form := url.Values{}
	form.Set("To", s.to)
	form.Set("From", s.from)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create sms request: %w", err)
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send sms request: %w", err)
	}
	defer resp.Body.Close()

	var apiResp twilioResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("decode sms response: %w", err)
	}
	if resp.StatusCode >= 400 {
		if apiResp.Message != "" {
			return fmt.Errorf("sms API error (status %d): %s", resp.StatusCode, apiResp.Message)
		}
		return fmt.Errorf("sms API error (status %d)", resp.StatusCode)
	}
	return nil
}
