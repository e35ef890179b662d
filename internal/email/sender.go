// Package email wraps the transactional email provider behind a single
// opaque send call accepting to/subject/HTML body.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Sender delivers one email. Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// HTTPSender posts messages to an HTTP email API (Resend-style JSON body
// with a bearer key).
type HTTPSender struct {
	client  *http.Client
	baseURL string
	apiKey  string
	from    string
}

// NewHTTPSender builds a sender from EMAIL_API_URL, EMAIL_API_KEY and
// EMAIL_FROM environment variables.
func NewHTTPSender() (*HTTPSender, error) {
	baseURL := os.Getenv("EMAIL_API_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("EMAIL_API_URL environment variable is required")
	}
	apiKey := os.Getenv("EMAIL_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("EMAIL_API_KEY environment variable is required")
	}
	from := os.Getenv("EMAIL_FROM")
	if from == "" {
		from = "Bridged <no-reply@bridged.app>"
	}

	return &HTTPSender{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
		from:    from,
	}, nil
}

// Send posts one message to the provider.
func (s *HTTPSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	payload := map[string]string{
		"from":    s.from,
		"to":      to,
		"subject": subject,
		"html":    htmlBody,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("email provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("email provider returned status %d", resp.StatusCode)
	}
	return nil
}
