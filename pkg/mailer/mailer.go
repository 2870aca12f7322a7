package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/casamichael/shopping-backend/pkg/config"
	"github.com/casamichael/shopping-backend/pkg/logger"
)

// Sender delivers transactional mail. Account flows (confirmation,
// password recovery) are the only callers.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Client sends mail through the SendGrid v3 REST API.
type Client struct {
	httpClient *http.Client
	cfg        config.MailConfig
	logg       *logger.Logger
}

func NewClient(cfg config.MailConfig, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("mail api key is required")
	}
	if strings.TrimSpace(cfg.FromAddress) == "" {
		return nil, errors.New("mail from address is required")
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cfg:        cfg,
		logg:       logg,
	}, nil
}

type sendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
}

type personalization struct {
	To []address `json:"to"`
}

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Send posts a single HTML message to the mail provider.
func (c *Client) Send(ctx context.Context, to, subject, htmlBody string) error {
	if strings.TrimSpace(to) == "" {
		return errors.New("recipient is required")
	}

	payload := sendRequest{
		Personalizations: []personalization{{To: []address{{Email: to}}}},
		From:             address{Email: c.cfg.FromAddress, Name: c.cfg.FromName},
		Subject:          subject,
		Content:          []content{{Type: "text/html", Value: htmlBody}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding mail payload: %w", err)
	}

	u := strings.TrimRight(c.cfg.APIBaseURL, "/") + "/v3/mail/send"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("mail provider returned %s", resp.Status)
	}

	if c.logg != nil {
		c.logg.Info(c.logg.WithField(ctx, "mail_to", to), "mail dispatched")
	}
	return nil
}
