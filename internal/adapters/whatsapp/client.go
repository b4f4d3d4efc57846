// Package whatsapp is the outbound WhatsApp Cloud API adapter and the inbound
// webhook payload model.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/eiescz/idiomasbot/internal/domain"
)

const defaultBaseURL = "https://graph.facebook.com/v20.0"

// Client implements ports.Messenger against the WhatsApp Cloud API.
type Client struct {
	http    *http.Client
	logger  *slog.Logger
	baseURL string
	token   string
	phoneID string
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL overrides the Graph API base URL. Used by tests.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		c.http = h
	}
}

// NewClient creates a messenger for the given access token and phone number id.
func NewClient(token, phoneID string, logger *slog.Logger, opts ...ClientOption) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
		baseURL: defaultBaseURL,
		token:   token,
		phoneID: phoneID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) post(ctx context.Context, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		c.logger.Warn("whatsapp send rejected", "status", resp.StatusCode, "body", string(data))
		return fmt.Errorf("whatsapp api status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) envelope(to, kind string) map[string]any {
	return map[string]any{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              kind,
	}
}

// SendText sends a plain text message.
func (c *Client) SendText(ctx context.Context, conversation, text string) error {
	msg := c.envelope(conversation, "text")
	msg["text"] = map[string]any{"body": text}
	return c.post(ctx, msg)
}

// SendYesNo sends an interactive message with sí/no reply buttons.
func (c *Client) SendYesNo(ctx context.Context, conversation, prompt string) error {
	buttons := []map[string]any{
		{"type": "reply", "reply": map[string]any{"id": "si", "title": "Sí"}},
		{"type": "reply", "reply": map[string]any{"id": "no", "title": "No"}},
	}
	msg := c.envelope(conversation, "interactive")
	msg["interactive"] = map[string]any{
		"type":   "button",
		"body":   map[string]any{"text": prompt},
		"action": map[string]any{"buttons": buttons},
	}
	return c.post(ctx, msg)
}

// SendList sends an interactive list message with one section.
func (c *Client) SendList(ctx context.Context, conversation, prompt, title string, options []domain.Option) error {
	rows := make([]map[string]any, 0, len(options))
	for _, o := range options {
		rows = append(rows, map[string]any{"id": o.ID, "title": o.Title})
	}
	msg := c.envelope(conversation, "interactive")
	msg["interactive"] = map[string]any{
		"type": "list",
		"body": map[string]any{"text": prompt},
		"action": map[string]any{
			"button":   title,
			"sections": []map[string]any{{"title": title, "rows": rows}},
		},
	}
	return c.post(ctx, msg)
}

// SendLocation sends a location pin.
func (c *Client) SendLocation(ctx context.Context, conversation string, lat, lng float64, label, address string) error {
	msg := c.envelope(conversation, "location")
	msg["location"] = map[string]any{
		"latitude":  lat,
		"longitude": lng,
		"name":      label,
		"address":   address,
	}
	return c.post(ctx, msg)
}
