// Package evolution implements ports.MessageChannel over an Evolution API
// relay: outbound messages become authenticated HTTP calls to the relay,
// which owns the actual WhatsApp connection.
package evolution

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/GibaTrindade/bot-seplag/internal/domain"
	"github.com/GibaTrindade/bot-seplag/internal/logging"
)

// Client sends text and media through an Evolution API instance.
type Client struct {
	baseURL  string
	apiKey   string
	instance string
	http     *http.Client
	logger   *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger configures the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a channel bound to one Evolution instance.
func New(baseURL, apiKey, instance string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		apiKey:   apiKey,
		instance: instance,
		http:     http.DefaultClient,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type textPayload struct {
	Number string `json:"number"`
	Text   string `json:"text"`
}

type mediaPayload struct {
	Number    string `json:"number"`
	MediaType string `json:"mediatype"`
	MimeType  string `json:"mimetype"`
	FileName  string `json:"fileName"`
	Caption   string `json:"caption"`
	Media     string `json:"media"` // base64 of the file contents
}

// SendText delivers a plain text message to the user.
func (c *Client) SendText(ctx context.Context, userID, text string) error {
	endpoint := fmt.Sprintf("%s/message/sendText/%s", c.baseURL, c.instance)
	return c.post(ctx, userID, endpoint, textPayload{Number: userID, Text: text})
}

// SendFile delivers a local file as a document, base64-encoded inline.
func (c *Client) SendFile(ctx context.Context, userID, localPath, displayName, caption string) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return &domain.DeliveryError{UserID: userID, Err: fmt.Errorf("reading %s: %w", localPath, err)}
	}

	endpoint := fmt.Sprintf("%s/message/sendMedia/%s", c.baseURL, c.instance)
	return c.post(ctx, userID, endpoint, mediaPayload{
		Number:    userID,
		MediaType: "document",
		MimeType:  "application/pdf",
		FileName:  displayName,
		Caption:   caption,
		Media:     base64.StdEncoding.EncodeToString(data),
	})
}

func (c *Client) post(ctx context.Context, userID, endpoint string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &domain.DeliveryError{UserID: userID, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return &domain.DeliveryError{UserID: userID, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("relay request failed", "url", endpoint, "err", err)
		return &domain.DeliveryError{UserID: userID, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("relay rejected message",
			"url", endpoint,
			"status", resp.StatusCode,
		)
		return &domain.DeliveryError{
			UserID: userID,
			Err:    fmt.Errorf("relay status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))),
		}
	}
	return nil
}
