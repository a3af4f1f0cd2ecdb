// Package whatsapp is a thin client for a WAHA-style WhatsApp HTTP gateway.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client sends outbound messages through the gateway's REST API.
type Client struct {
	baseURL    string
	apiKey     string
	session    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new gateway client.
func NewClient(baseURL, apiKey, session string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		session:    session,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type sendTextRequest struct {
	Session string `json:"session"`
	ChatID  string `json:"chatId"`
	Text    string `json:"text"`
}

// SendText delivers a plain text message to a chat.
func (c *Client) SendText(ctx context.Context, chatID string, text string) error {
	payload, err := json.Marshal(sendTextRequest{
		Session: c.session,
		ChatID:  chatID,
		Text:    text,
	})
	if err != nil {
		return fmt.Errorf("failed to encode send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/sendText", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	c.logger.Debug("Message sent",
		zap.String("chat_id", chatID),
		zap.Int("text_length", len(text)))
	return nil
}
