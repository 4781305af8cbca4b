package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Client sends replies through the LINE Messaging API.
type Client struct {
	baseURL      string
	channelToken string
	httpClient   *http.Client
	log          *slog.Logger
}

// NewClient creates a reply client for the given channel access token.
// baseURL is the API host (https://api.line.me outside of tests).
func NewClient(baseURL, channelToken string, timeout time.Duration, log *slog.Logger) (*Client, error) {
	if channelToken == "" {
		return nil, fmt.Errorf("line: channel access token is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL:      baseURL,
		channelToken: channelToken,
		httpClient:   &http.Client{Timeout: timeout},
		log:          log.With("component", "line_client"),
	}, nil
}

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type replyRequest struct {
	ReplyToken string        `json:"replyToken"`
	Messages   []textMessage `json:"messages"`
}

// ReplyMessage sends one text message back through the event's reply token.
func (c *Client) ReplyMessage(ctx context.Context, replyToken, text string) error {
	payload, err := json.Marshal(replyRequest{
		ReplyToken: replyToken,
		Messages:   []textMessage{{Type: "text", Text: text}},
	})
	if err != nil {
		return fmt.Errorf("line: failed to encode reply: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/bot/message/reply", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("line: failed to create reply request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.channelToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("line: reply request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.log.ErrorContext(ctx, "LINE reply API returned an error",
			"status", resp.StatusCode, "body", string(body))
		return fmt.Errorf("line: reply API returned status %d", resp.StatusCode)
	}

	c.log.DebugContext(ctx, "Reply sent", "reply_token", replyToken)
	return nil
}
