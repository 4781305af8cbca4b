// Package line implements the LINE Messaging API integration: webhook
// signature verification, event parsing, and the reply client.
package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrInvalidSignature is returned when the X-Line-Signature header does not
// match the HMAC-SHA256 digest of the request body.
var ErrInvalidSignature = errors.New("line: invalid webhook signature")

// Event types and message types delivered in the webhook envelope.
const (
	EventTypeMessage = "message"
	MessageTypeText  = "text"
)

// Event is one notification inside a webhook delivery.
type Event struct {
	Type       string  `json:"type"`
	ReplyToken string  `json:"replyToken"`
	Source     Source  `json:"source"`
	Message    Message `json:"message"`
}

// Source identifies who triggered the event. UserID is the opaque platform
// identifier used as the tenancy key for to-do items.
type Source struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

// Message carries the message payload for message events.
type Message struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text"`
}

// webhookEnvelope is the top-level webhook request body.
type webhookEnvelope struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

// IsTextMessage reports whether the event is a text message event.
func (e Event) IsTextMessage() bool {
	return e.Type == EventTypeMessage && e.Message.Type == MessageTypeText
}

// ParseRequest reads the webhook request body, verifies its signature against
// the channel secret, and returns the contained events. It returns
// ErrInvalidSignature on a signature mismatch and a wrapped decode error when
// the body is not a valid webhook envelope.
func ParseRequest(channelSecret string, r *http.Request) ([]Event, error) {
	defer r.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("line: failed to read webhook body: %w", err)
	}

	if !ValidateSignature(channelSecret, r.Header.Get("X-Line-Signature"), body) {
		return nil, ErrInvalidSignature
	}

	var envelope webhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("line: failed to decode webhook body: %w", err)
	}

	return envelope.Events, nil
}

// ValidateSignature checks a base64-encoded HMAC-SHA256 signature of body
// keyed with the channel secret.
func ValidateSignature(channelSecret, signature string, body []byte) bool {
	decoded, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body) //nolint:errcheck
	return hmac.Equal(decoded, mac.Sum(nil))
}

// Sign computes the webhook signature for body. Used by tests and by any
// tooling that needs to produce a valid delivery.
func Sign(channelSecret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body) //nolint:errcheck
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
