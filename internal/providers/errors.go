// Package providers implements the five external REST API clients (URL
// shortener, currency rates, weather, stock exchange, news search) and the
// closed error taxonomy shared by all of them.
package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies a provider failure. The set is closed: every failure a
// client can surface maps to exactly one of these, and the dispatch layer
// renders each kind as user-facing text.
type Kind int

const (
	// KindValidation is an input problem detected before any request is sent.
	KindValidation Kind = iota
	// KindTimeout is an outbound request that exceeded the fixed timeout.
	KindTimeout
	// KindConnection is a transport-level failure (DNS, refused, reset).
	KindConnection
	// KindUpstreamStatus is a non-2xx response from the provider.
	KindUpstreamStatus
	// KindBadResponse is a response whose JSON shape or field types did not
	// match what the client expects.
	KindBadResponse
)

// statusMessages maps upstream HTTP status codes to user-facing text.
// Unmapped codes fall back to a generic message.
var statusMessages = map[int]string{
	400: "無效的請求",
	401: "認證失敗",
	403: "沒有權限",
}

// Error is the typed failure returned by every provider operation. It carries
// the failure kind and enough detail to render the fixed user-facing message,
// replacing the original design's string-typed success/error union.
type Error struct {
	Kind    Kind
	Status  int    // upstream HTTP status, set for KindUpstreamStatus
	Message string // user-facing text for KindValidation, detail otherwise
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage renders the error as the reply text shown to the end user.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindValidation:
		return e.Message
	case KindTimeout:
		return "請求超時"
	case KindConnection:
		return "網路連接錯誤"
	case KindUpstreamStatus:
		msg, ok := statusMessages[e.Status]
		if !ok {
			msg = "HTTP請求錯誤"
		}
		return fmt.Sprintf("代碼錯誤-%d-%s-HTTPError", e.Status, msg)
	case KindBadResponse:
		return fmt.Sprintf("無效的響應格式: %s", e.Message)
	}
	return e.Message
}

func validationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func statusError(status int) *Error {
	return &Error{Kind: KindUpstreamStatus, Status: status, Message: fmt.Sprintf("upstream returned status %d", status)}
}

func badResponseError(message string, cause error) *Error {
	return &Error{Kind: KindBadResponse, Message: message, Err: cause}
}

// transportError classifies a request error into timeout or connection
// failure. There are no retries; classification only selects the reply text.
func transportError(err error) *Error {
	kind := KindConnection
	message := "connection failure"

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind, message = KindTimeout, "request timed out"
	case errors.As(err, &netErr) && netErr.Timeout():
		kind, message = KindTimeout, "request timed out"
	}

	return &Error{Kind: kind, Message: message, Err: err}
}
