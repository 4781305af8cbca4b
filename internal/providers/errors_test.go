package providers

import (
	"context"
	"errors"
	"net"
	"testing"
)

func TestErrorUserMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			"validation carries its own text",
			validationError("請輸入要搜尋的關鍵字"),
			"請輸入要搜尋的關鍵字",
		},
		{
			"timeout",
			&Error{Kind: KindTimeout, Message: "request timed out"},
			"請求超時",
		},
		{
			"connection",
			&Error{Kind: KindConnection, Message: "connection failure"},
			"網路連接錯誤",
		},
		{
			"mapped upstream status",
			statusError(403),
			"代碼錯誤-403-沒有權限-HTTPError",
		},
		{
			"unmapped upstream status",
			statusError(503),
			"代碼錯誤-503-HTTP請求錯誤-HTTPError",
		},
		{
			"bad response",
			badResponseError("missing 'link' field", nil),
			"無效的響應格式: missing 'link' field",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.UserMessage(); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTransportErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"context deadline", context.DeadlineExceeded, KindTimeout},
		{"net timeout", &net.DNSError{IsTimeout: true}, KindTimeout},
		{"refused connection", errors.New("dial tcp: connection refused"), KindConnection},
		{"dns failure", &net.DNSError{IsNotFound: true}, KindConnection},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := transportError(tt.err)
			if got.Kind != tt.want {
				t.Errorf("transportError(%v).Kind = %v, want %v", tt.err, got.Kind, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Error("transportError must wrap the cause")
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := badResponseError("failed to decode response", cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is() = false, want wrapped cause to match")
	}

	var provErr *Error
	if !errors.As(error(err), &provErr) {
		t.Error("errors.As() failed to recover *Error")
	}
}
