package providers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestShortenerShorten(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		var gotAuth string
		var gotReq shortenRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/shorten" {
				t.Errorf("path = %q, want /shorten", r.URL.Path)
			}
			gotAuth = r.Header.Get("Authorization")
			if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
				t.Errorf("decode request: %v", err)
			}
			json.NewEncoder(w).Encode(map[string]string{"link": "https://bit.ly/3xyz"}) //nolint:errcheck
		}))
		defer srv.Close()

		s := NewShortener(ShortenerConfig{BaseURL: srv.URL, Token: "bitly-token", Timeout: time.Second}, discardLogger())
		link, err := s.Shorten(context.Background(), "https://www.google.com.tw/")
		if err != nil {
			t.Fatalf("Shorten() error = %v", err)
		}
		if link != "https://bit.ly/3xyz" {
			t.Errorf("link = %q", link)
		}
		if gotAuth != "Bearer bitly-token" {
			t.Errorf("Authorization = %q", gotAuth)
		}
		if gotReq.LongURL != "https://www.google.com.tw/" {
			t.Errorf("long_url = %q", gotReq.LongURL)
		}
	})

	t.Run("invalid url rejected before request", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			t.Error("no request should be sent for invalid input")
		}))
		defer srv.Close()

		s := NewShortener(ShortenerConfig{BaseURL: srv.URL, Token: "t", Timeout: time.Second}, discardLogger())
		for _, raw := range []string{"not-a-url", "ftp://example.com/file", "www.google.com", ""} {
			_, err := s.Shorten(context.Background(), raw)

			var provErr *Error
			if !errors.As(err, &provErr) || provErr.Kind != KindValidation {
				t.Fatalf("Shorten(%q) error = %v, want validation error", raw, err)
			}
			if provErr.UserMessage() != "無效的URL格式 請檢查輸入的網址格式是否正確" {
				t.Errorf("UserMessage() = %q", provErr.UserMessage())
			}
		}
	})

	t.Run("upstream status error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		s := NewShortener(ShortenerConfig{BaseURL: srv.URL, Token: "t", Timeout: time.Second}, discardLogger())
		_, err := s.Shorten(context.Background(), "https://example.com/")

		var provErr *Error
		if !errors.As(err, &provErr) || provErr.Kind != KindUpstreamStatus || provErr.Status != 403 {
			t.Fatalf("Shorten() error = %v, want 403 upstream error", err)
		}
	})

	t.Run("missing link field", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{}`)) //nolint:errcheck
		}))
		defer srv.Close()

		s := NewShortener(ShortenerConfig{BaseURL: srv.URL, Token: "t", Timeout: time.Second}, discardLogger())
		_, err := s.Shorten(context.Background(), "https://example.com/")

		var provErr *Error
		if !errors.As(err, &provErr) || provErr.Kind != KindBadResponse {
			t.Fatalf("Shorten() error = %v, want bad-response error", err)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte(`{"link":"x"}`)) //nolint:errcheck
		}))
		defer srv.Close()

		s := NewShortener(ShortenerConfig{BaseURL: srv.URL, Token: "t", Timeout: 20 * time.Millisecond}, discardLogger())
		_, err := s.Shorten(context.Background(), "https://example.com/")

		var provErr *Error
		if !errors.As(err, &provErr) || provErr.Kind != KindTimeout {
			t.Fatalf("Shorten() error = %v, want timeout error", err)
		}
		if provErr.UserMessage() != "請求超時" {
			t.Errorf("UserMessage() = %q", provErr.UserMessage())
		}
	})
}

func TestFormatShortened(t *testing.T) {
	t.Parallel()

	got := FormatShortened("https://bit.ly/3xyz")
	want := "對應的縮網址：https://bit.ly/3xyz"
	if got != want {
		t.Errorf("FormatShortened() = %q, want %q", got, want)
	}
}

func TestValidURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want bool
	}{
		{"https://www.google.com.tw/", true},
		{"http://example.com/path?q=1", true},
		{"ftp://example.com", false},
		{"www.google.com", false},
		{"https://", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := validURL(tt.raw); got != tt.want {
			t.Errorf("validURL(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
