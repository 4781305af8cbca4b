package providers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// ShortenerConfig carries the Bitly endpoint and credentials.
type ShortenerConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Shortener converts long URLs into short ones via the Bitly v4 API.
type Shortener struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *slog.Logger
}

// NewShortener creates a URL shortener client.
func NewShortener(cfg ShortenerConfig, log *slog.Logger) *Shortener {
	if log == nil {
		log = slog.Default()
	}
	return &Shortener{
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.With("component", "shortener"),
	}
}

type shortenRequest struct {
	LongURL string `json:"long_url"`
}

type shortenResponse struct {
	Link string `json:"link"`
}

// Shorten validates longURL and exchanges it for a short link.
func (s *Shortener) Shorten(ctx context.Context, longURL string) (string, error) {
	if !validURL(longURL) {
		return "", validationError("無效的URL格式 請檢查輸入的網址格式是否正確")
	}

	headers := map[string]string{"Authorization": "Bearer " + s.token}

	var resp shortenResponse
	if err := postJSON(ctx, s.httpClient, s.baseURL+"/shorten", headers, shortenRequest{LongURL: longURL}, &resp); err != nil {
		s.log.WarnContext(ctx, "Shorten request failed", "error", err)
		return "", err
	}

	if resp.Link == "" {
		return "", badResponseError("missing 'link' field", nil)
	}

	s.log.DebugContext(ctx, "URL shortened", "link", resp.Link)
	return resp.Link, nil
}

// FormatShortened renders the reply line for a shortened URL.
func FormatShortened(link string) string {
	return fmt.Sprintf("對應的縮網址：%s", link)
}

// validURL accepts absolute http/https URLs with a host.
func validURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
