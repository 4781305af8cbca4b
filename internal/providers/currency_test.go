package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func rateServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(body)) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCurrencyConvert(t *testing.T) {
	t.Parallel()

	t.Run("converts through USD rates", func(t *testing.T) {
		t.Parallel()

		srv := rateServer(t, `{
			"USDTWD": {"Exrate": 31.5},
			"USDJPY": {"Exrate": 150.0},
			"USDUSD": {"Exrate": 1}
		}`)

		c := NewCurrency(CurrencyConfig{URL: srv.URL, Timeout: time.Second}, discardLogger())

		rate, err := c.Convert(context.Background(), "美金", "台幣")
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		if rate != 31.5 {
			t.Errorf("USD→TWD rate = %v, want 31.5", rate)
		}

		// 1 JPY = 31.5/150 TWD, rounded to four decimal places.
		rate, err = c.Convert(context.Background(), "日幣", "台幣")
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		if rate != 0.21 {
			t.Errorf("JPY→TWD rate = %v, want 0.21", rate)
		}
	})

	t.Run("unsupported currency", func(t *testing.T) {
		t.Parallel()

		srv := rateServer(t, `{}`)
		c := NewCurrency(CurrencyConfig{URL: srv.URL, Timeout: time.Second}, discardLogger())

		_, err := c.Convert(context.Background(), "美金", "盧布")

		var provErr *Error
		if !errors.As(err, &provErr) || provErr.Kind != KindValidation {
			t.Fatalf("Convert() error = %v, want validation error", err)
		}
		want := "當前支援的貨幣有美金,台幣,日幣,人民幣,越南盾,英鎊,韓元"
		if provErr.UserMessage() != want {
			t.Errorf("UserMessage() = %q, want %q", provErr.UserMessage(), want)
		}
	})

	t.Run("missing rate entry", func(t *testing.T) {
		t.Parallel()

		srv := rateServer(t, `{"USDTWD": {"Exrate": 31.5}}`)
		c := NewCurrency(CurrencyConfig{URL: srv.URL, Timeout: time.Second}, discardLogger())

		_, err := c.Convert(context.Background(), "日幣", "台幣")

		var provErr *Error
		if !errors.As(err, &provErr) || provErr.Kind != KindBadResponse {
			t.Fatalf("Convert() error = %v, want bad-response error", err)
		}
	})

	t.Run("non-positive rate", func(t *testing.T) {
		t.Parallel()

		srv := rateServer(t, `{"USDTWD": {"Exrate": 0}, "USDJPY": {"Exrate": 150}}`)
		c := NewCurrency(CurrencyConfig{URL: srv.URL, Timeout: time.Second}, discardLogger())

		_, err := c.Convert(context.Background(), "台幣", "日幣")

		var provErr *Error
		if !errors.As(err, &provErr) || provErr.Kind != KindBadResponse {
			t.Fatalf("Convert() error = %v, want bad-response error", err)
		}
	})

	t.Run("upstream failure", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		t.Cleanup(srv.Close)

		c := NewCurrency(CurrencyConfig{URL: srv.URL, Timeout: time.Second}, discardLogger())
		_, err := c.Convert(context.Background(), "美金", "台幣")

		var provErr *Error
		if !errors.As(err, &provErr) || provErr.Kind != KindUpstreamStatus {
			t.Fatalf("Convert() error = %v, want upstream status error", err)
		}
		if provErr.UserMessage() != "代碼錯誤-401-認證失敗-HTTPError" {
			t.Errorf("UserMessage() = %q", provErr.UserMessage())
		}
	})
}

func TestFormatRate(t *testing.T) {
	t.Parallel()

	got := FormatRate("美金", "台幣", 31.5)
	if got != "當前 1 美金 可以兌換 31.5 台幣" {
		t.Errorf("FormatRate() = %q", got)
	}
	if !strings.Contains(FormatRate("日幣", "台幣", 0.21), "0.21") {
		t.Error("FormatRate() should render the rate value")
	}
}
