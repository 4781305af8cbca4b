package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/ycshao/lineassist/internal/providers"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRouterDispatch(t *testing.T) {
	t.Parallel()

	r := NewRouter(discardLogger())
	r.Register("天氣", func(_ context.Context, parts []string, _ string) (string, error) {
		return "weather:" + strings.Join(parts[1:], ","), nil
	})
	r.Register("todo", func(_ context.Context, _ []string, userID string) (string, error) {
		return "todo:" + userID, nil
	})

	tests := []struct {
		name string
		text string
		want string
	}{
		{"exact match with arguments", "天氣 臺北市", "weather:臺北市"},
		{"surrounding whitespace", "  天氣   臺北市  ", "weather:臺北市"},
		{"prefix must not match", "天氣預報查詢 臺北市", HelpText},
		{"unknown command", "股價 2330", HelpText},
		{"empty message", "   ", HelpText},
		{"user id forwarded", "todo 列表", "todo:U1"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := r.Dispatch(context.Background(), tt.text, "U1"); got != tt.want {
				t.Errorf("Dispatch(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestRouterDispatchErrors(t *testing.T) {
	t.Parallel()

	provErr := &providers.Error{Kind: providers.KindTimeout, Message: "request timed out"}
	plainErr := errors.New("database is locked")

	r := NewRouter(discardLogger())
	r.Register("匯率", func(_ context.Context, _ []string, _ string) (string, error) {
		return "", provErr
	})
	r.Register("todo", func(_ context.Context, _ []string, _ string) (string, error) {
		return "", plainErr
	})

	t.Run("provider error renders its user message", func(t *testing.T) {
		t.Parallel()
		if got := r.Dispatch(context.Background(), "匯率 美金 台幣", "U1"); got != "請求超時" {
			t.Errorf("Dispatch() = %q", got)
		}
	})

	t.Run("other errors render the generic template", func(t *testing.T) {
		t.Parallel()
		got := r.Dispatch(context.Background(), "todo 列表", "U1")
		if got != ErrorReply(plainErr) {
			t.Errorf("Dispatch() = %q", got)
		}
		for _, want := range []string{"❌ 發生錯誤", "錯誤描述: database is locked", "請稍後再試。", strings.Repeat("=", 20)} {
			if !strings.Contains(got, want) {
				t.Errorf("error reply missing %q\ngot:\n%s", want, got)
			}
		}
	})
}

func TestHelpTextListsEveryCommand(t *testing.T) {
	t.Parallel()

	for _, keyword := range []string{cmdShorten, cmdCurrency, cmdStock, cmdWeather, cmdNews, cmdTodo} {
		if !strings.Contains(HelpText, keyword) {
			t.Errorf("help text does not mention %q", keyword)
		}
	}
}

func TestRegisterAllCommandsUsage(t *testing.T) {
	t.Parallel()

	// Handlers with missing arguments answer with usage text without touching
	// any dependency, so a zero-value Deps is enough.
	r := RegisterAllCommands(Deps{Logger: discardLogger()})

	tests := []struct {
		text string
		want string
	}{
		{"縮網址", "請輸入正確的縮網址格式"},
		{"匯率", "說明: 查詢即時匯率轉換"},
		{"股票", "說明: 查詢股票即時資訊"},
		{"天氣", "請輸入要查詢的縣市名稱"},
		{"新聞", "說明: 搜尋相關新聞"},
		{"todo", "請輸入正確的待辦事項指令"},
	}

	for _, tt := range tests {
		got := r.Dispatch(context.Background(), tt.text, "U1")
		if !strings.Contains(got, tt.want) {
			t.Errorf("Dispatch(%q) = %q, want usage containing %q", tt.text, got, tt.want)
		}
	}
}
