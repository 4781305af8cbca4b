// Package bot implements the command dispatch and response-formatting layer:
// it parses inbound message text, routes it to the matching command handler,
// and turns every outcome, including failures, into reply text.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ycshao/lineassist/internal/providers"
)

// Handler processes one command. parts is the whitespace-split message text
// including the command keyword itself; userID identifies the sender.
type Handler func(ctx context.Context, parts []string, userID string) (string, error)

type command struct {
	keyword string
	handler Handler
}

// Router maps command keywords to handlers. Matching is exact on the first
// token of the message, which removes the raw-prefix ambiguity where text
// like 天氣預報查詢 would have matched the 天氣 command.
type Router struct {
	commands []command
	log      *slog.Logger
}

// NewRouter creates an empty router.
func NewRouter(log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}
	return &Router{log: log.With("component", "router")}
}

// Register adds a command keyword and its handler. Registration order is the
// iteration order, kept for determinism even though exact matching makes it
// irrelevant for disjoint keywords.
func (r *Router) Register(keyword string, handler Handler) {
	r.commands = append(r.commands, command{keyword: keyword, handler: handler})
}

// Dispatch routes one inbound message and always returns reply text. Unknown
// commands yield the static help message; handler failures are rendered
// through the provider error messages or the generic error template, never
// propagated to the transport layer.
func (r *Router) Dispatch(ctx context.Context, text, userID string) string {
	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) == 0 {
		return HelpText
	}

	for _, cmd := range r.commands {
		if cmd.keyword != parts[0] {
			continue
		}

		r.log.DebugContext(ctx, "Dispatching command", "command", cmd.keyword, "user_id", userID)
		reply, err := cmd.handler(ctx, parts, userID)
		if err != nil {
			return r.formatError(ctx, cmd.keyword, err)
		}
		return reply
	}

	r.log.DebugContext(ctx, "No command matched, returning help", "first_token", parts[0])
	return HelpText
}

// formatError renders a handler failure as reply text. Provider errors carry
// their own user-facing message; anything else goes through the generic
// error template.
func (r *Router) formatError(ctx context.Context, keyword string, err error) string {
	var provErr *providers.Error
	if errors.As(err, &provErr) {
		r.log.WarnContext(ctx, "Command failed with provider error",
			"command", keyword, "kind", provErr.Kind, "error", err)
		return provErr.UserMessage()
	}

	r.log.ErrorContext(ctx, "Command failed", "command", keyword, "error", err)
	return ErrorReply(err)
}

// ErrorReply renders the generic error template shown for unexpected failures.
func ErrorReply(err error) string {
	return fmt.Sprintf("❌ 發生錯誤\n%s\n錯誤描述: %v\n請稍後再試。\n%s",
		strings.Repeat("=", 20), err, strings.Repeat("=", 20))
}
