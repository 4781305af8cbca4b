// Package server exposes the webhook HTTP surface: the LINE callback
// endpoint plus a connectivity probe, with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/ycshao/lineassist/internal/bot"
	"github.com/ycshao/lineassist/internal/line"
	"github.com/ycshao/lineassist/internal/logger"
)

const shutdownTimeout = 10 * time.Second

// Replier sends reply text back through the messaging platform.
type Replier interface {
	ReplyMessage(ctx context.Context, replyToken, text string) error
}

// Server handles inbound webhook deliveries and replies to each contained
// text-message event.
type Server struct {
	addr          string
	channelSecret string
	router        *bot.Router
	replier       Replier
	engine        *gin.Engine
	log           *slog.Logger
}

// New creates the webhook server. channelSecret verifies delivery signatures;
// every parsed text-message event is dispatched through router and answered
// via replier.
func New(addr, channelSecret string, router *bot.Router, replier Replier, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}

	s := &Server{
		addr:          addr,
		channelSecret: channelSecret,
		router:        router,
		replier:       replier,
		log:           log.With("component", "server"),
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(logger.Middleware(s.log), gin.Recovery())
	engine.GET("/callback", s.handleProbe)
	engine.POST("/callback", s.handleWebhook)
	s.engine = engine

	return s
}

// Engine returns the underlying gin engine, used by tests to drive requests
// without a listener.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// handleProbe confirms the endpoint is reachable.
func (s *Server) handleProbe(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "連接成功"})
}

// handleWebhook verifies and processes one webhook delivery. Signature
// failures are rejected with 403 and malformed payloads with 400; reply
// failures are logged but never fail the delivery, so each event is handled
// at most once.
func (s *Server) handleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	events, err := line.ParseRequest(s.channelSecret, c.Request)
	if err != nil {
		if errors.Is(err, line.ErrInvalidSignature) {
			s.log.WarnContext(ctx, "Rejected webhook with invalid signature", "client_ip", c.ClientIP())
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid signature"})
			return
		}
		s.log.WarnContext(ctx, "Rejected malformed webhook payload", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook payload"})
		return
	}

	for _, event := range events {
		if !event.IsTextMessage() {
			s.log.DebugContext(ctx, "Skipping non-text event", "type", event.Type)
			continue
		}

		reply := s.router.Dispatch(ctx, event.Message.Text, event.Source.UserID)
		if err := s.replier.ReplyMessage(ctx, event.ReplyToken, reply); err != nil {
			s.log.ErrorContext(ctx, "Failed to send reply", "error", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"result": "ok"})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("Starting webhook server", "addr", s.addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("webhook server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		s.log.Info("Shutting down webhook server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("webhook server shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}
