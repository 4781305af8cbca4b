// Package main contains the entrypoint for the LINE assistant bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ycshao/lineassist/internal/bot"
	"github.com/ycshao/lineassist/internal/config"
	"github.com/ycshao/lineassist/internal/database"
	"github.com/ycshao/lineassist/internal/line"
	"github.com/ycshao/lineassist/internal/logger"
	"github.com/ycshao/lineassist/internal/providers"
	"github.com/ycshao/lineassist/internal/server"
	"github.com/ycshao/lineassist/internal/todo"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes all application components (config, logger, db, LINE
// client, provider clients, dispatcher, HTTP server), handles graceful
// shutdown, and returns an exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.LogLevel, cfg.LogJSON)
	log.Info("Logger initialized", "level", cfg.LogLevel, "json", cfg.LogJSON)

	db, err := database.NewDB(cfg.DBPath)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.DBPath, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	lineClient, err := line.NewClient(cfg.LineAPIBaseURL, cfg.LineChannelToken, cfg.ProviderTimeout, log)
	if err != nil {
		log.Error("Failed to create LINE client", "error", err)
		return 1
	}

	deps := bot.Deps{
		Logger:    log,
		Shortener: providers.NewShortener(providers.ShortenerConfig{BaseURL: cfg.BitlyURL, Token: cfg.BitlyToken, Timeout: cfg.ProviderTimeout}, log),
		Currency:  providers.NewCurrency(providers.CurrencyConfig{URL: cfg.CurrencyURL, Timeout: cfg.ProviderTimeout}, log),
		Weather:   providers.NewWeather(providers.WeatherConfig{BaseURL: cfg.CWAURL, Token: cfg.CWAToken, Timeout: cfg.ProviderTimeout}, log),
		Stock:     providers.NewStock(providers.StockConfig{BaseURL: cfg.TWSEURL, Timeout: cfg.ProviderTimeout}, log),
		News:      providers.NewNews(providers.NewsConfig{BaseURL: cfg.NewsURL, APIKey: cfg.NewsAPIKey, Timeout: cfg.ProviderTimeout}, log),
		Todos:     todo.NewManager(store, log),
	}
	router := bot.RegisterAllCommands(deps)

	srv := server.New(cfg.ServerAddr, cfg.LineChannelSecret, router, lineClient, log)

	log.Info("Starting bot...")
	runErr := srv.Run(ctx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	return 0
}
