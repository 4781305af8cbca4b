// Package config provides configuration loading, validation, and management
// for the lineassist application. It handles reading from YAML files,
// setting default values, and validating configuration parameters.
package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config defines the application configuration parameters for all components
// of the bot: logging, HTTP server, LINE channel credentials, the SQLite
// database, and the five external data providers.
type Config struct {
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`
	LogJSON  bool   `koanf:"log_json"`

	ServerAddr string `koanf:"server_addr" validate:"required"`

	LineChannelSecret string `koanf:"line_channel_secret" validate:"required"`
	LineChannelToken  string `koanf:"line_channel_token"  validate:"required"`
	LineAPIBaseURL    string `koanf:"line_api_base_url"   validate:"url"`

	DBPath string `koanf:"db_path"`

	// Provider credentials. Bitly, the CWA, and NewsAPI require a token;
	// the TWSE endpoints are public and rter.info is unauthenticated.
	BitlyToken string `koanf:"bitly_token"  validate:"required"`
	CWAToken   string `koanf:"cwa_token"    validate:"required"`
	NewsAPIKey string `koanf:"news_api_key" validate:"required"`

	BitlyURL    string `koanf:"bitly_url"    validate:"url"`
	CurrencyURL string `koanf:"currency_url" validate:"url"`
	CWAURL      string `koanf:"cwa_url"      validate:"url"`
	TWSEURL     string `koanf:"twse_url"     validate:"url"`
	NewsURL     string `koanf:"news_url"     validate:"url"`

	ProviderTimeout time.Duration `koanf:"provider_timeout" validate:"min=1s,max=1m"`
}

// Load reads configuration from the given YAML file, applies default values
// for optional fields, and validates the result. A missing file is not an
// error; defaults are used and only the required credential fields will fail
// validation if left unset.
func Load(path string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if !os.IsNotExist(err) {
			slog.Error("failed to load configuration file", "error", err, "path", path)
			return nil, err
		}
		slog.Info("configuration file not found, using defaults", "path", path)
	} else {
		if err := k.Unmarshal("", config); err != nil {
			slog.Error("failed to parse configuration", "error", err, "path", path)
			return nil, err
		}
	}

	if err := validator.New().Struct(config); err != nil {
		slog.Error("configuration validation failed", "error", err)
		return nil, err
	}

	slog.Info("configuration loaded",
		"log_level", config.LogLevel,
		"server_addr", config.ServerAddr,
		"db_path", config.DBPath,
		"provider_timeout", config.ProviderTimeout)

	return config, nil
}

func setDefaults(config *Config) {
	config.LogLevel = "info"
	config.LogJSON = false

	config.ServerAddr = ":8080"
	config.DBPath = "storage.db"

	config.LineAPIBaseURL = "https://api.line.me"
	config.BitlyURL = "https://api-ssl.bitly.com/v4"
	config.CurrencyURL = "https://tw.rter.info/capi.php"
	config.CWAURL = "https://opendata.cwa.gov.tw/api/v1/rest/datastore"
	config.TWSEURL = "https://openapi.twse.com.tw/v1"
	config.NewsURL = "https://newsapi.org/v2"

	config.ProviderTimeout = 5 * time.Second
}
