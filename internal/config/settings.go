package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/llm"
	"github.com/Veraticus/spendwise/internal/server"
	"github.com/Veraticus/spendwise/internal/storage"
)

// EnvPrefix is prepended to every environment override, e.g. SPENDWISE_SERVER_ADDR.
const EnvPrefix = "SPENDWISE"

// DefaultDatabasePath is where the SQLite file lives unless configured.
const DefaultDatabasePath = "~/.local/share/spendwise/spendwise.db"

// SetDefaults registers every key with its default so that environment
// overrides resolve through viper.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("database.url", "")

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.endpoint", "")
	v.SetDefault("llm.classification_models", llm.DefaultClassificationModels())
	v.SetDefault("llm.chat_models", llm.DefaultChatModels())
	v.SetDefault("llm.request_timeout", llm.DefaultRequestTimeout)
	v.SetDefault("llm.rate_limit", 60)
	v.SetDefault("llm.cache_ttl", 24*time.Hour)

	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.posts_per_minute", 60)
	v.SetDefault("server.trusted_proxies", []string{})

	v.SetDefault("events.amqp_url", "")
	v.SetDefault("events.exchange", "spendwise")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// LoadStorageConfig reads the database section.
func LoadStorageConfig(v *viper.Viper) (storage.Config, error) {
	cfg := storage.Config{
		Driver: strings.ToLower(v.GetString("database.driver")),
		Path:   ExpandPath(v.GetString("database.path")),
		URL:    v.GetString("database.url"),
	}
	if cfg.URL == "" {
		cfg.URL = os.Getenv("DATABASE_URL")
	}

	switch cfg.Driver {
	case "", "sqlite", "sqlite3":
		if cfg.Path == "" {
			cfg.Path = ExpandPath(DefaultDatabasePath)
		}
	case "postgres", "postgresql", "pgx":
		if cfg.URL == "" {
			return cfg, fmt.Errorf("%w: database.url is required for %s", common.ErrMissingConfig, cfg.Driver)
		}
	default:
		return cfg, fmt.Errorf("%w: database.driver %q", common.ErrInvalidConfig, cfg.Driver)
	}
	return cfg, nil
}

// LLMSettings groups everything needed to build the generator chain.
type LLMSettings struct {
	Provider  llm.ProviderConfig
	Models    llm.Config
	RateLimit int
}

// LoadLLMConfig reads the llm section. GEMINI_API_KEY is used when
// llm.api_key is unset.
func LoadLLMConfig(v *viper.Viper) (LLMSettings, error) {
	s := LLMSettings{
		Provider: llm.ProviderConfig{
			Provider: strings.ToLower(v.GetString("llm.provider")),
			APIKey:   v.GetString("llm.api_key"),
			Endpoint: v.GetString("llm.endpoint"),
		},
		Models:    loadModelConfig(v),
		RateLimit: v.GetInt("llm.rate_limit"),
	}
	if s.Provider.APIKey == "" {
		s.Provider.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if s.RateLimit < 0 {
		return s, fmt.Errorf("%w: llm.rate_limit must not be negative", common.ErrInvalidConfig)
	}
	if len(s.Models.ClassificationModels) == 0 || len(s.Models.ChatModels) == 0 {
		return s, fmt.Errorf("%w: model lists must not be empty", common.ErrInvalidConfig)
	}
	return s, nil
}

func loadModelConfig(v *viper.Viper) llm.Config {
	return llm.Config{
		ClassificationModels: v.GetStringSlice("llm.classification_models"),
		ChatModels:           v.GetStringSlice("llm.chat_models"),
		RequestTimeout:       v.GetDuration("llm.request_timeout"),
		CacheTTL:             v.GetDuration("llm.cache_ttl"),
	}
}

// LoadServerConfig reads the server section. The write timeout follows the
// llm section so a reply that walks every model still reaches the client.
func LoadServerConfig(v *viper.Viper) server.Config {
	return server.Config{
		Addr:           v.GetString("server.addr"),
		AllowedOrigins: v.GetStringSlice("server.allowed_origins"),
		PostsPerMinute: v.GetInt("server.posts_per_minute"),
		TrustedProxies: v.GetStringSlice("server.trusted_proxies"),
		WriteTimeout:   server.WriteTimeoutFor(loadModelConfig(v)),
	}
}

// EventsSettings locates the message broker. An empty URL disables events.
type EventsSettings struct {
	AMQPURL  string
	Exchange string
}

// LoadEventsConfig reads the events section.
func LoadEventsConfig(v *viper.Viper) EventsSettings {
	return EventsSettings{
		AMQPURL:  v.GetString("events.amqp_url"),
		Exchange: v.GetString("events.exchange"),
	}
}
