// Package config loads application settings from the environment
// (populated from the .env file in main.go).
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	App   AppConfig
	Store StoreConfig
	DB    DBConfig
	Log   LogConfig
}

type AppConfig struct {
	MaxThreads int
}

// StoreConfig describes the WooCommerce REST API.
type StoreConfig struct {
	URL               string
	ConsumerKey       string
	ConsumerSecret    string
	APIVersion        string
	Timeout           time.Duration
	QueryStringAuth   bool
	RequestsPerSecond float64
}

type DBConfig struct {
	MongoURI           string
	Name               string
	OrderCollection    string
	CustomerCollection string
	ProductCollection  string
	// RunCollection receives one document per pipeline run; empty disables it.
	RunCollection string
}

type LogConfig struct {
	Level  string
	Format string
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("MAX_THREADS", 10)
	v.SetDefault("WC_API_VERSION", "wc/v3")
	v.SetDefault("WC_TIMEOUT", "120s")
	v.SetDefault("WC_QUERY_STRING_AUTH", false)
	v.SetDefault("WC_REQUESTS_PER_SECOND", 0)
	v.SetDefault("ORDER_COLLECTION", "orders")
	v.SetDefault("CUSTOMER_COLLECTION", "vendors")
	v.SetDefault("PRODUCT_COLLECTION", "products")
	v.SetDefault("RUN_COLLECTION", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	// Credentials keep the lowercase names of existing .env files.
	_ = v.BindEnv("consumer_key", "consumer_key", "CONSUMER_KEY")
	_ = v.BindEnv("consumer_secret", "consumer_secret", "CONSUMER_SECRET")
	return v
}

// LoadConfig reads the environment and validates required settings.
func LoadConfig() (*Config, error) {
	v := newViper()

	cfg := &Config{
		App: AppConfig{
			MaxThreads: v.GetInt("MAX_THREADS"),
		},
		Store: StoreConfig{
			URL:               strings.TrimRight(v.GetString("SITE"), "/"),
			ConsumerKey:       v.GetString("consumer_key"),
			ConsumerSecret:    v.GetString("consumer_secret"),
			APIVersion:        v.GetString("WC_API_VERSION"),
			Timeout:           v.GetDuration("WC_TIMEOUT"),
			QueryStringAuth:   v.GetBool("WC_QUERY_STRING_AUTH"),
			RequestsPerSecond: v.GetFloat64("WC_REQUESTS_PER_SECOND"),
		},
		DB: DBConfig{
			MongoURI:           v.GetString("MONGO_URI"),
			Name:               v.GetString("MONGO_DB"),
			OrderCollection:    v.GetString("ORDER_COLLECTION"),
			CustomerCollection: v.GetString("CUSTOMER_COLLECTION"),
			ProductCollection:  v.GetString("PRODUCT_COLLECTION"),
			RunCollection:      v.GetString("RUN_COLLECTION"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	if cfg.App.MaxThreads <= 0 {
		cfg.App.MaxThreads = 10
	}
	if cfg.Store.Timeout <= 0 {
		cfg.Store.Timeout = 120 * time.Second
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first missing required setting.
func (c *Config) Validate() error {
	switch {
	case c.Store.URL == "":
		return errors.New("SITE environment variable not set")
	case c.Store.ConsumerKey == "":
		return errors.New("consumer_key environment variable not set")
	case c.Store.ConsumerSecret == "":
		return errors.New("consumer_secret environment variable not set")
	case c.DB.MongoURI == "":
		return errors.New("MONGO_URI environment variable not set")
	case c.DB.Name == "":
		return errors.New("MONGO_DB environment variable not set")
	}
	return nil
}
