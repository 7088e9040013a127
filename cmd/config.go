package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata"

	"fulfillment/internal/adapters/out/carrier"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/redisstore"
	"fulfillment/internal/adapters/out/shopify"
	"fulfillment/internal/adapters/out/whatsapp"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	CorrelationStoreRedis  = "redis"
	CorrelationStoreMemory = "memory"
)

type Config struct {
	HTTPPort string
	LogLevel slog.Level
	Location *time.Location

	Shopify  shopify.Config
	Carrier  carrier.Config
	WhatsApp whatsapp.Config
	Redis    redisstore.Config
	DB       postgres.Config

	WebhookVerifyToken string
	WebhookAppSecret   string

	EscalationCron          string
	CarrierCron             string
	EscalationThresholdDays int
	CarrierWindowDays       int
	CarrierMaxWindowDays    int
	JobConcurrency          int

	ConfirmationTemplate string
	ConfirmationLanguage string
	ConfirmationTTL      time.Duration
	// ConfirmationPayloads lists the button payloads that confirm an order.
	// Empty means every reply confirms.
	ConfirmationPayloads []string

	CorrelationStore string
	StatusLogEnabled bool
	NotifyBuffer     int
}

// LoadConfig reads .env when present, then the process environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return configFrom(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TIMEZONE", "Africa/Cairo")

	v.SetDefault("SHOPIFY_API_VERSION", "2024-10")
	v.SetDefault("SHOPIFY_PAGE_SIZE", 250)
	v.SetDefault("SHOPIFY_REQUESTS_PER_SECOND", 2)
	v.SetDefault("SHOPIFY_TIMEOUT", "30s")

	v.SetDefault("CARRIER_REQUESTS_PER_SECOND", 5)
	v.SetDefault("CARRIER_TIMEOUT", "30s")

	v.SetDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com")
	v.SetDefault("WHATSAPP_API_VERSION", "v21.0")
	v.SetDefault("WHATSAPP_COUNTRY_CODE", "20")
	v.SetDefault("WHATSAPP_TIMEOUT", "15s")

	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "fulfillment")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("ESCALATION_CRON", "*/30 * * * *")
	v.SetDefault("CARRIER_CRON", "0 * * * *")
	v.SetDefault("ESCALATION_THRESHOLD_DAYS", 2)
	v.SetDefault("CARRIER_WINDOW_DAYS", 7)
	v.SetDefault("CARRIER_MAX_WINDOW_DAYS", 60)
	v.SetDefault("JOB_CONCURRENCY", 4)

	v.SetDefault("CONFIRMATION_TEMPLATE", "order_ready_confirmation")
	v.SetDefault("CONFIRMATION_LANGUAGE", "ar")
	v.SetDefault("CONFIRMATION_TTL", "168h")
	v.SetDefault("CONFIRMATION_PAYLOADS", "")

	v.SetDefault("CORRELATION_STORE", CorrelationStoreMemory)
	v.SetDefault("STATUS_LOG_ENABLED", false)
	v.SetDefault("NOTIFY_BUFFER", 256)
}

func configFrom(v *viper.Viper) (Config, error) {
	loc, err := time.LoadLocation(v.GetString("TIMEZONE"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	var level slog.Level
	if err = level.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	cfg := Config{
		HTTPPort: v.GetString("HTTP_PORT"),
		LogLevel: level,
		Location: loc,
		Shopify: shopify.Config{
			ShopURL:           v.GetString("SHOPIFY_SHOP_URL"),
			AccessToken:       v.GetString("SHOPIFY_ACCESS_TOKEN"),
			APIVersion:        v.GetString("SHOPIFY_API_VERSION"),
			PageSize:          v.GetInt("SHOPIFY_PAGE_SIZE"),
			RequestsPerSecond: v.GetFloat64("SHOPIFY_REQUESTS_PER_SECOND"),
			Timeout:           v.GetDuration("SHOPIFY_TIMEOUT"),
		},
		Carrier: carrier.Config{
			BaseURL:           v.GetString("CARRIER_BASE_URL"),
			Email:             v.GetString("CARRIER_EMAIL"),
			Password:          v.GetString("CARRIER_PASSWORD"),
			RequestsPerSecond: v.GetFloat64("CARRIER_REQUESTS_PER_SECOND"),
			Timeout:           v.GetDuration("CARRIER_TIMEOUT"),
		},
		WhatsApp: whatsapp.Config{
			BaseURL:       v.GetString("WHATSAPP_BASE_URL"),
			APIVersion:    v.GetString("WHATSAPP_API_VERSION"),
			PhoneNumberID: v.GetString("WHATSAPP_PHONE_NUMBER_ID"),
			AccessToken:   v.GetString("WHATSAPP_ACCESS_TOKEN"),
			CountryCode:   v.GetString("WHATSAPP_COUNTRY_CODE"),
			Timeout:       v.GetDuration("WHATSAPP_TIMEOUT"),
		},
		Redis: redisstore.Config{
			URL:      v.GetString("REDIS_URL"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		DB: postgres.Config{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		WebhookVerifyToken:      v.GetString("WHATSAPP_VERIFY_TOKEN"),
		WebhookAppSecret:        v.GetString("WHATSAPP_APP_SECRET"),
		EscalationCron:          v.GetString("ESCALATION_CRON"),
		CarrierCron:             v.GetString("CARRIER_CRON"),
		EscalationThresholdDays: v.GetInt("ESCALATION_THRESHOLD_DAYS"),
		CarrierWindowDays:       v.GetInt("CARRIER_WINDOW_DAYS"),
		CarrierMaxWindowDays:    v.GetInt("CARRIER_MAX_WINDOW_DAYS"),
		JobConcurrency:          v.GetInt("JOB_CONCURRENCY"),
		ConfirmationTemplate:    v.GetString("CONFIRMATION_TEMPLATE"),
		ConfirmationLanguage:    v.GetString("CONFIRMATION_LANGUAGE"),
		ConfirmationTTL:         v.GetDuration("CONFIRMATION_TTL"),
		ConfirmationPayloads:    splitList(v.GetString("CONFIRMATION_PAYLOADS")),
		CorrelationStore:        strings.ToLower(v.GetString("CORRELATION_STORE")),
		StatusLogEnabled:        v.GetBool("STATUS_LOG_ENABLED"),
		NotifyBuffer:            v.GetInt("NOTIFY_BUFFER"),
	}
	return cfg, cfg.Validate()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks the settings every command needs.
func (c Config) Validate() error {
	var problems []error
	if c.Shopify.ShopURL == "" || c.Shopify.AccessToken == "" {
		problems = append(problems, errors.New("SHOPIFY_SHOP_URL and SHOPIFY_ACCESS_TOKEN are required"))
	}
	if c.Carrier.BaseURL == "" || c.Carrier.Email == "" {
		problems = append(problems, errors.New("CARRIER_BASE_URL and CARRIER_EMAIL are required"))
	}
	if c.EscalationThresholdDays < 1 {
		problems = append(problems, fmt.Errorf("ESCALATION_THRESHOLD_DAYS must be positive, got %d", c.EscalationThresholdDays))
	}
	if c.JobConcurrency < 1 {
		problems = append(problems, fmt.Errorf("JOB_CONCURRENCY must be positive, got %d", c.JobConcurrency))
	}
	if c.ConfirmationTTL <= 0 {
		problems = append(problems, errors.New("CONFIRMATION_TTL must be positive"))
	}
	switch c.CorrelationStore {
	case CorrelationStoreRedis, CorrelationStoreMemory:
	default:
		problems = append(problems, fmt.Errorf("CORRELATION_STORE must be %q or %q, got %q",
			CorrelationStoreRedis, CorrelationStoreMemory, c.CorrelationStore))
	}
	return errors.Join(problems...)
}
