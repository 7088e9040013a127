package cmd_test

import (
	"log/slog"
	"testing"
	"time"

	"fulfillment/cmd"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requiredSettings() map[string]any {
	return map[string]any{
		"SHOPIFY_SHOP_URL":     "atelier.myshopify.com",
		"SHOPIFY_ACCESS_TOKEN": "shpat_x",
		"CARRIER_BASE_URL":     "https://carrier.example",
		"CARRIER_EMAIL":        "ops@atelier.example",
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg, err := cmd.ConfigFromMapForTest(requiredSettings())

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "Africa/Cairo", cfg.Location.String())
	assert.Equal(t, 2, cfg.EscalationThresholdDays)
	assert.Equal(t, 7, cfg.CarrierWindowDays)
	assert.Equal(t, 4, cfg.JobConcurrency)
	assert.Equal(t, 7*24*time.Hour, cfg.ConfirmationTTL)
	assert.Equal(t, cmd.CorrelationStoreMemory, cfg.CorrelationStore)
	assert.False(t, cfg.StatusLogEnabled)
	assert.Equal(t, "*/30 * * * *", cfg.EscalationCron)
	assert.Equal(t, "0 * * * *", cfg.CarrierCron)
	assert.Equal(t, 30*time.Second, cfg.Shopify.Timeout)
	assert.Empty(t, cfg.ConfirmationPayloads)
}

func TestConfig_Overrides(t *testing.T) {
	values := requiredSettings()
	values["LOG_LEVEL"] = "debug"
	values["TIMEZONE"] = "UTC"
	values["CORRELATION_STORE"] = "Redis"
	values["REDIS_URL"] = "redis://cache:6379/1"
	values["CONFIRMATION_TTL"] = "48h"
	values["CONFIRMATION_PAYLOADS"] = "confirm, yes ,,"

	cfg, err := cmd.ConfigFromMapForTest(values)

	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, cmd.CorrelationStoreRedis, cfg.CorrelationStore)
	assert.Equal(t, "redis://cache:6379/1", cfg.Redis.URL)
	assert.Equal(t, 48*time.Hour, cfg.ConfirmationTTL)
	assert.Equal(t, []string{"confirm", "yes"}, cfg.ConfirmationPayloads)
}

func TestConfig_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		override map[string]any
		contains string
	}{
		{name: "missing shop", override: map[string]any{"SHOPIFY_SHOP_URL": ""}, contains: "SHOPIFY_SHOP_URL"},
		{name: "bad store", override: map[string]any{"CORRELATION_STORE": "etcd"}, contains: "CORRELATION_STORE"},
		{name: "bad threshold", override: map[string]any{"ESCALATION_THRESHOLD_DAYS": 0}, contains: "ESCALATION_THRESHOLD_DAYS"},
		{name: "bad timezone", override: map[string]any{"TIMEZONE": "Mars/Olympus"}, contains: "TIMEZONE"},
		{name: "bad level", override: map[string]any{"LOG_LEVEL": "loud"}, contains: "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := requiredSettings()
			for k, v := range tt.override {
				values[k] = v
			}

			_, err := cmd.ConfigFromMapForTest(values)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}
