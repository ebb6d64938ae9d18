package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dashboard/main_data.csv", cfg.Dataset.CSVPath)
	assert.Equal(t, "order_lines", cfg.Dataset.PostgresTable)
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "rfm-segments", cfg.Kafka.SegmentsTopic)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DATASET_CSV_PATH", "/data/export.csv")
	t.Setenv("SERVER_ADDR", ":8080")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/export.csv", cfg.Dataset.CSVPath)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "debug", cfg.LogLevel)
}
