package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Dataset  DatasetConfig `yaml:"dataset"`
	Server   ServerConfig  `yaml:"server"`
	Kafka    KafkaConfig   `yaml:"kafka"`
	LogLevel string        `yaml:"log_level"`
}

type DatasetConfig struct {
	// CSVPath is the flattened dataset export read at startup.
	CSVPath string `yaml:"csv_path"`
	// PostgresURL switches the source to a warehouse table when set.
	PostgresURL   string `yaml:"postgres_url"`
	PostgresTable string `yaml:"postgres_table"`
	ShowProgress  bool   `yaml:"show_progress"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type KafkaConfig struct {
	// Empty brokers disable the segment snapshot publisher.
	Brokers       []string `yaml:"brokers"`
	SegmentsTopic string   `yaml:"segments_topic"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Dataset: DatasetConfig{
			CSVPath:       "dashboard/main_data.csv",
			PostgresTable: "order_lines",
			ShowProgress:  true,
		},
		Server: ServerConfig{
			Addr: ":3000",
		},
		Kafka: KafkaConfig{
			SegmentsTopic: "rfm-segments",
		},
		LogLevel: "info",
	}

	// Load from YAML if exists
	if data, err := os.ReadFile("config.yaml"); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	// Override from environment
	if v := os.Getenv("DATASET_CSV_PATH"); v != "" {
		cfg.Dataset.CSVPath = v
	}
	if v := os.Getenv("DATASET_POSTGRES_URL"); v != "" {
		cfg.Dataset.PostgresURL = v
	}
	if v := os.Getenv("DATASET_POSTGRES_TABLE"); v != "" {
		cfg.Dataset.PostgresTable = v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_SEGMENTS_TOPIC"); v != "" {
		cfg.Kafka.SegmentsTopic = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	return cfg, nil
}
