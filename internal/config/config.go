// README: Config loader with env defaults for HTTP, DB, Redis, Kafka, and pricing settings.
package config

import (
	"os"
	"strconv"
	"strings"
)

type NegotiationConfig struct {
	MaxRounds int
}

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		DSN string
	}
	Redis struct {
		Addr string
	}
	Kafka struct {
		Brokers []string
		Topic   string
	}
	Maps struct {
		APIKey string
	}
	Negotiation NegotiationConfig
	LogLevel    string
}

func Load() (Config, error) {
	var cfg Config
	cfg.HTTP.Addr = envOrDefault("MEDRIDE_HTTP_ADDR", ":8080")
	cfg.DB.DSN = os.Getenv("MEDRIDE_DB_DSN")
	cfg.Redis.Addr = envOrDefault("MEDRIDE_REDIS_ADDR", "localhost:6379")
	cfg.Kafka.Brokers = splitList(envOrDefault("MEDRIDE_KAFKA_BROKERS", "localhost:9092"))
	cfg.Kafka.Topic = envOrDefault("MEDRIDE_KAFKA_TOPIC", "medride.dispatch")
	cfg.Maps.APIKey = os.Getenv("MEDRIDE_MAPS_API_KEY")
	cfg.Negotiation.MaxRounds = envOrDefaultInt("MEDRIDE_MAX_ROUNDS", 3)
	cfg.LogLevel = envOrDefault("MEDRIDE_LOG_LEVEL", "info")
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
