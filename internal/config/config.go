package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr    string
	ServiceName string

	PresenceWindow    time.Duration
	HeartbeatCadence  time.Duration
	PresenceRetention time.Duration
	SweepInterval     time.Duration
	NudgeCooldown     time.Duration

	PresenceBackend string // "memory" or "redis"
	RedisAddr       string

	EventsEnabled bool
	KafkaBrokers  string
	KafkaTopic    string

	RateLimitRequests int
	RateLimitWindow   string

	MetricsEnabled bool
	TracingEnabled bool
	JaegerURL      string
}

func Load() *Config {
	// Optional local overrides; absence is not an error.
	_ = godotenv.Load()

	return &Config{
		HTTPAddr:    fixPort(getEnv("HTTP_ADDR", ":8080")),
		ServiceName: getEnv("SERVICE_NAME", "caseline"),

		PresenceWindow:    getEnvDuration("PRESENCE_WINDOW", 35*time.Second),
		HeartbeatCadence:  getEnvDuration("HEARTBEAT_CADENCE", 30*time.Second),
		PresenceRetention: getEnvDuration("PRESENCE_RETENTION", 24*time.Hour),
		SweepInterval:     getEnvDuration("SWEEP_INTERVAL", time.Hour),
		NudgeCooldown:     getEnvDuration("NUDGE_COOLDOWN", 10*time.Second),

		PresenceBackend: getEnv("PRESENCE_BACKEND", "memory"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),

		EventsEnabled: getEnvBool("EVENTS_ENABLED", false),
		KafkaBrokers:  getEnv("KAFKA_BROKERS", "localhost:9092"),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "caseline-events"),

		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 300),
		RateLimitWindow:   getEnv("RATE_LIMIT_WINDOW", "1m"),

		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
		JaegerURL:      getEnv("JAEGER_URL", "http://localhost:14268/api/traces"),
	}
}

func fixPort(port string) string {
	if port != "" && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v == "true"
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for env %s: %q", key, v)
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("invalid duration for env %s: %q", key, v)
	}
	return d
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
