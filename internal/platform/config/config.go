package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultLookupEndpoint is the upstream account-name lookup used when
// LOOKUP_ENDPOINT is unset.
const DefaultLookupEndpoint = "https://api.vietqr.io/v2/lookup"

// Server captures process-level configuration. Every field has a default so
// the service starts with no environment at all: the primary lookup is still
// attempted without credentials and fails over to the offline tiers, and
// usage counters stay in memory.
type Server struct {
	Addr            string
	LogFormat       string
	LogLevel        string
	ShutdownTimeout time.Duration

	Lookup    Lookup
	Simulated Simulated
	Redis     RedisConfig
	Usage     Usage
	Kafka     Kafka
	QR        QR
	Tracing   Tracing
}

// Lookup configures the authoritative name lookup. Empty credentials are
// sent as-is.
type Lookup struct {
	Endpoint         string
	ClientID         string
	APIKey           string
	Timeout          time.Duration
	BreakerThreshold int
	BreakerCooldown  time.Duration
}

// Simulated bounds the artificial latency of the simulated tier.
type Simulated struct {
	MinDelay time.Duration
	MaxDelay time.Duration
}

// RedisConfig configures the shared usage counter store. An empty URL keeps
// counters in memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Usage struct {
	Retention time.Duration
	Buffer    int
}

// Kafka configures the usage event stream. No brokers disables publishing.
type Kafka struct {
	Brokers []string
	Topic   string
}

type QR struct {
	ImageSize int
}

// Tracing sets the fraction of root traces sampled, 0 to 1.
type Tracing struct {
	SampleRatio float64
}

// FromEnv builds a Server config from environment variables so main stays lean.
// Malformed numbers and durations fall back to their defaults.
func FromEnv() Server {
	return Server{
		Addr:            getEnv("BANKQR_ADDR", ":8080"),
		LogFormat:       getEnv("BANKQR_LOG_FORMAT", "json"),
		LogLevel:        getEnv("BANKQR_LOG_LEVEL", "info"),
		ShutdownTimeout: getDuration("BANKQR_SHUTDOWN_TIMEOUT", 10*time.Second),
		Lookup: Lookup{
			Endpoint:         getEnv("LOOKUP_ENDPOINT", DefaultLookupEndpoint),
			ClientID:         getEnv("LOOKUP_CLIENT_ID", ""),
			APIKey:           getEnv("LOOKUP_API_KEY", ""),
			Timeout:          getDuration("LOOKUP_TIMEOUT", 8*time.Second),
			BreakerThreshold: getInt("LOOKUP_BREAKER_THRESHOLD", 5),
			BreakerCooldown:  getDuration("LOOKUP_BREAKER_COOLDOWN", 30*time.Second),
		},
		Simulated: Simulated{
			MinDelay: getDuration("SIMULATED_MIN_DELAY", 200*time.Millisecond),
			MaxDelay: getDuration("SIMULATED_MAX_DELAY", 800*time.Millisecond),
		},
		Redis: RedisConfig{
			URL:          getEnv("REDIS_URL", ""),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Usage: Usage{
			Retention: getDuration("USAGE_RETENTION", 90*24*time.Hour),
			Buffer:    getInt("USAGE_BUFFER", 1024),
		},
		Kafka: Kafka{
			Brokers: getList("KAFKA_BROKERS"),
			Topic:   getEnv("KAFKA_USAGE_TOPIC", "bankqr.usage"),
		},
		QR: QR{
			ImageSize: getInt("QR_IMAGE_SIZE", 320),
		},
		Tracing: Tracing{
			SampleRatio: getRatio("TRACE_SAMPLE_RATIO", 1),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func getRatio(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 || f > 1 {
		return fallback
	}
	return f
}

func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
