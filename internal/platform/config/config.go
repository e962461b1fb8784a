package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	pkgstrings "wasl/pkg/platform/strings"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	LogLevel      string
	LogFormat     string
	// OperatorRoles limits which token roles may call the API. Empty allows any.
	OperatorRoles []string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	DatabaseURL string
	Redis       RedisConfig
	Kafka       KafkaConfig
	Lifecycle   LifecycleConfig
}

type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// SentinelMaster switches to Sentinel failover; URL then names a sentinel.
	SentinelMaster string
}

type KafkaConfig struct {
	Brokers            []string
	Topic              string
	Partitions         int32
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
}

// Enabled reports whether a broker list was configured.
func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

type LifecycleConfig struct {
	AttendanceThreshold decimal.Decimal
	MaxCallAttempts     int
	TransitionLockTTL   time.Duration
}

const devSigningKey = "dev-secret-key-change-in-production"

// FromEnv loads an optional .env file, then reads the environment so main
// stays lean. Malformed numeric values are errors; missing ones take defaults.
func FromEnv() (Server, error) {
	_ = godotenv.Load()

	cfg := Server{
		Addr:          getEnv("WASL_ADDR", ":8080"),
		JWTSigningKey: getEnv("JWT_SIGNING_KEY", devSigningKey),
		JWTIssuer:     getEnv("JWT_ISSUER", "wasl"),
		JWTAudience:   getEnv("JWT_AUDIENCE", "wasl-operators"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		OperatorRoles: splitList(os.Getenv("OPERATOR_ROLES")),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:            os.Getenv("REDIS_URL"),
			SentinelMaster: os.Getenv("REDIS_SENTINEL_MASTER"),
			PoolSize:       10,
			MinIdleConns:   2,
			DialTimeout:    5 * time.Second,
			ReadTimeout:    3 * time.Second,
			WriteTimeout:   3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:    splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:      getEnv("KAFKA_TOPIC", "wasl.lifecycle"),
			Partitions: 3,
		},
	}

	var err error
	if cfg.ReadTimeout, err = durationEnv("HTTP_READ_TIMEOUT", 30*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.WriteTimeout, err = durationEnv("HTTP_WRITE_TIMEOUT", 60*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.ShutdownTimeout, err = durationEnv("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Kafka.OutboxPollInterval, err = durationEnv("OUTBOX_POLL_INTERVAL", time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Kafka.OutboxBatchSize, err = intEnv("OUTBOX_BATCH_SIZE", 100); err != nil {
		return Server{}, err
	}
	if cfg.Lifecycle.MaxCallAttempts, err = intEnv("MAX_CALL_ATTEMPTS", 3); err != nil {
		return Server{}, err
	}
	if cfg.Lifecycle.TransitionLockTTL, err = durationEnv("TRANSITION_LOCK_TTL", 10*time.Second); err != nil {
		return Server{}, err
	}
	threshold := getEnv("ATTENDANCE_THRESHOLD", "90")
	if cfg.Lifecycle.AttendanceThreshold, err = decimal.NewFromString(threshold); err != nil {
		return Server{}, fmt.Errorf("ATTENDANCE_THRESHOLD: %w", err)
	}
	if cfg.Lifecycle.AttendanceThreshold.IsNegative() || cfg.Lifecycle.AttendanceThreshold.GreaterThan(decimal.NewFromInt(100)) {
		return Server{}, fmt.Errorf("ATTENDANCE_THRESHOLD must be between 0 and 100, got %s", threshold)
	}
	return cfg, nil
}

// UsesDevSigningKey warns main when the placeholder key is in use.
func (s Server) UsesDevSigningKey() bool {
	return s.JWTSigningKey == devSigningKey
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return pkgstrings.DedupeAndTrim(strings.Split(s, ","))
}
