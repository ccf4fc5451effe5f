package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverMemory   = "memory"
	DriverMongo    = "mongo"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env                string
	LogLevel           string
	HTTPAddr           string
	StoreDriver        string
	MongoURI           string
	MongoDB            string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	PostgresDSN        string
	KafkaBrokers       []string
	KafkaTopicPrefix   string
	KafkaGroupID       string
	RulesTopic         string
	IdempotencyTTL     time.Duration
	OutboxPollInterval time.Duration
	RetryBackoff       []time.Duration
	LockTimeout        time.Duration
	DefaultNightlyRate int64
	Currency           string
	BaseRates          string
	// PropertyUnits caps the units one request may ask for. Occupancy is not
	// shared: any overlapping active booking still makes the dates unavailable.
	PropertyUnits      int
	RateLimitRPS       float64
	RateLimitBurst     int
	CORSOrigins        []string
	RuleSyncEnabled    bool
	DBVerbose          bool
}

// KafkaEnabled reports whether the outbox relay and rule sync should run.
func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", "info")),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		StoreDriver:      strings.ToLower(getEnv("STORE_DRIVER", DriverMemory)),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "rentcal"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		PostgresDSN:      os.Getenv("POSTGRES_DSN"),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", ""),
		KafkaGroupID:     getEnv("KAFKA_GROUP_ID", "rentcal"),
		RulesTopic:       getEnv("RULES_TOPIC", "property.rules.v1"),
		Currency:         strings.ToUpper(getEnv("CURRENCY", "USD")),
		BaseRates:        os.Getenv("BASE_RATES"),
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "*")),
	}
	cfg.KafkaBrokers = splitList(os.Getenv("KAFKA_BROKERS"))

	var err error
	if cfg.RedisDB, err = parseIntEnv("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = parseDurationEnv("IDEMP_TTL", 168*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.OutboxPollInterval, err = parseDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond); err != nil {
		return Config{}, err
	}
	if cfg.LockTimeout, err = parseDurationEnv("LOCK_TIMEOUT", 2*time.Second); err != nil {
		return Config{}, err
	}
	rate, err := parseIntEnv("DEFAULT_NIGHTLY_RATE", 100)
	if err != nil {
		return Config{}, err
	}
	cfg.DefaultNightlyRate = int64(rate)
	if cfg.PropertyUnits, err = parseIntEnv("PROPERTY_UNITS", 1); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitBurst, err = parseIntEnv("RATE_LIMIT_BURST", 10); err != nil {
		return Config{}, err
	}
	rps := getEnv("RATE_LIMIT_RPS", "5")
	if cfg.RateLimitRPS, err = strconv.ParseFloat(rps, 64); err != nil {
		return Config{}, fmt.Errorf("invalid RATE_LIMIT_RPS number: %w", err)
	}

	if cfg.RuleSyncEnabled, err = parseBoolEnv("RULE_SYNC_ENABLED", true); err != nil {
		return Config{}, err
	}
	if cfg.DBVerbose, err = parseBoolEnv("DB_VERBOSE", false); err != nil {
		return Config{}, err
	}

	retryStr := getEnv("RETRY_BACKOFF", "1s,5s,30s")
	for _, raw := range strings.Split(retryStr, ",") {
		val := strings.TrimSpace(raw)
		if val == "" {
			continue
		}
		d, err := time.ParseDuration(val)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RETRY_BACKOFF component %q: %w", raw, err)
		}
		cfg.RetryBackoff = append(cfg.RetryBackoff, d)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StoreDriver {
	case DriverMemory:
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for STORE_DRIVER=%s", c.StoreDriver)
		}
	case DriverRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for STORE_DRIVER=%s", c.StoreDriver)
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for STORE_DRIVER=%s", c.StoreDriver)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if len(c.Currency) != 3 {
		return fmt.Errorf("invalid CURRENCY %q", c.Currency)
	}
	if c.DefaultNightlyRate <= 0 {
		return fmt.Errorf("DEFAULT_NIGHTLY_RATE must be positive")
	}
	if c.PropertyUnits <= 0 {
		return fmt.Errorf("PROPERTY_UNITS must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseIntEnv(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return n, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "yes", "y", "on":
		return true, nil
	case "0", "f", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s boolean: %q", key, raw)
	}
}
