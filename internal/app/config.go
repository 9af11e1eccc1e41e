package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	BackendDynamoDB = "dynamodb"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

const (
	defaultGenerationTimeout = 25 * time.Second
	defaultSessionTTL        = 24 * time.Hour
	defaultMaxUploadBytes    = 10 << 20
	defaultListenAddr        = ":8080"
)

// Config is the process configuration shared by every entrypoint.
type Config struct {
	StoreBackend  string
	StateTable    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ParamPrefix      string
	OpenAIBaseURL    string
	OpenAIAPIVersion string
	ExtractorURL     string

	GenerationTimeout time.Duration
	SessionTTL        time.Duration
	MaxUploadBytes    int64
	ListenAddr        string
}

// ConfigFromEnv reads Config through getenv, normally os.Getenv. Malformed
// optional values fall back to their defaults.
func ConfigFromEnv(getenv func(string) string) (Config, error) {
	env := func(key string) string { return strings.TrimSpace(getenv(key)) }

	cfg := Config{
		StoreBackend:      strings.ToLower(env("STORE_BACKEND")),
		StateTable:        env("STATE_TABLE"),
		RedisAddr:         env("REDIS_ADDR"),
		RedisPassword:     getenv("REDIS_PASSWORD"),
		RedisDB:           envInt(env("REDIS_DB"), 0),
		ParamPrefix:       env("PARAM_PREFIX"),
		OpenAIBaseURL:     env("OPENAI_BASE_URL"),
		OpenAIAPIVersion:  env("OPENAI_API_VERSION"),
		ExtractorURL:      env("EXTRACTOR_URL"),
		GenerationTimeout: envDuration(env("GENERATION_TIMEOUT"), defaultGenerationTimeout),
		SessionTTL:        envDuration(env("SESSION_TTL"), defaultSessionTTL),
		MaxUploadBytes:    int64(envInt(env("MAX_UPLOAD_BYTES"), defaultMaxUploadBytes)),
		ListenAddr:        env("LISTEN_ADDR"),
	}
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = BackendDynamoDB
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultListenAddr
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	var missing []string
	if c.ParamPrefix == "" {
		missing = append(missing, "PARAM_PREFIX")
	}
	if c.ExtractorURL == "" {
		missing = append(missing, "EXTRACTOR_URL")
	}
	switch c.StoreBackend {
	case BackendDynamoDB:
		if c.StateTable == "" {
			missing = append(missing, "STATE_TABLE")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			missing = append(missing, "REDIS_ADDR")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("app: unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if len(missing) > 0 {
		return errors.New("app: required environment variables are not set: " + strings.Join(missing, ", "))
	}
	return nil
}

func envInt(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func envDuration(v string, def time.Duration) time.Duration {
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
