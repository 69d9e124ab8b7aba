// Package config provides configuration loading and validation for the service.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/careergate/internal/llm"
	"github.com/jonathan/careergate/internal/scoring"
)

// Duration is a time.Duration that reads "45s"-style strings from JSON.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"45s\": %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Config is the service configuration. Values come from defaults, then an
// optional JSON file, then environment variables.
type Config struct {
	Port     int    `json:"port,omitempty"`
	LogLevel string `json:"log_level,omitempty"`

	DatabaseURL  string `json:"database_url,omitempty"`  // PostgreSQL connection URL
	RedisURL     string `json:"redis_url,omitempty"`     // enables the shared video cache and cross-replica locks
	AMQPURL      string `json:"amqp_url,omitempty"`      // enables event publishing
	AMQPExchange string `json:"amqp_exchange,omitempty"` // topic exchange for events

	LLMProvider string `json:"llm_provider,omitempty"` // gemini, genai or openai
	LLMAPIKey   string `json:"llm_api_key,omitempty"`
	LLMModel    string `json:"llm_model,omitempty"` // overrides every tier when set
	LLMBaseURL  string `json:"llm_base_url,omitempty"`

	YouTubeAPIKey string   `json:"youtube_api_key,omitempty"`
	VideoCacheTTL Duration `json:"video_cache_ttl,omitempty"`

	S3Bucket    string `json:"s3_bucket,omitempty"`
	S3Endpoint  string `json:"s3_endpoint,omitempty"`
	S3Region    string `json:"s3_region,omitempty"`
	S3AccessKey string `json:"s3_access_key,omitempty"`
	S3SecretKey string `json:"s3_secret_key,omitempty"`

	CollaboratorTimeout Duration `json:"collaborator_timeout,omitempty"`
	LockTTL             Duration `json:"lock_ttl,omitempty"`

	SkillWeight      float64 `json:"skill_weight,omitempty"`
	ExperienceWeight float64 `json:"experience_weight,omitempty"`
	ResumeWeight     float64 `json:"resume_weight,omitempty"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	w := scoring.DefaultWeights()
	return Config{
		Port:                8080,
		LogLevel:            "info",
		LLMProvider:         string(llm.ProviderGemini),
		VideoCacheTTL:       Duration(24 * time.Hour),
		CollaboratorTimeout: Duration(45 * time.Second),
		LockTTL:             Duration(2 * time.Minute),
		SkillWeight:         w.Skill,
		ExperienceWeight:    w.Experience,
		ResumeWeight:        w.Resume,
	}
}

// Load builds the configuration: defaults, then the JSON file at path (if
// path is not empty), then the environment. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// MergeWithDefaults returns a copy of c with zero fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	for _, f := range []struct {
		dst *string
		src string
	}{
		{&result.LogLevel, defaults.LogLevel},
		{&result.DatabaseURL, defaults.DatabaseURL},
		{&result.RedisURL, defaults.RedisURL},
		{&result.AMQPURL, defaults.AMQPURL},
		{&result.AMQPExchange, defaults.AMQPExchange},
		{&result.LLMProvider, defaults.LLMProvider},
		{&result.LLMAPIKey, defaults.LLMAPIKey},
		{&result.LLMModel, defaults.LLMModel},
		{&result.LLMBaseURL, defaults.LLMBaseURL},
		{&result.YouTubeAPIKey, defaults.YouTubeAPIKey},
		{&result.S3Bucket, defaults.S3Bucket},
		{&result.S3Endpoint, defaults.S3Endpoint},
		{&result.S3Region, defaults.S3Region},
		{&result.S3AccessKey, defaults.S3AccessKey},
		{&result.S3SecretKey, defaults.S3SecretKey},
	} {
		if *f.dst == "" {
			*f.dst = f.src
		}
	}

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.VideoCacheTTL == 0 {
		result.VideoCacheTTL = defaults.VideoCacheTTL
	}
	if result.CollaboratorTimeout == 0 {
		result.CollaboratorTimeout = defaults.CollaboratorTimeout
	}
	if result.LockTTL == 0 {
		result.LockTTL = defaults.LockTTL
	}

	// Weights are replaced as a set so a partial file cannot mix with defaults.
	if result.SkillWeight == 0 && result.ExperienceWeight == 0 && result.ResumeWeight == 0 {
		result.SkillWeight = defaults.SkillWeight
		result.ExperienceWeight = defaults.ExperienceWeight
		result.ResumeWeight = defaults.ResumeWeight
	}

	return result
}

// ApplyEnv overrides fields from environment variables that are set.
func (c *Config) ApplyEnv() {
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.RedisURL, "REDIS_URL")
	setString(&c.AMQPURL, "AMQP_URL")
	setString(&c.AMQPExchange, "AMQP_EXCHANGE")
	setString(&c.LogLevel, "LOG_LEVEL")

	setString(&c.LLMProvider, "LLM_PROVIDER")
	setString(&c.LLMModel, "LLM_MODEL")
	setString(&c.LLMBaseURL, "LLM_BASE_URL")
	// Provider-specific keys first so LLM_API_KEY wins when both are set.
	switch llm.Provider(c.LLMProvider) {
	case llm.ProviderOpenAI:
		setString(&c.LLMAPIKey, "OPENAI_API_KEY")
	default:
		setString(&c.LLMAPIKey, "GEMINI_API_KEY")
	}
	setString(&c.LLMAPIKey, "LLM_API_KEY")

	setString(&c.YouTubeAPIKey, "YOUTUBE_API_KEY")
	setDuration(&c.VideoCacheTTL, "VIDEO_CACHE_TTL")

	setString(&c.S3Bucket, "S3_BUCKET")
	setString(&c.S3Endpoint, "S3_ENDPOINT")
	setString(&c.S3Region, "S3_REGION")
	setString(&c.S3AccessKey, "S3_ACCESS_KEY")
	setString(&c.S3SecretKey, "S3_SECRET_KEY")

	setDuration(&c.CollaboratorTimeout, "COLLABORATOR_TIMEOUT")
	setDuration(&c.LockTTL, "LOCK_TTL")

	setFloat(&c.SkillWeight, "SKILL_WEIGHT")
	setFloat(&c.ExperienceWeight, "EXPERIENCE_WEIGHT")
	setFloat(&c.ResumeWeight, "RESUME_WEIGHT")

	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
}

// Validate checks that the configuration has valid values. Connection URLs
// are not required here; commands check the ones they need.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535, got %d", c.Port)
	}
	switch llm.Provider(c.LLMProvider) {
	case llm.ProviderGemini, llm.ProviderGenAI, llm.ProviderOpenAI:
	default:
		return fmt.Errorf("config error: unknown 'llm_provider' %q (want gemini, genai or openai)", c.LLMProvider)
	}
	if c.CollaboratorTimeout <= 0 {
		return fmt.Errorf("config error: 'collaborator_timeout' must be positive")
	}
	if c.LockTTL <= 0 {
		return fmt.Errorf("config error: 'lock_ttl' must be positive")
	}
	if c.VideoCacheTTL < 0 {
		return fmt.Errorf("config error: 'video_cache_ttl' must be non-negative")
	}
	if err := c.Weights().Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// Weights returns the scoring weights.
func (c *Config) Weights() scoring.Weights {
	return scoring.Weights{Skill: c.SkillWeight, Experience: c.ExperienceWeight, Resume: c.ResumeWeight}
}

// LLMConfig returns the provider configuration with any model override applied.
func (c *Config) LLMConfig() *llm.Config {
	cfg := llm.ConfigFor(c.LLMProvider)
	if c.LLMModel != "" {
		cfg = cfg.WithAllModels(c.LLMModel)
	}
	if c.LLMBaseURL != "" {
		cfg.BaseURL = c.LLMBaseURL
	}
	return cfg
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setDuration(dst *Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = Duration(d)
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}
