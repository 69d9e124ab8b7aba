package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable ApplyEnv reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "DATABASE_URL", "REDIS_URL", "AMQP_URL", "AMQP_EXCHANGE",
		"LLM_PROVIDER", "LLM_MODEL", "LLM_BASE_URL", "LLM_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY",
		"YOUTUBE_API_KEY", "VIDEO_CACHE_TTL",
		"S3_BUCKET", "S3_ENDPOINT", "S3_REGION", "S3_ACCESS_KEY", "S3_SECRET_KEY",
		"COLLABORATOR_TIMEOUT", "LOCK_TTL", "SKILL_WEIGHT", "EXPERIENCE_WEIGHT", "RESUME_WEIGHT",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, 45*time.Second, time.Duration(cfg.CollaboratorTimeout))
	assert.Equal(t, 2*time.Minute, time.Duration(cfg.LockTTL))
	assert.Equal(t, 24*time.Hour, time.Duration(cfg.VideoCacheTTL))
	assert.InDelta(t, 0.5, cfg.SkillWeight, 1e-9)
	assert.InDelta(t, 0.25, cfg.ExperienceWeight, 1e-9)
	assert.InDelta(t, 0.25, cfg.ResumeWeight, 1e-9)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, `{
		"port": 9090,
		"database_url": "postgres://localhost/careergate",
		"llm_provider": "openai",
		"collaborator_timeout": "30s",
		"skill_weight": 0.6,
		"experience_weight": 0.2,
		"resume_weight": 0.2
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres://localhost/careergate", cfg.DatabaseURL)
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, 30*time.Second, time.Duration(cfg.CollaboratorTimeout))
	assert.InDelta(t, 0.6, cfg.SkillWeight, 1e-9)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name      string
		path      func(t *testing.T) string
		wantInErr string
	}{
		{
			name:      "invalid json",
			path:      func(t *testing.T) string { return writeConfig(t, `{ invalid json }`) },
			wantInErr: "failed to parse config JSON",
		},
		{
			name:      "bad duration",
			path:      func(t *testing.T) string { return writeConfig(t, `{"lock_ttl": "soon"}`) },
			wantInErr: "failed to parse config JSON",
		},
		{
			name:      "file not found",
			path:      func(*testing.T) string { return "/nonexistent/path/config.json" },
			wantInErr: "failed to read config file",
		},
		{
			name:      "empty path",
			path:      func(*testing.T) string { return "" },
			wantInErr: "config path is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(tt.path(t))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantInErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	partial := Config{
		Port:        9000,
		DatabaseURL: "postgres://db/custom",
	}

	merged := partial.MergeWithDefaults(Default())

	assert.Equal(t, 9000, merged.Port)
	assert.Equal(t, "postgres://db/custom", merged.DatabaseURL)
	assert.Equal(t, "gemini", merged.LLMProvider)
	assert.Equal(t, 45*time.Second, time.Duration(merged.CollaboratorTimeout))
	assert.InDelta(t, 0.5, merged.SkillWeight, 1e-9)
}

func TestMergeWithDefaults_PartialWeightsKept(t *testing.T) {
	partial := Config{SkillWeight: 1}

	merged := partial.MergeWithDefaults(Default())

	assert.InDelta(t, 1.0, merged.SkillWeight, 1e-9)
	assert.Zero(t, merged.ExperienceWeight)
	assert.Zero(t, merged.ResumeWeight)
	assert.NoError(t, merged.Validate())
}

func TestApplyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("COLLABORATOR_TIMEOUT", "10s")
	t.Setenv("SKILL_WEIGHT", "0.4")
	t.Setenv("EXPERIENCE_WEIGHT", "0.3")
	t.Setenv("RESUME_WEIGHT", "0.3")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "postgres://env/db", cfg.DatabaseURL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, "sk-openai", cfg.LLMAPIKey)
	assert.Equal(t, 10*time.Second, time.Duration(cfg.CollaboratorTimeout))
	assert.InDelta(t, 0.4, cfg.SkillWeight, 1e-9)
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv_GenericKeyWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("LLM_API_KEY", "generic-key")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, "generic-key", cfg.LLMAPIKey)
}

func TestApplyEnv_IgnoresUnparseable(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "not-a-port")
	t.Setenv("LOCK_TTL", "forever")
	t.Setenv("SKILL_WEIGHT", "lots")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 2*time.Minute, time.Duration(cfg.LockTTL))
	assert.InDelta(t, 0.5, cfg.SkillWeight, 1e-9)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantInErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "port zero", mutate: func(c *Config) { c.Port = 0 }, wantInErr: "port"},
		{name: "port too large", mutate: func(c *Config) { c.Port = 70000 }, wantInErr: "port"},
		{name: "unknown provider", mutate: func(c *Config) { c.LLMProvider = "claude" }, wantInErr: "llm_provider"},
		{name: "zero timeout", mutate: func(c *Config) { c.CollaboratorTimeout = 0 }, wantInErr: "collaborator_timeout"},
		{name: "negative lock ttl", mutate: func(c *Config) { c.LockTTL = Duration(-time.Second) }, wantInErr: "lock_ttl"},
		{name: "weights not summing to one", mutate: func(c *Config) { c.SkillWeight = 0.9 }, wantInErr: "sum to 1"},
		{name: "negative weight", mutate: func(c *Config) {
			c.SkillWeight, c.ExperienceWeight, c.ResumeWeight = 1.5, -0.25, -0.25
		}, wantInErr: "non-negative"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "chatty" }, wantInErr: "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantInErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantInErr)
		})
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `{"port": 9090, "database_url": "postgres://file/db"}`)
	t.Setenv("DATABASE_URL", "postgres://env/db")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres://env/db", cfg.DatabaseURL)
	assert.Equal(t, "gemini", cfg.LLMProvider)
}

func TestLoad_InvalidResult(t *testing.T) {
	clearEnv(t)
	t.Setenv("SKILL_WEIGHT", "0.9")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config error")
}

func TestLLMConfig_ModelOverride(t *testing.T) {
	cfg := Default()
	cfg.LLMProvider = "openai"
	cfg.LLMModel = "gpt-4.1-mini"
	cfg.LLMBaseURL = "http://localhost:11434/v1"

	llmCfg := cfg.LLMConfig()

	assert.Equal(t, "openai", string(llmCfg.Provider))
	assert.Equal(t, "http://localhost:11434/v1", llmCfg.BaseURL)
	for _, model := range llmCfg.Models {
		assert.Equal(t, "gpt-4.1-mini", model)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("warn", &buf)

	logger.Info("hidden")
	logger.Warn("shown", slog.String("candidate_id", "c-1"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"candidate_id":"c-1"`)
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "", want: slog.LevelInfo},
		{in: "INFO", want: slog.LevelInfo},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "trace", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}
