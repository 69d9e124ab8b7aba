package ratelimit

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is one rate limiting rule. A Path ending in "/" is a prefix
// rule and shares a single bucket across every path under it.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int // defaults to Limit if 0
}

// LoadConfig builds the limiter configuration from RATE_LIMIT_* variables.
// RATE_LIMIT_RULES replaces the default endpoint rules when it parses.
func LoadConfig() *Config {
	if !envBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	rules := DefaultEndpointConfigs()
	if raw := os.Getenv("RATE_LIMIT_RULES"); raw != "" {
		if parsed, err := ParseRules(raw); err == nil {
			rules = parsed
		}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    envInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   envDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: envDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: rules,
	}
}

// DefaultEndpointConfigs returns the built-in rules. Collaborator-backed
// calls get the tightest budget; reads fall through to the default limit.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/jobs/", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},
		{Path: "/roadmaps/generate/", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},

		{Path: "/jobs", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/profile", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/roadmaps/items/", Method: "PATCH", Limit: 100, Window: time.Minute, Burst: 10},
	}
}

// ParseRules reads ";"-separated rules of the form
// "METHOD /path=LIMIT/WINDOW[/BURST]", e.g. "POST /jobs/=20/1h/3;PUT /profile=100/1m".
func ParseRules(raw string) ([]EndpointConfig, error) {
	var rules []EndpointConfig
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		route, budget, ok := strings.Cut(entry, "=")
		method, path, okRoute := strings.Cut(strings.TrimSpace(route), " ")
		if !ok || !okRoute || !strings.HasPrefix(strings.TrimSpace(path), "/") {
			return nil, fmt.Errorf("invalid rate limit rule %q: want \"METHOD /path=LIMIT/WINDOW[/BURST]\"", entry)
		}

		parts := strings.Split(strings.TrimSpace(budget), "/")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("invalid rate limit rule %q: want LIMIT/WINDOW[/BURST]", entry)
		}
		limit, err := strconv.Atoi(parts[0])
		if err != nil || limit <= 0 {
			return nil, fmt.Errorf("invalid limit in rate limit rule %q", entry)
		}
		window, err := time.ParseDuration(parts[1])
		if err != nil || window <= 0 {
			return nil, fmt.Errorf("invalid window in rate limit rule %q", entry)
		}
		burst := 0
		if len(parts) == 3 {
			if burst, err = strconv.Atoi(parts[2]); err != nil || burst < 0 {
				return nil, fmt.Errorf("invalid burst in rate limit rule %q", entry)
			}
		}

		rules = append(rules, EndpointConfig{
			Path:   strings.TrimSpace(path),
			Method: strings.ToUpper(method),
			Limit:  limit,
			Window: window,
			Burst:  burst,
		})
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("no rate limit rules in %q", raw)
	}
	return rules, nil
}

func envInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
