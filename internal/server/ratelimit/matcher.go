package ratelimit

import "strings"

// MatchEndpoint returns the rule governing a request, or nil when the
// default limit applies. Health checks get an unlimited rule. Exact paths win
// over prefix rules, and among prefix rules the longest one wins.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && (method == "GET" || method == "HEAD") {
		return &EndpointConfig{}
	}

	var best *EndpointConfig
	for i := range configs {
		rule := &configs[i]
		if rule.Method != method {
			continue
		}
		if rule.Path == path {
			return rule
		}
		if strings.HasSuffix(rule.Path, "/") && strings.HasPrefix(path, rule.Path) {
			if best == nil || len(rule.Path) > len(best.Path) {
				best = rule
			}
		}
	}
	return best
}
