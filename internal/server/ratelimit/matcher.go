package ratelimit

import "strings"

// unlimitedPaths are never rate limited
var unlimitedPaths = map[string]bool{
	"GET /health": true,
}

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Exact matches win over prefix matches; a config path ending in "/" matches any
// path below it. Returns nil when nothing matches.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if unlimitedPaths[method+" "+path] {
		return &EndpointConfig{}
	}

	for i := range configs {
		if configs[i].Path == path && configs[i].Method == method {
			return &configs[i]
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.HasSuffix(config.Path, "/") && strings.HasPrefix(path, config.Path) {
			return config
		}
	}
	return nil
}
