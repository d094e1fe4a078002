package config

import "time"

// CacheConfig defines settings for the public response cache middleware.
// Only GET responses on the routes the middleware is mounted on are cached.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string // redis key namespace
	MaxBodyBytes int    // responses larger than this are not cached
}

// LoadCacheConfig reads cache settings from the environment, with defaults
// sized for public search results.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}
