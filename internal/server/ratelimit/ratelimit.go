// Package ratelimit provides per-client, per-endpoint token bucket rate limiting.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// bucket pairs a token bucket with its configured capacity
type bucket struct {
	limiter    *rate.Limiter
	capacity   int
	lastAccess time.Time
}

func newBucket(limit int, window time.Duration, burst int) *bucket {
	capacity := burst
	if capacity <= 0 {
		capacity = limit
	}
	return &bucket{
		limiter:  rate.NewLimiter(rate.Limit(float64(limit)/window.Seconds()), capacity),
		capacity: capacity,
	}
}

// status returns the tokens left at now and the time the bucket will be full again
func (b *bucket) status(now time.Time) (int, time.Time) {
	tokens := b.limiter.TokensAt(now)
	if tokens >= float64(b.capacity) {
		return b.capacity, now
	}
	missing := float64(b.capacity) - tokens
	return int(math.Max(tokens, 0)), now.Add(secondsToDuration(missing / float64(b.limiter.Limit())))
}

// retryAfter returns how long until one token is available
func (b *bucket) retryAfter(now time.Time) time.Duration {
	tokens := b.limiter.TokensAt(now)
	if tokens >= 1 {
		return 0
	}
	return secondsToDuration((1 - tokens) / float64(b.limiter.Limit()))
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(math.Ceil(s * float64(time.Second)))
}

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTimeout     time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// Limiter manages rate limiting for multiple clients
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket // clientID:path:method -> bucket
	config  *Config
	now     func() time.Time

	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
	stopOnce      sync.Once
}

// NewLimiter creates a new rate limiter with the given configuration.
// A nil config gives an enabled limiter with the default limits.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
			Whitelist:       make(map[string]bool),
			Blacklist:       make(map[string]bool),
			EndpointConfigs: DefaultEndpointConfigs(),
		}
	}
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = time.Hour
	}

	l := &Limiter{
		buckets: make(map[string]*bucket),
		config:  config,
		now:     time.Now,
	}

	if config.Enabled && config.CleanupInterval > 0 {
		l.cleanupTicker = time.NewTicker(config.CleanupInterval)
		l.cleanupStop = make(chan struct{})
		go l.cleanup()
	}
	return l
}

// Allow checks if a request from clientID to the endpoint is allowed, consuming a token if so.
func (l *Limiter) Allow(clientID string, endpoint string, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{Allowed: false}
	}

	endpointConfig := MatchEndpoint(endpoint, method, l.config.EndpointConfigs)
	if endpointConfig == nil {
		endpointConfig = &EndpointConfig{
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
			Burst:  l.config.DefaultLimit,
		}
	}
	if endpointConfig.Limit <= 0 || endpointConfig.Window <= 0 {
		return true, Info{Allowed: true}
	}

	now := l.now()
	b := l.getBucket(clientID+":"+endpoint+":"+method, endpointConfig, now)

	allowed := b.limiter.AllowN(now, 1)
	remaining, resetTime := b.status(now)
	info := Info{
		Allowed:   allowed,
		Limit:     endpointConfig.Limit,
		Remaining: remaining,
		ResetTime: resetTime,
	}
	if !allowed {
		info.RetryAfter = b.retryAfter(now)
	}
	return allowed, info
}

func (l *Limiter) getBucket(key string, cfg *EndpointConfig, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = newBucket(cfg.Limit, cfg.Window, cfg.Burst)
		l.buckets[key] = b
	}
	b.lastAccess = now
	return b
}

func (l *Limiter) cleanup() {
	for {
		select {
		case <-l.cleanupTicker.C:
			l.cleanupBuckets()
		case <-l.cleanupStop:
			return
		}
	}
}

// cleanupBuckets removes buckets idle for longer than the idle timeout
func (l *Limiter) cleanupBuckets() {
	cutoff := l.now().Add(-l.config.IdleTimeout)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.lastAccess.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// size returns the number of live buckets
func (l *Limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		if l.cleanupTicker != nil {
			l.cleanupTicker.Stop()
		}
		if l.cleanupStop != nil {
			close(l.cleanupStop)
		}
	})
}
