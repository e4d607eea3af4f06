package ratelimit

import (
	"sync"
	"time"
)

// Actions limited per seller.
const (
	ActionUpdateDraft   = "update_draft"
	ActionUploadMedia   = "upload_media"
	ActionSubmitListing = "submit_listing"
	ActionEvaluate      = "evaluate_listing"
	ActionWebhook       = "payment_webhook"
)

// Limit configures one bucket: Burst tokens, refilled one at a time every
// Interval.
type Limit struct {
	Burst    int
	Interval time.Duration
}

var DefaultLimits = map[string]Limit{
	// 120 edits per minute
	ActionUpdateDraft: {Burst: 120, Interval: 500 * time.Millisecond},
	// 30 uploads per minute
	ActionUploadMedia: {Burst: 30, Interval: 2 * time.Second},
	// 5 submits, then one every 2 minutes
	ActionSubmitListing: {Burst: 5, Interval: 2 * time.Minute},
	ActionEvaluate:      {Burst: 60, Interval: time.Second},
	ActionWebhook:       {Burst: 100, Interval: 600 * time.Millisecond},
}

var fallbackLimit = Limit{Burst: 20, Interval: 3 * time.Second}

type TokenBucket struct {
	tokens     int
	maxTokens  int
	refillTime time.Duration
	lastRefill time.Time
	lastUsed   time.Time
	mutex      sync.Mutex
}

func NewTokenBucket(maxTokens int, refillTime time.Duration, now time.Time) *TokenBucket {
	return &TokenBucket{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillTime: refillTime,
		lastRefill: now,
		lastUsed:   now,
	}
}

// Allow consumes a token if one is available; otherwise it reports how long
// until the next refill.
func (tb *TokenBucket) Allow(now time.Time) (bool, time.Duration) {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()

	tb.lastUsed = now
	if tb.refillTime > 0 {
		if refills := int(now.Sub(tb.lastRefill) / tb.refillTime); refills > 0 {
			tb.tokens += refills
			if tb.tokens > tb.maxTokens {
				tb.tokens = tb.maxTokens
			}
			tb.lastRefill = tb.lastRefill.Add(time.Duration(refills) * tb.refillTime)
		}
	}

	if tb.tokens > 0 {
		tb.tokens--
		return true, 0
	}

	return false, tb.lastRefill.Add(tb.refillTime).Sub(now)
}

func (tb *TokenBucket) Tokens() int {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()
	return tb.tokens
}

// RateLimiter keeps one bucket per subject:action pair.
type RateLimiter struct {
	buckets map[string]*TokenBucket
	limits  map[string]Limit
	now     func() time.Time
	mutex   sync.Mutex
}

func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithLimits(DefaultLimits, time.Now)
}

func NewRateLimiterWithLimits(limits map[string]Limit, now func() time.Time) *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*TokenBucket),
		limits:  limits,
		now:     now,
	}
}

func (rl *RateLimiter) Allow(subject, action string) (bool, time.Duration) {
	key := subject + ":" + action
	now := rl.now()

	rl.mutex.Lock()
	bucket, exists := rl.buckets[key]
	if !exists {
		limit, ok := rl.limits[action]
		if !ok {
			limit = fallbackLimit
		}
		bucket = NewTokenBucket(limit.Burst, limit.Interval, now)
		rl.buckets[key] = bucket
	}
	rl.mutex.Unlock()

	return bucket.Allow(now)
}

// Cleanup drops buckets idle for longer than maxIdle.
func (rl *RateLimiter) Cleanup(maxIdle time.Duration) int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	removed := 0
	for key, bucket := range rl.buckets {
		bucket.mutex.Lock()
		idle := now.Sub(bucket.lastUsed)
		bucket.mutex.Unlock()
		if idle > maxIdle {
			delete(rl.buckets, key)
			removed++
		}
	}
	return removed
}

func (rl *RateLimiter) StartCleanupRoutine(stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rl.Cleanup(time.Hour)
			case <-stop:
				return
			}
		}
	}()
}
