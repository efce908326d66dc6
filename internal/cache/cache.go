package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"time"
)

// Store is the cache boundary. Implementations must never fail a request:
// any backend error is absorbed and reported as a miss.
type Store interface {
	// Get returns the cached value and true on a hit
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores value under key with a TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	// Close releases backend resources
	Close() error
}

// Key derives the content-addressed cache key for one analysis request
func Key(resumeText, jobDescription string) string {
	return "analysis:" + shortHash(resumeText) + ":" + shortHash(jobDescription)
}

func shortHash(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])[:16]
}
