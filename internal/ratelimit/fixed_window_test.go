package ratelimit

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestLimiterAllowsWithinQuota(t *testing.T) {
	redis := miniredis.RunT(t)
	l, err := NewRedisFixedWindowLimiter(redis.Addr(), "", "test:ratelimit", 3, time.Minute)
	if err != nil {
		t.Fatalf("new limiter: %v", err)
	}
	for i := 0; i < 3; i++ {
		if !l.Allow("203.0.113.7") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("203.0.113.7") {
		t.Fatalf("fourth request should be blocked")
	}
	if !l.Allow("198.51.100.1") {
		t.Fatalf("other keys must not share the quota")
	}
}

func TestNilLimiterIsDisabled(t *testing.T) {
	var l *FixedWindowLimiter
	if !l.Allow("anyone") {
		t.Fatalf("nil limiter means rate limiting is off")
	}
}

func TestLimiterRejectsBadConfig(t *testing.T) {
	if _, err := NewRedisFixedWindowLimiter("localhost:6379", "", "", 0, time.Minute); err == nil {
		t.Fatalf("expected error for zero limit")
	}
	if _, err := NewRedisFixedWindowLimiter("", "", "", 5, time.Minute); err == nil {
		t.Fatalf("expected error for missing addr")
	}
}
