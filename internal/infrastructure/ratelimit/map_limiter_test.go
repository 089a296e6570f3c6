package ratelimit

import (
	"strconv"
	"testing"
	"time"
)

func TestAllowBurstThenThrottle(t *testing.T) {
	l := New(1, 3, time.Minute)
	now := time.Now()

	for i := 0; i < 3; i++ {
		if !l.Allow("u1", now) {
			t.Fatalf("request %d within burst rejected", i)
		}
	}
	if l.Allow("u1", now) {
		t.Fatal("request over burst allowed")
	}
	if !l.Allow("u2", now) {
		t.Fatal("other key must have its own bucket")
	}
	if !l.Allow("u1", now.Add(time.Second)) {
		t.Fatal("token must refill after a second")
	}
}

func TestNilLimiterAllows(t *testing.T) {
	l := New(0, 0, 0)
	if l != nil {
		t.Fatal("invalid args must return nil limiter")
	}
	if !l.Allow("anyone", time.Now()) {
		t.Fatal("nil limiter must allow")
	}
}

func TestIdleKeysEvicted(t *testing.T) {
	l := New(100, 100, time.Second)
	start := time.Now()
	for i := 0; i < 511; i++ {
		l.Allow("k"+strconv.Itoa(i), start)
	}
	l.Allow("fresh", start.Add(time.Minute))
	if got := l.size(); got != 1 {
		t.Fatalf("expected idle keys evicted, %d left", got)
	}
}
