package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

func TestNilDeduperAllowsEverything(t *testing.T) {
	var d *Deduper
	if !d.AcquireOnce(context.Background(), "charge", "ref") {
		t.Fatal("nil deduper must allow processing")
	}
	d.Forget(context.Background(), "charge", "ref")

	noClient := NewDeduper(nil, time.Minute, nil)
	if !noClient.AcquireOnce(context.Background(), "charge", "ref") {
		t.Fatal("deduper without client must allow processing")
	}
}

func TestUnreachableRedisAllowsProcessing(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	d := NewDeduper(rdb, time.Minute, nil)
	if !d.AcquireOnce(context.Background(), "charge", "ref") {
		t.Fatal("redis outage must not block processing")
	}
}

func TestDedupKey(t *testing.T) {
	if got := dedupKey("charge.success", "ref-1"); got != "dedup:charge.success:ref-1" {
		t.Fatalf("unexpected key %q", got)
	}
}
