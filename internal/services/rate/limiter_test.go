package rate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redrepo "github.com/LV27VELASCO/ApiFamaYa/internal/repo/redis"
)

func TestLimiterBlocksOnMinuteWindow(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	repo := redrepo.NewRateRepo(client)
	limiter := NewLimiter(repo, 3, 100)

	ctx := context.Background()
	addr := "203.0.113.9"

	for i := 0; i < 3; i++ {
		retryAfter, allowed, err := limiter.AllowToken(ctx, addr)
		if err != nil {
			t.Fatalf("allow token #%d: %v", i+1, err)
		}
		if !allowed || retryAfter != 0 {
			t.Fatalf("unexpected result on allow #%d: allowed=%v retry_after=%d", i+1, allowed, retryAfter)
		}
	}

	retryAfter, allowed, err := limiter.AllowToken(ctx, addr)
	if err != nil {
		t.Fatalf("allow token #4: %v", err)
	}
	if allowed {
		t.Fatalf("expected limiter block on fourth request in minute window")
	}
	if retryAfter <= 0 {
		t.Fatalf("expected positive retry_after, got %d", retryAfter)
	}

	mr.FastForward(61 * time.Second)

	retryAfter, allowed, err = limiter.AllowToken(ctx, addr)
	if err != nil {
		t.Fatalf("allow token after window: %v", err)
	}
	if !allowed || retryAfter != 0 {
		t.Fatalf("unexpected result after fast forward: allowed=%v retry_after=%d", allowed, retryAfter)
	}
}

func TestLimiterBlocksOnHourWindow(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	repo := redrepo.NewRateRepo(client)
	limiter := NewLimiter(repo, 0, 2)

	ctx := context.Background()
	addr := "198.51.100.7"

	for i := 0; i < 2; i++ {
		_, allowed, err := limiter.AllowToken(ctx, addr)
		if err != nil {
			t.Fatalf("allow token #%d: %v", i+1, err)
		}
		if !allowed {
			t.Fatalf("unexpected block on request #%d", i+1)
		}
	}

	retryAfter, allowed, err := limiter.AllowToken(ctx, addr)
	if err != nil {
		t.Fatalf("allow token #3: %v", err)
	}
	if allowed {
		t.Fatalf("expected limiter block on third request in hour window")
	}
	if retryAfter <= 0 {
		t.Fatalf("expected positive retry_after, got %d", retryAfter)
	}
}

func TestLimiterIsolatesClientAddresses(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	repo := redrepo.NewRateRepo(client)
	limiter := NewLimiter(repo, 1, 0)

	ctx := context.Background()

	if _, allowed, err := limiter.AllowToken(ctx, "192.0.2.1"); err != nil || !allowed {
		t.Fatalf("first address first request should pass: allowed=%v err=%v", allowed, err)
	}
	if _, allowed, err := limiter.AllowToken(ctx, "192.0.2.1"); err != nil || allowed {
		t.Fatalf("first address second request should block: allowed=%v err=%v", allowed, err)
	}
	if _, allowed, err := limiter.AllowToken(ctx, "192.0.2.2"); err != nil || !allowed {
		t.Fatalf("second address should be unaffected: allowed=%v err=%v", allowed, err)
	}
}

func newMiniRedisClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{
		Addr: mr.Addr(),
	})

	return mr, client
}
