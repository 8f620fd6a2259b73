package redis

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/solx/solx-api/internal/core/domain"
)

// testClient connects to SOLX_TEST_REDIS_ADDR and flushes the selected DB.
// Tests are skipped when the variable is unset.
func testClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("SOLX_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SOLX_TEST_REDIS_ADDR not set")
	}

	client, err := Connect(context.Background(), Config{Addr: addr, DB: 15})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		client.FlushDB(context.Background())
		_ = client.Close()
	})
	client.FlushDB(context.Background())
	return client
}

func TestDedupChecker_ClaimOnce(t *testing.T) {
	client := testClient(t)
	d := NewDedupChecker(client)
	ctx := context.Background()

	first, err := d.Claim(ctx, "access_request:a@solx.io")
	if err != nil || !first {
		t.Fatalf("expected first claim to win, got %v %v", first, err)
	}
	second, err := d.Claim(ctx, "access_request:a@solx.io")
	if err != nil || second {
		t.Fatalf("expected repeat claim to lose, got %v %v", second, err)
	}

	ttl := client.TTL(ctx, dedupPrefix+"access_request:a@solx.io").Val()
	if ttl <= 0 || ttl > time.Hour {
		t.Fatalf("unexpected ttl %v", ttl)
	}
}

func TestOutbox_Deliver(t *testing.T) {
	client := testClient(t)
	o := NewOutbox(client)
	ctx := context.Background()

	n := domain.Notification{Kind: domain.NotificationAccessRequest, Key: "a@solx.io", Subject: "hi"}
	if err := o.Deliver(ctx, n); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	raw, err := client.LPop(ctx, NotificationList).Bytes()
	if err != nil {
		t.Fatalf("lpop: %v", err)
	}
	var got domain.Notification
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Key != n.Key || got.Kind != n.Kind {
		t.Fatalf("unexpected job %+v", got)
	}
}
