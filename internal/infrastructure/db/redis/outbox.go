package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/solx/solx-api/internal/core/domain"
)

// NotificationList is the Redis list an external mailer consumes.
const NotificationList = "solx:notifications"

// Outbox implements ports.Notifier by appending JSON jobs to a Redis list.
type Outbox struct {
	client redis.Cmdable
	list   string
}

func NewOutbox(client redis.Cmdable) *Outbox {
	return &Outbox{client: client, list: NotificationList}
}

func (o *Outbox) Deliver(ctx context.Context, n domain.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	if err := o.client.RPush(ctx, o.list, body).Err(); err != nil {
		return fmt.Errorf("push notification: %w", err)
	}
	return nil
}
