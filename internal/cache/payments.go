package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/akylbek/payment-system/payment-gateway/internal/models"
)

const recordTTL = 10 * time.Minute

// PaymentCache is a redis read-through cache for payment lookups. Only
// terminal records are cached; a terminal status never changes, so a cache
// hit can never be stale. All methods are nil-receiver safe so the cache can
// simply be absent.
type PaymentCache struct {
	client *redis.Client
}

func NewPaymentCache(client *redis.Client) *PaymentCache {
	return &PaymentCache{client: client}
}

func key(id string) string {
	return fmt.Sprintf("payment:%s", id)
}

func (c *PaymentCache) Get(ctx context.Context, id string) (models.PaymentRecord, bool) {
	if c == nil || c.client == nil {
		return models.PaymentRecord{}, false
	}

	raw, err := c.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		return models.PaymentRecord{}, false
	}

	var record models.PaymentRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return models.PaymentRecord{}, false
	}
	return record, true
}

// Put stores a record if its status is terminal. Pending records are never
// cached: their status is the one field that can still change.
func (c *PaymentCache) Put(ctx context.Context, record models.PaymentRecord) {
	if c == nil || c.client == nil {
		return
	}
	if record.Status == models.StatusPending {
		return
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return
	}
	c.client.Set(ctx, key(record.ID), raw, recordTTL)
}
