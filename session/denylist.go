package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist remembers revoked session ids until their tokens expire.
type Denylist interface {
	Revoke(ctx context.Context, id string, until time.Time) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}

type RedisDenylist struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisDenylist(client *redis.Client) *RedisDenylist {
	return &RedisDenylist{client: client, now: time.Now}
}

func denylistKey(id string) string {
	return "session:revoked:" + id
}

func (d *RedisDenylist) Revoke(ctx context.Context, id string, until time.Time) error {
	ttl := until.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, denylistKey(id), "1", ttl).Err()
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, id string) (bool, error) {
	err := d.client.Get(ctx, denylistKey(id)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// NopDenylist is used when no Redis is configured; logout then only clears
// the cookie on the client.
type NopDenylist struct{}

func (NopDenylist) Revoke(context.Context, string, time.Time) error { return nil }
func (NopDenylist) IsRevoked(context.Context, string) (bool, error) { return false, nil }
