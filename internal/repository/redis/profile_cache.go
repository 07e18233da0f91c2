package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rsharma/socialnet/internal/domain"
	"github.com/sirupsen/logrus"
)

// corruptionSentinel marks a payload written by a foreign serializer. Its
// presence means the entry cannot be trusted as a profile snapshot.
const corruptionSentinel = "_key"

// profileCache holds serialized profile snapshots keyed by profile id.
// A miss is always safe; a present entry is either a valid snapshot or is
// purged and reported as a miss.
type profileCache struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

func NewProfileCache(client *goredis.Client, prefix string, ttl time.Duration) *profileCache {
	return &profileCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (c *profileCache) key(id uuid.UUID) string {
	return c.prefix + ":" + id.String()
}

func (c *profileCache) Read(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	payload, err := c.client.Get(ctx, c.key(id)).Result()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		c.purgeCorrupt(ctx, id, "unparseable payload")
		return nil, nil
	}
	if _, tainted := raw[corruptionSentinel]; tainted {
		c.purgeCorrupt(ctx, id, "sentinel field present")
		return nil, nil
	}

	var profile domain.Profile
	if err := json.Unmarshal([]byte(payload), &profile); err != nil {
		c.purgeCorrupt(ctx, id, "snapshot shape mismatch")
		return nil, nil
	}
	return &profile, nil
}

func (c *profileCache) purgeCorrupt(ctx context.Context, id uuid.UUID, reason string) {
	logrus.WithFields(logrus.Fields{
		"userId":    id,
		"reason":    reason,
		"errorCode": "corruptUserCacheEntry",
	}).Warn("purging corrupt profile cache entry")
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		logrus.WithError(err).WithField("userId", id).Warn("failed to purge corrupt cache entry")
	}
}

func (c *profileCache) Write(ctx context.Context, profile *domain.Profile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	key := c.key(profile.ID)
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, key, payload, 0)
	pipe.Expire(ctx, key, c.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (c *profileCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	return c.client.Del(ctx, c.key(id)).Err()
}
