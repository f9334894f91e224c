package store

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

const keyPrefix = "room:"

// Redis is a Store backed by go-redis, grounded on the reference server's
// RedisGameStateTracker/RedisHandStateTracker. Unlike the reference (which
// marshals with protobuf), blobs here are whatever the caller serializes
// them to — the room actor uses json-iterator, but the store itself is
// byte-agnostic.
type Redis struct {
	client *redis.Client
}

func NewRedis(addr, password string, db int) *Redis {
	return &Redis{client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

func key(roomID string) string {
	return keyPrefix + roomID
}

func (r *Redis) Save(ctx context.Context, roomID string, blob []byte) error {
	if err := r.client.Set(ctx, key(roomID), blob, 0).Err(); err != nil {
		return errors.Wrapf(err, "save room %s", roomID)
	}
	return nil
}

func (r *Redis) Load(ctx context.Context, roomID string) ([]byte, error) {
	blob, err := r.client.Get(ctx, key(roomID)).Bytes()
	if err == redis.Nil {
		return nil, &ErrNotFound{RoomID: roomID}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load room %s", roomID)
	}
	return blob, nil
}

func (r *Redis) Delete(ctx context.Context, roomID string) error {
	if err := r.client.Del(ctx, key(roomID)).Err(); err != nil {
		return errors.Wrapf(err, "delete room %s", roomID)
	}
	return nil
}

// ListActive enumerates every saved room id via SCAN rather than KEYS, so
// a large key space doesn't block the Redis event loop.
func (r *Redis) ListActive(ctx context.Context) ([]string, error) {
	var ids []string
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, keyPrefix+"*", 200).Result()
		if err != nil {
			return nil, errors.Wrap(err, "scan active rooms")
		}
		for _, k := range keys {
			ids = append(ids, k[len(keyPrefix):])
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return ids, nil
}
