package presence

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

// presence key: chat:presence:<user>; the TTL bounds how stale an online
// flag can get if a disconnect is never observed.
func presenceKey(user string) string { return "chat:presence:" + user }

const defaultTTL = 120 * time.Second

// commands is the slice of the redis client the tracker uses.
type commands interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// Tracker keeps best-effort online state in redis.
type Tracker struct {
	rdb   commands
	close func() error
	ttl   time.Duration
}

func New(c Config) (*Tracker, error) {
	rdb := redis.NewClient(&redis.Options{Addr: c.Addr, Password: c.Password, DB: c.DB})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "ping redis")
	}
	return &Tracker{rdb: rdb, close: rdb.Close, ttl: defaultTTL}, nil
}

func (t *Tracker) Online(ctx context.Context, user string) error {
	return t.rdb.Set(ctx, presenceKey(user), "1", t.ttl).Err()
}

// Touch renews the TTL. It writes the key rather than EXPIRE-ing it: EXPIRE
// on a lapsed key is a no-op, which would leave an actively chatting user
// reading offline until reconnect.
func (t *Tracker) Touch(ctx context.Context, user string) error {
	return t.rdb.Set(ctx, presenceKey(user), "1", t.ttl).Err()
}

func (t *Tracker) Offline(ctx context.Context, user string) error {
	return t.rdb.Del(ctx, presenceKey(user)).Err()
}

func (t *Tracker) Lookup(ctx context.Context, user string) (bool, error) {
	_, err := t.rdb.Get(ctx, presenceKey(user)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (t *Tracker) Close() error {
	if t.close == nil {
		return nil
	}
	return t.close()
}
