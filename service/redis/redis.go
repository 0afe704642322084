package redis

import (
	"errors"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/mintbay/goapi/base/ctx"
)

// Forever stores a key without an expire
const Forever = time.Duration(-1)

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = redis.ErrNil

	// ErrNoTTL is returned by TTL when the key exists but has no
	// associated expire
	ErrNoTTL = errors.New("redis: key has no ttl")

	// ErrGapTime is returned when no pool is available for the command
	ErrGapTime = errors.New("redis: no pool available")

	// ErrExpireNotExistOrTimeout is returned by Expire when the key does
	// not exist or the timeout could not be set
	ErrExpireNotExistOrTimeout = errors.New("redis: key does not exist or timeout not set")
)

type Service interface {
	Get(context ctx.Ctx, key string) ([]byte, error)
	Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error
	SetNX(context ctx.Ctx, key string, val []byte, expire time.Duration) error
	Del(context ctx.Ctx, ks ...string) (int, error)
	Exists(context ctx.Ctx, key string) (bool, error)
	Incr(context ctx.Ctx, key string) (int64, error)
	Incrby(context ctx.Ctx, key string, val int) (int64, error)
	Expire(context ctx.Ctx, key string, ttl time.Duration) error
	TTL(context ctx.Ctx, key string) (int, error)
	GetConn() (redis.Conn, error)
	Name() string
}
