package database

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"
)

const (
	defaultCacheTTL     = time.Hour
	defaultCacheTimeout = 5 * time.Second
)

var ErrCacheKeyRequired = errors.New("key is required")

// CacheBuilder reads and writes one JSON encoded value of type T under a
// composed key. The zero TTL stores the value without expiry.
type CacheBuilder[T any] struct {
	cache      valkey.Client
	parts      []string
	ttl        time.Duration
	nx         bool
	ctx        context.Context
	ctxTimeout time.Duration
}

func NewCacheBuilder[T any](cache valkey.Client, key string) *CacheBuilder[T] {
	cb := &CacheBuilder[T]{
		cache:      cache,
		ttl:        defaultCacheTTL,
		ctx:        context.Background(),
		ctxTimeout: defaultCacheTimeout,
	}
	if key != "" {
		cb.parts = []string{key}
	}
	return cb
}

// WithHash namespaces the key, so "all" under "turnovers" becomes "turnovers:all".
func (cb *CacheBuilder[T]) WithHash(hash string) *CacheBuilder[T] {
	if hash != "" && len(cb.parts) > 0 {
		cb.parts = append([]string{hash}, cb.parts...)
	}
	return cb
}

func (cb *CacheBuilder[T]) WithTTL(ttl time.Duration) *CacheBuilder[T] {
	cb.ttl = ttl
	return cb
}

// WithNX makes Set a no-op when the key already holds a value.
func (cb *CacheBuilder[T]) WithNX() *CacheBuilder[T] {
	cb.nx = true
	return cb
}

func (cb *CacheBuilder[T]) WithContext(ctx context.Context) *CacheBuilder[T] {
	if ctx != nil {
		cb.ctx = ctx
	}
	return cb
}

func (cb *CacheBuilder[T]) WithTimeout(timeout time.Duration) *CacheBuilder[T] {
	cb.ctxTimeout = timeout
	return cb
}

func (cb *CacheBuilder[T]) Key() string {
	return strings.Join(cb.parts, ":")
}

func (cb *CacheBuilder[T]) Set(value T) error {
	key := cb.Key()
	if key == "" {
		return ErrCacheKeyRequired
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	ctx, cancel := cb.timeoutContext()
	defer cancel()

	value := cb.cache.B().Set().Key(key).Value(valkey.BinaryString(payload))

	var cmd valkey.Completed
	switch {
	case cb.nx && cb.ttl > 0:
		cmd = value.Nx().Ex(cb.ttl).Build()
	case cb.nx:
		cmd = value.Nx().Build()
	case cb.ttl > 0:
		cmd = value.Ex(cb.ttl).Build()
	default:
		cmd = value.Build()
	}

	err = cb.cache.Do(ctx, cmd).Error()
	if cb.nx && valkey.IsValkeyNil(err) {
		// NX found an existing value.
		return nil
	}
	return err
}

// Get returns the cached value and whether it was present.
func (cb *CacheBuilder[T]) Get() (T, bool, error) {
	var result T

	key := cb.Key()
	if key == "" {
		return result, false, ErrCacheKeyRequired
	}

	ctx, cancel := cb.timeoutContext()
	defer cancel()

	err := cb.cache.Do(ctx, cb.cache.B().Get().Key(key).Build()).DecodeJSON(&result)
	if valkey.IsValkeyNil(err) {
		return result, false, nil
	}
	if err != nil {
		return result, false, err
	}

	return result, true, nil
}

// Incr atomically increments the integer stored at the key and returns the
// new value. A missing key counts as zero.
func (cb *CacheBuilder[T]) Incr() (int64, error) {
	key := cb.Key()
	if key == "" {
		return 0, ErrCacheKeyRequired
	}

	ctx, cancel := cb.timeoutContext()
	defer cancel()

	return cb.cache.Do(ctx, cb.cache.B().Incr().Key(key).Build()).AsInt64()
}

func (cb *CacheBuilder[T]) Delete() error {
	key := cb.Key()
	if key == "" {
		return ErrCacheKeyRequired
	}

	ctx, cancel := cb.timeoutContext()
	defer cancel()

	return cb.cache.Do(ctx, cb.cache.B().Del().Key(key).Build()).Error()
}

// timeoutContext bounds cache calls by ctxTimeout unless the caller's deadline
// is already sooner.
func (cb *CacheBuilder[T]) timeoutContext() (context.Context, context.CancelFunc) {
	if deadline, ok := cb.ctx.Deadline(); ok && time.Until(deadline) < cb.ctxTimeout {
		return context.WithCancel(cb.ctx)
	}
	return context.WithTimeout(cb.ctx, cb.ctxTimeout)
}
