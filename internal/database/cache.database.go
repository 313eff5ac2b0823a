package database

import (
	"context"
	"fmt"
	"time"
	"turnovers/config"

	"github.com/valkey-io/valkey-go"
)

// Valkey database indexes.
const (
	GENERAL_CACHE_INDEX = iota
	TURNOVER_CACHE_INDEX
)

// DisableCacheReset as DB_CACHE_RESET leaves every cache database untouched on startup.
const DisableCacheReset = -1

type namedCache struct {
	index  int
	name   string
	client CacheClient
}

// clients lists the configured cache connections in index order.
func (c Cache) clients() []namedCache {
	all := []namedCache{
		{GENERAL_CACHE_INDEX, "General", c.General},
		{TURNOVER_CACHE_INDEX, "Turnover", c.Turnover},
	}

	configured := make([]namedCache, 0, len(all))
	for _, cache := range all {
		if cache.client != nil {
			configured = append(configured, cache)
		}
	}
	return configured
}

func (c Cache) close() {
	for _, cache := range c.clients() {
		cache.client.Close()
	}
}

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")

	if config.DatabaseCacheAddress == "" || config.DatabaseCachePort == 0 {
		return log.Errorf("failed to initialize cache database", "address or port is empty")
	}

	address := fmt.Sprintf("%s:%d", config.DatabaseCacheAddress, config.DatabaseCachePort)
	log.Info("connecting to valkey", "address", address)

	general, err := newCacheClient(address, GENERAL_CACHE_INDEX)
	if err != nil {
		return log.Err("failed to create general valkey client", err)
	}

	turnover, err := newCacheClient(address, TURNOVER_CACHE_INDEX)
	if err != nil {
		general.Close()
		return log.Err("failed to create turnover valkey client", err)
	}

	s.Cache = Cache{General: general, Turnover: turnover}

	if config.DatabaseCacheReset != DisableCacheReset {
		go s.resetCacheDB(config.DatabaseCacheReset)
	}

	return nil
}

func newCacheClient(address string, index int) (valkey.Client, error) {
	return valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{address},
		SelectDB:    index,
	})
}

// resetCacheDB flushes the single cache database selected by DB_CACHE_RESET.
func (s *DB) resetCacheDB(index int) {
	log := s.log.Function("resetCacheDB")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, cache := range s.Cache.clients() {
		if cache.index != index {
			continue
		}

		if err := flushCache(ctx, cache.client); err != nil {
			log.Er("failed to reset cache database", err, "index", index, "cache", cache.name)
			return
		}

		log.Info("Cache database reset", "index", index, "cache", cache.name)
		return
	}

	log.Warn("No cache database at index", "index", index)
}

func flushCache(ctx context.Context, client CacheClient) error {
	return client.Do(ctx, client.B().Flushdb().Build()).Error()
}
