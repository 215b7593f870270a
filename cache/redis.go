package cache

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const (
	// DefaultTTL is the entry lifetime unless configured otherwise.
	DefaultTTL = 24 * time.Hour

	defaultConnectTimeout = 5 * time.Second
	defaultOpTimeout      = 2 * time.Second

	// clearScanCount is the SCAN page size used by Clear.
	clearScanCount = 100
)

var errStoreDisabled = errors.New("cache disabled")

// RedisConfig holds configuration for the Redis store.
type RedisConfig struct {
	URL            string        // connection URL, e.g. "redis://localhost:6379/1"
	TTL            time.Duration // entry lifetime (default 24h)
	ConnectTimeout time.Duration // dial and startup-ping bound (default 5s)
	OpTimeout      time.Duration // per-operation bound (default 2s)
	Logger         *logrus.Logger
}

// RedisStore is a Redis-backed Store. Construction never fails: with an
// unreachable backend the store degrades to a no-op where every Get is a miss
// and every Set reports failure. Each backend call runs through a circuit
// breaker, so a backend that dies later degrades the same way, and the
// breaker's half-open probes double as periodic reconnection attempts.
type RedisStore struct {
	client    *redis.Client
	ttl       time.Duration
	opTimeout time.Duration
	breaker   *gobreaker.CircuitBreaker
	log       *logrus.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// NewRedisStore connects to Redis and returns the store. An unparseable URL
// or unreachable backend is logged and yields a degraded store, not an error.
func NewRedisStore(cfg RedisConfig) *RedisStore {
	s := newRedisStore(cfg)
	if s.client == nil {
		return s
	}

	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := s.client.Ping(ctx).Err(); err != nil {
		s.log.WithError(err).Warn("redis unreachable, running without cache until it recovers")
	} else {
		s.log.Info("connected to redis cache")
	}
	return s
}

// NewRedisStoreFromClient builds a store around an existing client, used by
// tests with a mock client.
func NewRedisStoreFromClient(client *redis.Client, cfg RedisConfig) *RedisStore {
	s := newRedisStore(cfg)
	s.client = client
	return s
}

func newRedisStore(cfg RedisConfig) *RedisStore {
	log := cfg.Logger
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}

	s := &RedisStore{
		ttl:       cfg.TTL,
		opTimeout: cfg.OpTimeout,
		log:       log,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	if s.opTimeout <= 0 {
		s.opTimeout = defaultOpTimeout
	}
	s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "redis-cache",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			// A key miss is a healthy backend.
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{"from": from.String(), "to": to.String()}).
				Warn("cache breaker state changed")
		},
	})

	if cfg.URL != "" {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			log.WithError(err).Warn("invalid redis URL, cache disabled")
			return s
		}
		connectTimeout := cfg.ConnectTimeout
		if connectTimeout <= 0 {
			connectTimeout = defaultConnectTimeout
		}
		opts.DialTimeout = connectTimeout
		opts.ReadTimeout = s.opTimeout
		opts.WriteTimeout = s.opTimeout
		s.client = redis.NewClient(opts)
	}
	return s
}

// do runs one backend operation through the breaker with a bounded timeout.
func (s *RedisStore) do(ctx context.Context, op func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	if s.client == nil {
		return nil, errStoreDisabled
	}
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	return s.breaker.Execute(func() (interface{}, error) {
		return op(ctx)
	})
}

// Get retrieves the cached translation, reporting any backend failure as a
// miss.
func (s *RedisStore) Get(ctx context.Context, text, source, target string) (string, bool) {
	key := DeriveKey(text, source, target)
	v, err := s.do(ctx, func(ctx context.Context) (interface{}, error) {
		return s.client.Get(ctx, key).Result()
	})
	if err != nil {
		if !s.expectedError(err) {
			s.log.WithError(err).WithField("key", key).Warn("cache get failed")
		}
		s.misses.Add(1)
		return "", false
	}
	s.hits.Add(1)
	return v.(string), true
}

// Set stores the translation with the configured TTL and reports success.
func (s *RedisStore) Set(ctx context.Context, text, source, target, translation string) bool {
	key := DeriveKey(text, source, target)
	_, err := s.do(ctx, func(ctx context.Context) (interface{}, error) {
		return s.client.Set(ctx, key, translation, s.ttl).Result()
	})
	if err != nil {
		if !s.expectedError(err) {
			s.log.WithError(err).WithField("key", key).Warn("cache set failed")
		}
		return false
	}
	return true
}

// Clear deletes every key under the cache namespace via paginated
// scan-and-delete, so large keyspaces never block the backend.
func (s *RedisStore) Clear(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, KeyPrefix+"*", clearScanCount).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			s.log.Info("translation cache cleared")
			return nil
		}
	}
}

// Stats reports hit/miss counters and, when the backend answers, its memory
// usage. A disconnected backend yields Connected=false, never an error.
func (s *RedisStore) Stats(ctx context.Context) Stats {
	st := Stats{
		HitCount:  s.hits.Load(),
		MissCount: s.misses.Load(),
	}
	v, err := s.do(ctx, func(ctx context.Context) (interface{}, error) {
		return s.client.Info(ctx, "memory").Result()
	})
	if err != nil {
		return st
	}
	st.Connected = true
	st.MemoryUsage = infoField(v.(string), "used_memory_human")
	return st
}

// Connected reports whether the backend currently answers a ping.
func (s *RedisStore) Connected(ctx context.Context) bool {
	_, err := s.do(ctx, func(ctx context.Context) (interface{}, error) {
		return s.client.Ping(ctx).Result()
	})
	return err == nil
}

// Close closes the backend connection.
func (s *RedisStore) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// expectedError reports errors that are part of normal degraded operation
// and not worth a log line per request.
func (s *RedisStore) expectedError(err error) bool {
	return errors.Is(err, redis.Nil) ||
		errors.Is(err, errStoreDisabled) ||
		errors.Is(err, gobreaker.ErrOpenState) ||
		errors.Is(err, gobreaker.ErrTooManyRequests)
}

// infoField extracts one field from a redis INFO response.
func infoField(info, field string) string {
	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(line, field+":") {
			return strings.TrimPrefix(line, field+":")
		}
	}
	return ""
}

// Verify RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
