// Package redisstore keeps pending confirmations in Redis so that replies can be
// correlated across restarts and replicas.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"fulfillment/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "fulfillment:confirmation:"

// Config selects the Redis server. URL wins over Host/Port when set.
type Config struct {
	URL       string
	Host      string
	Port      string
	Password  string
	DB        int
	KeyPrefix string
}

// Options builds client options from the configuration.
func (c Config) Options() (*redis.Options, error) {
	if c.URL != "" {
		opt, err := redis.ParseURL(c.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := c.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := c.Port
	if port == "" {
		port = "6379"
	}
	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: c.Password,
		DB:       c.DB,
	}, nil
}

// Store implements ports.PendingConfirmationStore with SET EX and GETDEL, so
// expiry and consume-once are enforced by Redis itself.
type Store struct {
	client redis.UniversalClient
	prefix string
}

func New(client redis.UniversalClient, keyPrefix string) *Store {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &Store{client: client, prefix: keyPrefix}
}

// Connect creates a client from cfg and pings it.
func Connect(ctx context.Context, cfg Config) (*Store, *redis.Client, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, nil, err
	}
	client := redis.NewClient(opts)
	if err = client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, errs.NewTransientAdapterErrorWithCause("redis", "ping", err)
	}
	return New(client, cfg.KeyPrefix), client, nil
}

func (s *Store) Put(ctx context.Context, messageID, orderNumber string, ttl time.Duration) error {
	messageID = strings.TrimSpace(messageID)
	if messageID == "" {
		return errs.NewValueIsRequiredError("message id")
	}
	if ttl <= 0 {
		return errs.NewValueIsOutOfRangeError("ttl", ttl, "1s", "unbounded")
	}

	if err := s.client.Set(ctx, s.key(messageID), orderNumber, ttl).Err(); err != nil {
		return errs.NewTransientAdapterErrorWithCause("redis", "put confirmation", err)
	}
	return nil
}

func (s *Store) Consume(ctx context.Context, messageID string) (string, error) {
	number, err := s.client.GetDel(ctx, s.key(strings.TrimSpace(messageID))).Result()
	if errors.Is(err, redis.Nil) {
		return "", errs.NewObjectNotFoundError("pending confirmation", messageID)
	}
	if err != nil {
		return "", errs.NewTransientAdapterErrorWithCause("redis", "consume confirmation", err)
	}
	return number, nil
}

func (s *Store) key(messageID string) string {
	return s.prefix + messageID
}
