// Package redisstore keeps validator profiles in Redis.
//
// Each profile is stored as JSON under "<prefix>profile:<name>"; the set
// "<prefix>profiles" indexes the known names.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/redis/go-redis/v9"

	"github.com/BigKAA/redpen-go/validator"
)

// DefaultPrefix is the key prefix used when WithPrefix is not given.
const DefaultPrefix = "redpen:"

// Store is a validator.ProfileStore backed by a Redis client.
type Store struct {
	client redis.UniversalClient
	prefix string
}

var _ validator.ProfileStore = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a Store on top of an existing client. The caller owns the client.
func New(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{client: client, prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FromURL parses a redis:// URL and creates a Store with its own client.
// Close releases the client.
func FromURL(rawURL string, opts ...Option) (*Store, error) {
	ropts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("redisstore: %w", err)
	}
	return New(redis.NewClient(ropts), opts...), nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) profileKey(name string) string {
	return s.prefix + "profile:" + name
}

func (s *Store) indexKey() string {
	return s.prefix + "profiles"
}

// SaveProfile stores cfg under name, replacing any previous profile.
func (s *Store) SaveProfile(ctx context.Context, name string, cfg validator.Configuration) error {
	if err := validator.ValidateProfileName(name); err != nil {
		return err
	}
	body, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("redisstore: encode profile %q: %w", name, err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.profileKey(name), body, 0)
		pipe.SAdd(ctx, s.indexKey(), name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redisstore: save profile %q: %w", name, err)
	}
	return nil
}

// LoadProfile returns the profile stored under name.
func (s *Store) LoadProfile(ctx context.Context, name string) (validator.Configuration, error) {
	body, err := s.client.Get(ctx, s.profileKey(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return validator.Configuration{}, fmt.Errorf("%w: %s", validator.ErrProfileNotFound, name)
	}
	if err != nil {
		return validator.Configuration{}, fmt.Errorf("redisstore: load profile %q: %w", name, err)
	}

	var cfg validator.Configuration
	if err := json.Unmarshal(body, &cfg); err != nil {
		return validator.Configuration{}, fmt.Errorf("redisstore: decode profile %q: %w", name, err)
	}
	return cfg, nil
}

// ListProfiles returns the stored profile names in lexical order.
func (s *Store) ListProfiles(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redisstore: list profiles: %w", err)
	}
	slices.Sort(names)
	return names, nil
}

// DeleteProfile removes the profile stored under name.
func (s *Store) DeleteProfile(ctx context.Context, name string) error {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, s.profileKey(name))
		pipe.SRem(ctx, s.indexKey(), name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redisstore: delete profile %q: %w", name, err)
	}
	if del.Val() == 0 {
		return fmt.Errorf("%w: %s", validator.ErrProfileNotFound, name)
	}
	return nil
}
