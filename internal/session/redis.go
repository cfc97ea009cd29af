package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "mortgage:session:"

// RedisStore хранит сессии в Redis с истечением по TTL
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore подключается к Redis по адресу addr
func NewRedisStore(addr string, ttl time.Duration) *RedisStore {
	return NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: addr}), ttl)
}

// NewRedisStoreFromClient использует готовый клиент
func NewRedisStoreFromClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Ping проверяет доступность Redis
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Load(ctx context.Context, id string) (state State, err error) {
	defer func() { observe("redis", "load", err) }()

	data, err := s.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return State{}, ErrNotFound
	}
	if err != nil {
		return State{}, err
	}
	return decode(data)
}

func (s *RedisStore) Save(ctx context.Context, id string, state State) (err error) {
	defer func() { observe("redis", "save", err) }()

	data, err := encode(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKey(id), data, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, id string) (err error) {
	defer func() { observe("redis", "delete", err) }()
	return s.client.Del(ctx, redisKey(id)).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}
