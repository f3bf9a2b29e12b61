package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vietddude/tokenctl/internal/core/domain"
)

const defaultHistoryKey = "tokenctl:tx_history"

// Config holds Redis connection configuration.
type Config struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	Key      string `yaml:"key"`
}

// HistoryRepo persists the history sequence as one serialized value under a
// single key, the key-value contract of the persistence layer.
type HistoryRepo struct {
	rdb *redis.Client
	key string
}

// NewHistoryRepo connects to Redis and verifies the connection.
func NewHistoryRepo(cfg Config) (*HistoryRepo, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	key := cfg.Key
	if key == "" {
		key = defaultHistoryKey
	}
	return &HistoryRepo{rdb: rdb, key: key}, nil
}

func (r *HistoryRepo) Load(ctx context.Context) ([]domain.TransactionRecord, error) {
	raw, err := r.rdb.Get(ctx, r.key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	var records []domain.TransactionRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("%w: corrupt history payload: %v", domain.ErrPersistence, err)
	}
	return records, nil
}

func (r *HistoryRepo) Save(ctx context.Context, records []domain.TransactionRecord) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if err := r.rdb.Set(ctx, r.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (r *HistoryRepo) Close() error {
	return r.rdb.Close()
}
