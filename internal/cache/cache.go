// Package cache keeps recent predictions in redis, keyed by dataset version
// and a digest of the query vector. Appending training data bumps the dataset
// version, which detaches every prediction stored under the previous one.
package cache

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/go-skc/skc/internal/classifier"
	"github.com/go-skc/skc/internal/util"
)

func NewFromEnv(ctx context.Context, cfg *Config) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("unable to connect to cache: %w", err)
	}
	return &Cache{client: client, ttl: cfg.TTL}, nil
}

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

type storedPrediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Votes      int     `json:"votes"`
}

// Lookup returns the prediction stored for the current dataset version. A
// miss is not an error.
func (c *Cache) Lookup(ctx context.Context, dataset string, k int, vec classifier.Vector) (*classifier.Prediction, bool, error) {
	key, err := c.predictionKey(ctx, dataset, k, vec)
	if err != nil {
		return nil, false, err
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	var stored storedPrediction
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, false, fmt.Errorf("cache unmarshal: %w", err)
	}
	return &classifier.Prediction{
		Label:      stored.Label,
		Confidence: stored.Confidence,
		Votes:      stored.Votes,
	}, true, nil
}

func (c *Cache) Store(ctx context.Context, dataset string, k int, vec classifier.Vector, prediction *classifier.Prediction) error {
	key, err := c.predictionKey(ctx, dataset, k, vec)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(storedPrediction{
		Label:      prediction.Label,
		Confidence: prediction.Confidence,
		Votes:      prediction.Votes,
	})
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate bumps the dataset version. Entries of the previous version stay
// until their TTL runs out.
func (c *Cache) Invalidate(ctx context.Context, dataset string) error {
	if err := c.client.Incr(ctx, versionKey(dataset)).Err(); err != nil {
		return fmt.Errorf("cache incr: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) predictionKey(ctx context.Context, dataset string, k int, vec classifier.Vector) (string, error) {
	version, err := c.client.Get(ctx, versionKey(dataset)).Int64()
	if err != nil && err != redis.Nil {
		return "", fmt.Errorf("cache version: %w", err)
	}
	hash, err := util.HashVector(vec.Points())
	if err != nil {
		return "", err
	}
	return predictionKeyFor(dataset, version, k, hash), nil
}

func predictionKeyFor(dataset string, version int64, k int, hash [32]byte) string {
	return fmt.Sprintf("skc:prediction:%s:%d:%d:%s", dataset, version, k, hex.EncodeToString(hash[:]))
}

func versionKey(dataset string) string {
	return "skc:version:" + dataset
}
