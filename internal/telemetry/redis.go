package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	recentKey  = "recent_searches"
	popularKey = "popular_searches"

	// The recency list keeps this many raw entries; duplicates coexist in
	// storage and are collapsed at read time.
	recentCap = 200
)

type recentItem struct {
	ID        string `json:"id"`
	Query     string `json:"query"`
	Timestamp int64  `json:"timestamp"`
}

// RedisAccelerator keeps a capped recency list and a popularity sorted set.
type RedisAccelerator struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisAccelerator(client *redis.Client, logger *slog.Logger) *RedisAccelerator {
	return &RedisAccelerator{client: client, logger: logger}
}

// Push prepends the query to the recency list, trims it to the cap, and
// increments the query's popularity score.
func (a *RedisAccelerator) Push(ctx context.Context, query string) error {
	item := recentItem{
		ID:        fmt.Sprintf("recent_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8]),
		Query:     query,
		Timestamp: time.Now().UnixMilli(),
	}
	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}

	if err := a.client.LPush(ctx, recentKey, payload).Err(); err != nil {
		return err
	}
	if err := a.client.LTrim(ctx, recentKey, 0, recentCap-1).Err(); err != nil {
		return err
	}
	return a.client.ZIncrBy(ctx, popularKey, 1, query).Err()
}

// Recent reads the head of the recency list and collapses duplicate query
// texts, preserving most-recent occurrence order.
func (a *RedisAccelerator) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit < 1 {
		return nil, nil
	}

	raw, err := a.client.LRange(ctx, recentKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	items := make([]recentItem, 0, len(raw))
	for _, s := range raw {
		var item recentItem
		if err := json.Unmarshal([]byte(s), &item); err != nil {
			continue
		}
		items = append(items, item)
	}

	return dedupeByQuery(items, limit), nil
}

// Popular reads the popularity set in descending score order.
func (a *RedisAccelerator) Popular(ctx context.Context, limit int) ([]Entry, error) {
	if limit < 1 {
		return nil, nil
	}

	members, err := a.client.ZRevRange(ctx, popularKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(members))
	for i, m := range members {
		short := m
		if len(short) > 20 {
			short = short[:20]
		}
		entries = append(entries, Entry{ID: fmt.Sprintf("pop_%d_%s", i, short), Query: m})
	}
	return entries, nil
}

// dedupeByQuery collapses entries with the same query text, keeping the
// first (most recent) occurrence.
func dedupeByQuery(items []recentItem, limit int) []Entry {
	seen := make(map[string]struct{}, len(items))
	out := make([]Entry, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.Query]; ok {
			continue
		}
		seen[item.Query] = struct{}{}
		out = append(out, Entry{ID: item.ID, Query: item.Query})
		if len(out) >= limit {
			break
		}
	}
	return out
}

// NoopAccelerator is the implementation selected when Redis is not
// configured. Call sites treat it exactly like an accelerator that errors:
// no acceleration, fall back to the durable log.
type NoopAccelerator struct{}

func NewNoopAccelerator() NoopAccelerator { return NoopAccelerator{} }

func (NoopAccelerator) Push(context.Context, string) error          { return nil }
func (NoopAccelerator) Recent(context.Context, int) ([]Entry, error) { return nil, nil }
func (NoopAccelerator) Popular(context.Context, int) ([]Entry, error) { return nil, nil }
