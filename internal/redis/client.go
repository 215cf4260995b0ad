package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
)

const presencePrefix = "presence:"

type Client struct {
	rdb *redis.Client
}

// PresenceData is the heartbeat payload kept under presence:<role>:<user_id>.
type PresenceData struct {
	UserID   uint      `json:"user_id"`
	Role     string    `json:"role"`
	LastSeen time.Time `json:"last_seen"`
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

func presenceKey(role string, userID uint) string {
	return fmt.Sprintf("%s%s:%d", presencePrefix, role, userID)
}

// SetPresence refreshes a heartbeat; the key expires after ttl without another beat.
func (c *Client) SetPresence(ctx context.Context, data *PresenceData, ttl time.Duration) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal presence data: %w", err)
	}

	return c.rdb.Set(ctx, presenceKey(data.Role, data.UserID), jsonData, ttl).Err()
}

// ListPresence returns every live heartbeat for role ordered by user id.
func (c *Client) ListPresence(ctx context.Context, role string) ([]PresenceData, error) {
	var keys []string
	iter := c.rdb.Scan(ctx, 0, presencePrefix+role+":*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan presence keys: %w", err)
	}
	if len(keys) == 0 {
		return []PresenceData{}, nil
	}

	values, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get presence data: %w", err)
	}

	result := make([]PresenceData, 0, len(values))
	for _, value := range values {
		// Keys can expire between SCAN and MGET.
		raw, ok := value.(string)
		if !ok {
			continue
		}
		var data PresenceData
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			continue
		}
		result = append(result, data)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

func (c *Client) DeletePresence(ctx context.Context, role string, userID uint) error {
	return c.rdb.Del(ctx, presenceKey(role, userID)).Err()
}

// Ping reports whether Redis is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
