package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const runStream = "predictions.runs"

// RunEvent describes a completed prediction run.
type RunEvent struct {
	RunID        int64   `json:"run_id"`
	TargetSeason int     `json:"target_season"`
	PlayerCount  int     `json:"player_count"`
	TopPlayerID  string  `json:"top_player_id,omitempty"`
	TopSeasonFP  float64 `json:"top_season_fp,omitempty"`
	CompletedAt  int64   `json:"completed_at"`
}

// RedisStreamPublisher publishes run events to a Redis stream so downstream
// consumers can react to fresh predictions.
type RedisStreamPublisher struct {
	client *redis.Client
}

// NewRedisStreamPublisher creates a publisher from an existing client.
func NewRedisStreamPublisher(client *redis.Client) *RedisStreamPublisher {
	return &RedisStreamPublisher{client: client}
}

// PublishRunCompleted appends a run-completed event to the stream.
func (p *RedisStreamPublisher) PublishRunCompleted(ctx context.Context, event RunEvent) error {
	if event.CompletedAt == 0 {
		event.CompletedAt = time.Now().Unix()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: runStream,
		Values: map[string]interface{}{
			"data":      string(data),
			"timestamp": event.CompletedAt,
		},
	}).Err()
}
