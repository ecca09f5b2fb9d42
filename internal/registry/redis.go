package registry

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/josmany3000/Render-videos04/internal/pkg/logger"
)

const redisKeyPrefix = "render:jobs:"

// Redis is a Store backed by a redis key per job, JSON-encoded. It keeps
// the same state-machine contract as Memory; the single-writer-per-key
// discipline makes the read-merge-write update safe without transactions.
type Redis struct {
	rdb *redis.Client
	log *logger.Logger
}

func NewRedis(rdb *redis.Client, log *logger.Logger) *Redis {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Redis{rdb: rdb, log: log.WithComponent("registry")}
}

// Close releases the underlying client connection.
func (r *Redis) Close() error {
	return r.rdb.Close()
}

func (r *Redis) Create(ctx context.Context) (string, error) {
	id := "job_" + uuid.NewString()
	now := time.Now().UTC()

	state := JobState{
		ID:        id,
		Status:    StatusPending,
		Progress:  0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.set(ctx, state); err != nil {
		return "", err
	}
	return id, nil
}

func (r *Redis) Update(ctx context.Context, id string, u Update) {
	state, ok := r.Get(ctx, id)
	if !ok {
		return
	}

	if err := r.set(ctx, merge(state, u, time.Now().UTC())); err != nil {
		r.log.Error("registry update failed", "job_id", id, "error", err.Error())
	}
}

func (r *Redis) Get(ctx context.Context, id string) (JobState, bool) {
	raw, err := r.rdb.Get(ctx, redisKeyPrefix+id).Result()
	if err != nil {
		if err != redis.Nil {
			r.log.Error("registry get failed", "job_id", id, "error", err.Error())
		}
		return JobState{}, false
	}

	var state JobState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		r.log.Error("registry entry corrupt", "job_id", id, "error", err.Error())
		return JobState{}, false
	}
	return state, true
}

func (r *Redis) set(ctx context.Context, state JobState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, redisKeyPrefix+state.ID, raw, 0).Err()
}
