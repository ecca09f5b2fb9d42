package registry

import (
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/josmany3000/Render-videos04/internal/pkg/logger"
)

// New selects a Store from the environment. The in-memory backend is the
// default; REGISTRY_BACKEND=redis switches to the key-value backend and
// requires REDIS_ADDR.
func New(log *logger.Logger) (Store, error) {
	backend := os.Getenv("REGISTRY_BACKEND")
	if backend == "" {
		backend = "memory"
	}

	switch backend {
	case "memory":
		return NewMemory(), nil

	case "redis":
		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			return nil, fmt.Errorf("REGISTRY_BACKEND=redis requires REDIS_ADDR")
		}
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		return NewRedis(rdb, log), nil

	default:
		return nil, fmt.Errorf("unknown registry backend: %s", backend)
	}
}
