package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aulaplan/aula-sync-api/pkg/config"
)

// Timeouts are deliberately tight: the download cache is an optimization
// and a slow redis must never hold up a sync request longer than the
// database query it was meant to avoid.
const (
	dialTimeout  = 2 * time.Second
	opTimeout    = 500 * time.Millisecond
	pingDeadline = 3 * time.Second
)

// NewRedis connects the download-cache client and verifies the server is
// reachable before handing it out.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  dialTimeout,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingDeadline)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", client.Options().Addr, err)
	}

	return client, nil
}
