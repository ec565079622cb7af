package config

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
)

func NewRedis(ctx context.Context, cfg *Config) (*redis.Client, error) {
	var client *redis.Client
	if strings.HasPrefix(cfg.RedisAddr, "redis://") || strings.HasPrefix(cfg.RedisAddr, "rediss://") {
		opt, err := redis.ParseURL(cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, err
	}
	return client, nil
}
