package services

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// SessionPublisher fans session status updates out to whoever watches the
// session (dashboards, the candidate's feedback page). Best effort.
type SessionPublisher interface {
	PublishStatus(ctx context.Context, sessionID, payload string)
}

type redisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) SessionPublisher {
	return &redisPublisher{rdb: rdb}
}

func (p *redisPublisher) PublishStatus(ctx context.Context, sessionID, payload string) {
	_ = p.rdb.Publish(ctx, StatusChannel(sessionID), payload).Err()
}

// StatusChannel is the pub/sub channel carrying one session's status stream.
func StatusChannel(sessionID string) string {
	return "session:" + sessionID + ":status"
}
