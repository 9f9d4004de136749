package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"jobmate/jobs-service/internal/events"
)

func unreachable(t *testing.T) *redis.Client {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisPublisher_MarshalError(t *testing.T) {
	p := events.NewRedisPublisher(unreachable(t))

	err := p.Publish(context.Background(), "EVENT_JOB_CREATED", map[string]any{"bad": make(chan int)})
	assert.ErrorContains(t, err, "marshal EVENT_JOB_CREATED event")
}

func TestRedisPublisher_BrokerDown(t *testing.T) {
	p := events.NewRedisPublisher(unreachable(t))

	err := p.Publish(context.Background(), "EVENT_JOB_REMOVED", map[string]any{"title": "test_job1"})
	assert.ErrorContains(t, err, "publish EVENT_JOB_REMOVED")
}

func TestNop(t *testing.T) {
	assert.NoError(t, events.Nop{}.Publish(context.Background(), "any", nil))
}
