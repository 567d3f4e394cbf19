// Package redisqueue is a durable inbound command source backed by Redis,
// standing in front of the core's in-memory command.Queue (Section 4.1
// "enqueueCommand(cmd) -> accepted: bool"). The core never sees Redis —
// it only ever receives the same command.Command values it would from
// any other source, via Source.Drain. Grounded on
// DowLucas-promptlands' backend/internal/db/redis.go connection style
// (redis.ParseURL with plain-address fallback, Ping on construction).
package redisqueue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/talgya/agentforge/internal/command"
)

// Source pushes and pops command.Command values through a single Redis
// list, acting as a durable, multi-producer front end for a Runner's
// in-memory queue.
type Source struct {
	client *redis.Client
	key    string
}

// Open connects to addr (a redis:// URL or a plain host:port) and
// verifies the connection with a Ping, mirroring the teacher's
// connect-then-ping pattern.
func Open(ctx context.Context, addr, listKey string) (*Source, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{Addr: addr}
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Source{client: client, key: listKey}, nil
}

// Close releases the underlying Redis client.
func (s *Source) Close() error { return s.client.Close() }

// Push enqueues one command durably. Any producer (an HTTP handler,
// another process) can call this without importing the core at all.
func (s *Source) Push(ctx context.Context, cmd command.Command) error {
	data, err := msgpack.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("marshal command: %w", err)
	}
	return s.client.LPush(ctx, s.key, data).Err()
}

// Drain pops up to max pending commands (oldest first) and decodes them,
// ready to be handed one-by-one to a Runner's EnqueueCommand. A decode
// failure on one entry is skipped rather than aborting the whole drain.
func (s *Source) Drain(ctx context.Context, max int) ([]command.Command, error) {
	if max <= 0 {
		return nil, nil
	}
	cmds := make([]command.Command, 0, max)
	for i := 0; i < max; i++ {
		data, err := s.client.RPop(ctx, s.key).Bytes()
		if err == redis.Nil {
			break
		}
		if err != nil {
			return cmds, fmt.Errorf("pop command: %w", err)
		}
		var cmd command.Command
		if err := msgpack.Unmarshal(data, &cmd); err != nil {
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

// Len reports how many commands are currently queued in Redis.
func (s *Source) Len(ctx context.Context) (int64, error) {
	return s.client.LLen(ctx, s.key).Result()
}
