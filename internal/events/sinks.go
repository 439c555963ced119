// Package events delivers hierarchy change notifications to their consumers.
package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/alexanderramin/tasktree/internal/hierarchy"
)

// LogSink writes each event as a structured log record.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Publish(ctx context.Context, e hierarchy.Event) {
	s.logger.InfoContext(ctx, "node updated",
		"node_id", e.NodeID,
		"field", e.Field,
		"variant", string(e.Variant),
		"scope", e.Scope,
	)
}

// Publisher is the subset of *redis.Client used by RedisSink.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisSink publishes events as JSON on a pub/sub channel. Failures are
// logged and swallowed; a notification problem never fails a mutation.
type RedisSink struct {
	client  Publisher
	channel string
	logger  *slog.Logger
}

func NewRedisSink(client Publisher, channel string, logger *slog.Logger) *RedisSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisSink{client: client, channel: channel, logger: logger}
}

func (s *RedisSink) Publish(ctx context.Context, e hierarchy.Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		s.logger.ErrorContext(ctx, "encoding event", "node_id", e.NodeID, "error", err)
		return
	}
	if err := s.client.Publish(ctx, s.channel, payload).Err(); err != nil {
		s.logger.WarnContext(ctx, "publishing event to redis",
			"channel", s.channel,
			"node_id", e.NodeID,
			"field", e.Field,
			"error", err,
		)
	}
}

// MultiSink fans an event out to every sink in order.
type MultiSink []hierarchy.Sink

func (m MultiSink) Publish(ctx context.Context, e hierarchy.Event) {
	for _, s := range m {
		if s != nil {
			s.Publish(ctx, e)
		}
	}
}
