package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultStatusMaxLen = 1000

type StatusPublisher interface {
	Publish(ctx context.Context, event StatusEvent) error
}

// StatusReader tails the status stream. Pass "$" to start from new events
// only, or the StreamID of the last event seen to resume.
type StatusReader interface {
	Read(ctx context.Context, after string, block time.Duration) ([]StatusEvent, error)
}

// StatusStream is a capped Redis stream of StatusEvents.
type StatusStream struct {
	client *redis.Client
	stream string
	maxLen int64
}

func NewStatusStream(client *redis.Client, stream string) *StatusStream {
	return &StatusStream{client: client, stream: stream, maxLen: defaultStatusMaxLen}
}

func (s *StatusStream) Publish(ctx context.Context, event StatusEvent) error {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal status event: %w", err)
	}

	if err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: map[string]any{"event": string(data)},
	}).Err(); err != nil {
		return fmt.Errorf("xadd status (stream=%s): %w", s.stream, err)
	}
	return nil
}

func (s *StatusStream) Read(ctx context.Context, after string, block time.Duration) ([]StatusEvent, error) {
	if after == "" {
		after = "$"
	}

	streams, err := s.client.XRead(ctx, &redis.XReadArgs{
		Streams: []string{s.stream, after},
		Count:   50,
		Block:   block,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("xread status (stream=%s): %w", s.stream, err)
	}

	var events []StatusEvent
	for _, stream := range streams {
		for _, msg := range stream.Messages {
			event, err := ParseStatusEvent(msg)
			if err != nil {
				continue
			}
			events = append(events, event)
		}
	}
	return events, nil
}

func ParseStatusEvent(msg redis.XMessage) (StatusEvent, error) {
	raw, err := parseString(msg.Values, "event")
	if err != nil {
		return StatusEvent{}, err
	}
	var event StatusEvent
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		return StatusEvent{}, fmt.Errorf("parsing status event: %w", err)
	}
	event.StreamID = msg.ID
	return event, nil
}
