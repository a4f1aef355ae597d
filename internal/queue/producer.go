package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

type Producer interface {
	Enqueue(ctx context.Context, task Task) error
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

func NewRedisProducer(client *redis.Client, stream string, logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisProducer{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisProducer) Enqueue(ctx context.Context, task Task) error {
	fields, err := taskValues(task)
	if err != nil {
		return err
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: fields,
	}).Err(); err != nil {
		return fmt.Errorf("enqueue %s: %w", task.TaskType, err)
	}

	p.logger.InfoContext(ctx, "enqueued task",
		"task_type", task.TaskType,
		"action_id", task.ActionID,
		"reminder_id", task.ReminderID,
		"attempt", fields["attempt"])
	return nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}

func taskValues(task Task) (map[string]any, error) {
	attempt := task.Attempt
	if attempt <= 0 {
		attempt = 1
	}

	fields := map[string]any{
		"task_type": string(task.TaskType),
		"attempt":   attempt,
	}

	switch task.TaskType {
	case TaskTypeExecuteAction:
		if task.ActionID == 0 {
			return nil, fmt.Errorf("enqueue %s: missing action id", task.TaskType)
		}
		fields["action_id"] = task.ActionID
	case TaskTypeReminderDue:
		if task.ReminderID == 0 {
			return nil, fmt.Errorf("enqueue %s: missing reminder id", task.TaskType)
		}
		fields["reminder_id"] = task.ReminderID
	default:
		return nil, fmt.Errorf("enqueue: unknown task_type %q", task.TaskType)
	}

	if task.TraceID != nil && *task.TraceID != "" {
		fields["trace_id"] = *task.TraceID
	}
	return fields, nil
}
