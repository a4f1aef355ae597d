package worker

import (
	"context"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/queue"
)

// Consumer abstracts the message queue for testability.
type Consumer interface {
	Read(ctx context.Context) ([]queue.Message, error)
	Ack(ctx context.Context, msg queue.Message) error
	Requeue(ctx context.Context, msg queue.Message, errMsg string) error
	SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error
}

// TaskProcessor handles one decoded task. Returning an error that wraps
// ErrRetryLater asks for the message to be requeued regardless of attempts.
type TaskProcessor interface {
	Process(ctx context.Context, msg queue.Message) error
}

// Notifier delivers a plain text message to a chat.
type Notifier interface {
	Notify(ctx context.Context, channel model.Channel, chatID, text string) error
}
