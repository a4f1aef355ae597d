package llm

import (
	"context"
	"errors"
	"log/slog"
	"net"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
)

// IsRetryable reports whether a provider call may succeed if repeated:
// rate limits, 5xx, overload and network failures. Cancellation is final.
func IsRetryable(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		slog.DebugContext(ctx, "llm error not retryable: context cancelled or deadline exceeded")
		return false
	}

	status := 0
	var openaiErr *openai.Error
	var anthropicErr *anthropic.Error
	switch {
	case errors.As(err, &openaiErr):
		status = openaiErr.StatusCode
	case errors.As(err, &anthropicErr):
		status = anthropicErr.StatusCode
	}

	if status != 0 {
		switch {
		case status == 429:
			slog.WarnContext(ctx, "llm rate limited, will retry", "status_code", status)
			return true
		case status >= 500:
			slog.WarnContext(ctx, "llm server error, will retry", "status_code", status)
			return true
		default:
			slog.ErrorContext(ctx, "llm client error, not retryable", "status_code", status)
			return false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return false
}
