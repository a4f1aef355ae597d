package approval

import "errors"

var (
	ErrActionNotPending   = errors.New("action is not awaiting confirmation")
	ErrActionExpired      = errors.New("action expired before it was confirmed")
	ErrUnknownActionType  = errors.New("unknown action type")
	ErrInvalidPayload     = errors.New("invalid action payload")
	ErrExecutorNotEnabled = errors.New("integration for this action is not configured")
)

// ExecutionError tells the state machine whether a failed execution may be
// retried. Only errors raised before any side effect are retryable.
type ExecutionError struct {
	Err       error
	Retryable bool
}

func (e *ExecutionError) Error() string {
	return e.Err.Error()
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

func NewRetryableError(err error) *ExecutionError {
	return &ExecutionError{Err: err, Retryable: true}
}

func NewFatalError(err error) *ExecutionError {
	return &ExecutionError{Err: err, Retryable: false}
}

// IsRetryable reports whether err is an ExecutionError marked retryable.
func IsRetryable(err error) bool {
	var execErr *ExecutionError
	return errors.As(err, &execErr) && execErr.Retryable
}
