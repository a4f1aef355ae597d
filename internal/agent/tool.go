package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"unicode/utf8"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/llm"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/logger"
)

// maxResultBytes caps a single tool result handed back to the model.
const maxResultBytes = 24000

type ToolKind string

const (
	ToolRead  ToolKind = "read"
	ToolWrite ToolKind = "write"
)

// HandlerFunc receives the raw JSON arguments from the model. The returned
// value is marshalled to JSON.
type HandlerFunc func(ctx context.Context, args string) (any, error)

type Tool struct {
	Definition llm.Tool
	Kind       ToolKind
	// RequiresConfirmation tools stage a pending action instead of acting.
	// Execute rejects any other result from them.
	RequiresConfirmation bool
	Handler              HandlerFunc
}

// Typed adapts a handler that takes decoded arguments.
func Typed[T any](fn func(ctx context.Context, args T) (any, error)) HandlerFunc {
	return func(ctx context.Context, raw string) (any, error) {
		args, err := llm.ParseToolArguments[T](raw)
		if err != nil {
			return nil, err
		}
		return fn(ctx, args)
	}
}

type Registry struct {
	tools map[string]Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: map[string]Tool{}}
}

func (r *Registry) Register(tool Tool) {
	name := tool.Definition.Name
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = tool
}

func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

func (r *Registry) Names() []string {
	names := append([]string(nil), r.order...)
	sort.Strings(names)
	return names
}

// Definitions returns tool schemas in registration order.
func (r *Registry) Definitions() []llm.Tool {
	defs := make([]llm.Tool, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition)
	}
	return defs
}

// IsWrite reports whether a call must run on the sequential write path.
// Unknown tools are treated as reads; they only produce an error result.
func (r *Registry) IsWrite(name string) bool {
	t, ok := r.tools[name]
	return ok && t.Kind == ToolWrite
}

// Execute runs one tool call and always returns a JSON string. Failures
// become {"error": "..."} so the loop can carry on.
func (r *Registry) Execute(ctx context.Context, call llm.ToolCall) (result string) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{ToolName: &call.Name})

	tool, ok := r.tools[call.Name]
	if !ok {
		slog.WarnContext(ctx, "model called unknown tool")
		return errorResult(fmt.Errorf("unknown tool: %s", call.Name))
	}

	defer func() {
		if rec := recover(); rec != nil {
			slog.ErrorContext(ctx, "panic recovered in tool", "panic", rec)
			result = errorResult(fmt.Errorf("tool %s failed unexpectedly", call.Name))
		}
	}()

	value, err := tool.Handler(ctx, call.Arguments)
	if err != nil {
		slog.InfoContext(ctx, "tool returned error", "error", err)
		return errorResult(err)
	}

	if tool.RequiresConfirmation {
		if _, staged := value.(stagedResult); !staged {
			slog.ErrorContext(ctx, "confirmation tool returned without staging an action",
				"result_type", fmt.Sprintf("%T", value))
			return errorResult(fmt.Errorf("tool %s did not stage an action for confirmation", call.Name))
		}
	}

	data, err := json.Marshal(value)
	if err != nil {
		return errorResult(fmt.Errorf("encoding result: %w", err))
	}
	if len(data) > maxResultBytes {
		slog.InfoContext(ctx, "tool result truncated", "bytes", len(data))
		return truncatedResult(data, maxResultBytes)
	}
	return string(data)
}

type partialResult struct {
	Truncated bool   `json:"truncated"`
	Bytes     int    `json:"original_bytes"`
	Partial   string `json:"partial"`
}

// truncatedResult wraps the head of an oversized result in a JSON envelope
// no longer than limit. The cut never splits a UTF-8 sequence.
func truncatedResult(data []byte, limit int) string {
	keep := limit
	for keep > 0 {
		head := data[:min(keep, len(data))]
		for len(head) > 0 && !utf8.Valid(head) {
			head = head[:len(head)-1]
		}
		out, err := json.Marshal(partialResult{Truncated: true, Bytes: len(data), Partial: string(head)})
		if err == nil && len(out) <= limit {
			return string(out)
		}
		// Escaping grows the text; retry with less of it.
		keep /= 2
	}
	out, _ := json.Marshal(partialResult{Truncated: true, Bytes: len(data)})
	return string(out)
}

func errorResult(err error) string {
	data, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(data)
}
