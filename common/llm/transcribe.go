package llm

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/openai/openai-go"
)

// Transcriber turns voice notes into text for the agent.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename, contentType string) (string, error)
}

type whisperTranscriber struct {
	client openai.Client
	model  string
}

// NewTranscriber returns a Whisper-backed Transcriber. Only the OpenAI
// provider offers speech-to-text.
func NewTranscriber(cfg Config) (Transcriber, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = string(openai.AudioModelWhisper1)
	}

	return &whisperTranscriber{
		client: openai.NewClient(openAIOptions(cfg)...),
		model:  model,
	}, nil
}

func (t *whisperTranscriber) Transcribe(ctx context.Context, audio io.Reader, filename, contentType string) (string, error) {
	start := time.Now()
	resp, err := t.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:  openai.File(audio, filename, contentType),
		Model: openai.AudioModel(t.model),
	})
	if err != nil {
		return "", fmt.Errorf("transcribe audio: %w", err)
	}

	slog.DebugContext(ctx, "audio transcribed",
		"model", t.model,
		"chars", len(resp.Text),
		"duration_ms", time.Since(start).Milliseconds())

	return resp.Text, nil
}
