package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/askgpt/internal/history"
	"github.com/abhisek/askgpt/internal/logging"
)

// LoggingClient is a decorator that records every completion call in the
// request history.
type LoggingClient struct {
	inner    Client
	recorder history.Recorder
}

// WithLogging wraps a Client with history logging.
func WithLogging(c Client, rec history.Recorder) Client {
	return &LoggingClient{inner: c, recorder: rec}
}

func (l *LoggingClient) CreateCompletion(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.CreateCompletion(ctx, req)

	rec := history.Record{
		Purpose:        PurposeFrom(ctx),
		RequestedModel: req.Model,
		Prompt:         flattenMessages(req.Messages),
		LatencyMs:      time.Since(start).Milliseconds(),
		Success:        err == nil,
	}

	if resp != nil {
		rec.ServedModel = resp.Model
		rec.Response = resp.Text
		rec.InputTokens = resp.Usage.InputTokens
		rec.OutputTokens = resp.Usage.OutputTokens
	}
	if err != nil {
		rec.ErrorMessage = err.Error()
	}

	// Record the call but never fail the request over a logging problem.
	if logErr := l.recorder.Append(ctx, rec); logErr != nil {
		logging.Warnf("failed to record request history: %v", logErr)
	}

	return resp, err
}

func (l *LoggingClient) ListModels(ctx context.Context) ([]string, error) {
	return l.inner.ListModels(ctx)
}

// flattenMessages builds a readable representation of the conversation.
func flattenMessages(messages []Message) string {
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%s]\n%s", m.Role, m.Content)
	}
	return b.String()
}
