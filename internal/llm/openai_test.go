package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

// bodyCapture records the JSON body of the last request the fake server saw.
type bodyCapture struct {
	mu   sync.Mutex
	body map[string]any
}

func (c *bodyCapture) record(r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var parsed map[string]any
	_ = json.Unmarshal(raw, &parsed)
	c.mu.Lock()
	c.body = parsed
	c.mu.Unlock()
}

func (c *bodyCapture) get() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.body
}

func newTestOpenAIClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"

	return &OpenAIClient{client: openai.NewClientWithConfig(config)}
}

func completionHandler(capture *bodyCapture, content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		capture.record(r)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1234567890,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{
				{
					"index": 0,
					"message": map[string]any{
						"role":    "assistant",
						"content": content,
					},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]any{
				"prompt_tokens":     40,
				"completion_tokens": 25,
				"total_tokens":      65,
			},
		})
	}
}

func TestCreateCompletion_NewTokenParameterShape(t *testing.T) {
	capture := &bodyCapture{}
	c := newTestOpenAIClient(t, completionHandler(capture, "Why do we dream?"))

	req := BuildRequest("gpt-5", []Message{{Role: RoleUser, Content: "ask me something"}}, 256, 0.9)
	resp, err := c.CreateCompletion(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "Why do we dream?" {
		t.Fatalf("unexpected text: %q", resp.Text)
	}

	body := capture.get()
	if got, ok := body["max_completion_tokens"]; !ok || got != float64(256) {
		t.Errorf("expected max_completion_tokens=256, got %v (present=%v)", got, ok)
	}
	if _, ok := body["max_tokens"]; ok {
		t.Error("legacy max_tokens must not be sent for gpt-5")
	}
	if _, ok := body["temperature"]; ok {
		t.Error("temperature must not be sent for gpt-5")
	}
}

func TestCreateCompletion_LegacyTokenParameterShape(t *testing.T) {
	capture := &bodyCapture{}
	c := newTestOpenAIClient(t, completionHandler(capture, "Because the brain consolidates memories."))

	req := BuildRequest("gpt-3.5-turbo", []Message{{Role: RoleUser, Content: "why do we dream?"}}, 256, 0.7)
	if _, err := c.CreateCompletion(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := capture.get()
	if got, ok := body["max_tokens"]; !ok || got != float64(256) {
		t.Errorf("expected max_tokens=256, got %v (present=%v)", got, ok)
	}
	if _, ok := body["max_completion_tokens"]; ok {
		t.Error("max_completion_tokens must not be sent for gpt-3.5-turbo")
	}
	got, ok := body["temperature"].(float64)
	if !ok || got < 0.69 || got > 0.71 {
		t.Errorf("expected temperature 0.7, got %v", body["temperature"])
	}
}

func TestCreateCompletion_UsageAndModelReported(t *testing.T) {
	capture := &bodyCapture{}
	c := newTestOpenAIClient(t, completionHandler(capture, "An answer of reasonable length."))

	resp, err := c.CreateCompletion(context.Background(), BuildRequest(
		"gpt-4o", []Message{{Role: RoleUser, Content: "hi"}}, 128, 0.7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.InputTokens != 40 || resp.Usage.OutputTokens != 25 || resp.Usage.TotalTokens != 65 {
		t.Errorf("unexpected usage: %+v", resp.Usage)
	}
	if resp.Model != "gpt-4o-mini" {
		t.Errorf("expected served model from response body, got %q", resp.Model)
	}
}

func TestCreateCompletion_NoChoices(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"model":   "gpt-4o",
			"choices": []map[string]any{},
		})
	}
	c := newTestOpenAIClient(t, handler)

	_, err := c.CreateCompletion(context.Background(), BuildRequest(
		"gpt-4o", []Message{{Role: RoleUser, Content: "hi"}}, 128, 0.7))
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestCreateCompletion_RateLimitMapped(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": "rate limit exceeded",
				"type":    "requests",
			},
		})
	}
	c := newTestOpenAIClient(t, handler)

	_, err := c.CreateCompletion(context.Background(), BuildRequest(
		"gpt-4o", []Message{{Role: RoleUser, Content: "hi"}}, 128, 0.7))
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %v", err)
	}
}

func TestCreateCompletion_ServerErrorMapped(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": "upstream exploded",
				"type":    "server_error",
			},
		})
	}
	c := newTestOpenAIClient(t, handler)

	_, err := c.CreateCompletion(context.Background(), BuildRequest(
		"gpt-4o", []Message{{Role: RoleUser, Content: "hi"}}, 128, 0.7))
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestListModels(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data": []map[string]any{
				{"id": "gpt-5", "object": "model"},
				{"id": "gpt-4o", "object": "model"},
				{"id": "gpt-4o-mini", "object": "model"},
			},
		})
	}
	c := newTestOpenAIClient(t, handler)

	ids, err := c.ListModels(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"gpt-5", "gpt-4o", "gpt-4o-mini"}
	if len(ids) != len(want) {
		t.Fatalf("expected %d models, got %d", len(want), len(ids))
	}
	for i, id := range want {
		if ids[i] != id {
			t.Errorf("model %d: expected %q, got %q", i, id, ids[i])
		}
	}
}

func TestListModels_ErrorMapped(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	c := newTestOpenAIClient(t, handler)

	_, err := c.ListModels(context.Background())
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}
