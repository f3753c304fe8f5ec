package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/abhisek/askgpt/internal/llm"
)

func TestLoad_FetchedListSupersedesStatic(t *testing.T) {
	mock := llm.NewMockClient()
	mock.ModelIDs = []string{"gpt-4o", "gpt-4o", "ft:gpt-4o:acme", "gpt-4o-mini"}

	r := Load(context.Background(), mock)
	if !r.Fetched() {
		t.Fatal("expected registry to be marked as fetched")
	}

	want := []string{"gpt-4o", "ft:gpt-4o:acme", "gpt-4o-mini"}
	got := r.Models()
	if len(got) != len(want) {
		t.Fatalf("expected %d models after dedup, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("model %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	if r.Contains("gpt-5") {
		t.Error("fetched list must supersede the static list for validation")
	}
	if !r.Contains("ft:gpt-4o:acme") {
		t.Error("expected fetched model to validate")
	}
}

func TestLoad_FetchFailureFallsBack(t *testing.T) {
	mock := llm.NewMockClient()
	mock.ListErr = &llm.ErrProviderUnavailable{Err: errors.New("listing down")}

	r := Load(context.Background(), mock)
	if r.Fetched() {
		t.Fatal("expected fallback registry")
	}

	got := r.Models()
	if len(got) != len(FallbackModels) {
		t.Fatalf("expected static list, got %v", got)
	}
	for i := range FallbackModels {
		if got[i] != FallbackModels[i] {
			t.Errorf("model %d: expected %q, got %q", i, FallbackModels[i], got[i])
		}
	}
}

func TestLoad_EmptyListingFallsBack(t *testing.T) {
	mock := llm.NewMockClient() // no ModelIDs configured

	r := Load(context.Background(), mock)
	if r.Fetched() {
		t.Fatal("an empty listing must not supersede the static list")
	}
	if !r.Contains(DefaultModel) {
		t.Errorf("static registry must contain the default model %q", DefaultModel)
	}
}

func TestStaticListContainsRetryModels(t *testing.T) {
	r := Load(context.Background(), failingClient{})
	if !r.Contains(DefaultModel) {
		t.Errorf("fallback list missing default model %q", DefaultModel)
	}
	if !r.Contains(WeakRetryModel) {
		t.Errorf("fallback list missing weak-retry model %q", WeakRetryModel)
	}
}

// failingClient errors on every call.
type failingClient struct{}

func (failingClient) CreateCompletion(context.Context, llm.Request) (*llm.Response, error) {
	return nil, &llm.ErrProviderUnavailable{}
}

func (failingClient) ListModels(context.Context) ([]string, error) {
	return nil, &llm.ErrProviderUnavailable{}
}
