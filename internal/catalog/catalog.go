// Package catalog holds the known-model registry: the static fallback list,
// the default model, and the validated model set for one invocation.
package catalog

import (
	"context"

	"github.com/abhisek/askgpt/internal/llm"
	"github.com/abhisek/askgpt/internal/logging"
)

const (
	// DefaultModel is queried when no --model is given.
	DefaultModel = "gpt-5"

	// WeakRetryModel is substituted when the default model returns an
	// empty or very short response.
	WeakRetryModel = "gpt-4o"
)

// FallbackModels is the static ordered model list. It validates requested
// models when the live listing cannot be fetched and supplies the candidate
// order when a completion call fails.
var FallbackModels = []string{
	"gpt-5",
	"gpt-4o",
	"gpt-4o-mini",
	"gpt-4-turbo",
	"gpt-4",
	"gpt-3.5-turbo",
}

// Registry is the validated model set for one process invocation.
// Populated once by Load and read-only afterwards.
type Registry struct {
	models  []string
	fetched bool
}

// Load builds the Registry, attempting one live model listing first.
// Fetch failures are swallowed: a diagnostic is emitted and the static
// fallback list is used instead.
func Load(ctx context.Context, client llm.Client) *Registry {
	ids, err := client.ListModels(ctx)
	if err != nil {
		logging.Warnf("error fetching models: %v", err)
		logging.Debugf("using fallback model list")
		return &Registry{models: dedupe(FallbackModels)}
	}
	if len(ids) == 0 {
		return &Registry{models: dedupe(FallbackModels)}
	}
	return &Registry{models: dedupe(ids), fetched: true}
}

// Models returns the registry contents in order.
func (r *Registry) Models() []string {
	out := make([]string, len(r.models))
	copy(out, r.models)
	return out
}

// Contains reports whether model is in the registry.
func (r *Registry) Contains(model string) bool {
	for _, m := range r.models {
		if m == model {
			return true
		}
	}
	return false
}

// Fetched reports whether the registry came from a live listing rather
// than the static fallback list.
func (r *Registry) Fetched() bool {
	return r.fetched
}

// dedupe removes duplicates preserving first-seen order.
func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, m := range in {
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}
