// Package ask drives question and answer generation with the fallback
// policy: one weak-response retry from the default model, and a bounded
// walk over the static fallback list when the endpoint errors.
package ask

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/askgpt/internal/catalog"
	"github.com/abhisek/askgpt/internal/llm"
	"github.com/abhisek/askgpt/internal/logging"
)

const (
	// questionTemperature biases question generation towards creativity.
	questionTemperature = 0.9
	answerTemperature   = 0.7

	// weakResponseMin is the minimum trimmed length, in runes, below
	// which a response counts as weak.
	weakResponseMin = 10
)

// Result is one generated text and the model that actually produced it.
type Result struct {
	Text  string
	Model string
}

// Generator runs completions against a Client with fallback handling.
type Generator struct {
	client llm.Client
}

// New creates a Generator on the given client.
func New(client llm.Client) *Generator {
	return &Generator{client: client}
}

// Question generates a question, optionally about a specific topic.
func (g *Generator) Question(ctx context.Context, topic, model string, maxTokens int) (Result, error) {
	prompt := "Generate an interesting and thought-provoking question about any topic. Only provide the question, no answer."
	if topic != "" {
		prompt = fmt.Sprintf("Generate an interesting and thought-provoking question about %s. Only provide the question, no answer.", topic)
	}

	ctx = llm.WithPurpose(ctx, "question-gen")
	return g.generate(ctx, prompt, model, maxTokens, questionTemperature)
}

// Answer answers the given question verbatim.
func (g *Generator) Answer(ctx context.Context, question, model string, maxTokens int) (Result, error) {
	ctx = llm.WithPurpose(ctx, "answer-gen")
	return g.generate(ctx, question, model, maxTokens, answerTemperature)
}

// generate makes one attempt with the requested model and, on endpoint
// errors, walks the static fallback list with an already-tried set. The
// walk is a bounded loop, so exhaustion terminates it even if candidates
// keep failing.
func (g *Generator) generate(ctx context.Context, prompt, model string, maxTokens int, temperature float32) (Result, error) {
	res, err := g.attempt(ctx, prompt, model, maxTokens, temperature)
	if err == nil {
		return res, nil
	}

	tried := map[string]bool{model: true}
	lastErr := err

	for _, candidate := range catalog.FallbackModels {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		if errors.Is(lastErr, context.Canceled) || errors.Is(lastErr, context.DeadlineExceeded) {
			return Result{}, lastErr
		}
		if tried[candidate] {
			continue
		}
		tried[candidate] = true

		logging.Debugf("model %s failed (%v), trying %s", model, lastErr, candidate)

		res, err = g.attempt(ctx, prompt, candidate, maxTokens, temperature)
		if err == nil {
			return res, nil
		}
		lastErr = err
	}

	return Result{}, lastErr
}

// attempt runs a single completion plus the one-shot weak-response retry.
func (g *Generator) attempt(ctx context.Context, prompt, model string, maxTokens int, temperature float32) (Result, error) {
	text, err := g.complete(ctx, prompt, model, maxTokens, temperature)
	if err != nil {
		return Result{}, err
	}

	if utf8.RuneCountInString(text) < weakResponseMin {
		logging.Debugf("model %s returned an empty or very short response: %q", model, text)

		// The short-response retry only fires from the default model,
		// and its result is final even if also weak. A weak response
		// from any other model is returned unchanged.
		if model == catalog.DefaultModel {
			logging.Debugf("trying with %s as fallback", catalog.WeakRetryModel)

			text, err = g.complete(ctx, prompt, catalog.WeakRetryModel, maxTokens, temperature)
			if err != nil {
				return Result{}, err
			}
			return Result{Text: text, Model: catalog.WeakRetryModel}, nil
		}
	}

	return Result{Text: text, Model: model}, nil
}

// complete issues one completion call and trims the returned text.
func (g *Generator) complete(ctx context.Context, prompt, model string, maxTokens int, temperature float32) (string, error) {
	req := llm.BuildRequest(
		model,
		[]llm.Message{{Role: llm.RoleUser, Content: prompt}},
		maxTokens,
		temperature,
	)

	resp, err := g.client.CreateCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}
