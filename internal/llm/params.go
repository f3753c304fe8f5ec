package llm

import "strings"

// maxCompletionTokensPrefixes lists the model families that take the
// max_completion_tokens parameter instead of the legacy max_tokens.
var maxCompletionTokensPrefixes = []string{"gpt-5", "gpt-4o", "o1", "o3", "o4", "gpt-4.1"}

// fixedTemperaturePrefixes lists the model families that reject temperature
// overrides and always run at their default.
var fixedTemperaturePrefixes = []string{"gpt-5", "o1", "o3", "o4"}

// UsesMaxCompletionTokens reports whether the model takes its token limit
// via max_completion_tokens. Prefix match is case-sensitive.
func UsesMaxCompletionTokens(model string) bool {
	return hasAnyPrefix(model, maxCompletionTokensPrefixes)
}

// SupportsCustomTemperature reports whether the model accepts a temperature
// override.
func SupportsCustomTemperature(model string) bool {
	return !hasAnyPrefix(model, fixedTemperaturePrefixes)
}

func hasAnyPrefix(model string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(model, p) {
			return true
		}
	}
	return false
}

// BuildRequest shapes a completion request for the given model. The
// temperature is dropped for models that only accept their default; the
// token limit is carried as-is and mapped onto the right parameter name by
// the vendor client. Token-count validation is the caller's job.
func BuildRequest(model string, messages []Message, maxTokens int, temperature float32) Request {
	req := Request{
		Model:     model,
		Messages:  messages,
		MaxTokens: maxTokens,
	}
	if SupportsCustomTemperature(model) {
		req.Temperature = temperature
	}
	return req
}
