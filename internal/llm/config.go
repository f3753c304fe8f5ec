package llm

import (
	"fmt"
	"os"
)

// Config holds client configuration.
type Config struct {
	// APIKey authenticates against the OpenAI API. Required.
	APIKey string

	// BaseURL overrides the API endpoint for OpenAI-compatible servers.
	// Optional.
	BaseURL string
}

// ConfigFromEnv builds a Config from environment variables.
func ConfigFromEnv() Config {
	return Config{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		BaseURL: os.Getenv("ASKGPT_OPENAI_BASE_URL"),
	}
}

// Validate checks that the required credential is present.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	return nil
}
