package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/abhisek/askgpt/cmd"
)

func main() {
	// Load .env if present. Real env vars take precedence.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
