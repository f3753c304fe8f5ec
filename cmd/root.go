package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/abhisek/askgpt/internal/ask"
	"github.com/abhisek/askgpt/internal/catalog"
	"github.com/abhisek/askgpt/internal/history"
	"github.com/abhisek/askgpt/internal/llm"
	"github.com/abhisek/askgpt/internal/logging"
)

// defaultMaxTokens caps question and answer generation when no override
// is given.
const defaultMaxTokens = 512

var rootCmd = &cobra.Command{
	Use:   "askgpt",
	Short: "A command line interface to ChatGPT",
	Long: "askgpt — generate a question with an OpenAI model and have the " +
		"same model family answer it.",
	SilenceUsage: true,
	RunE:         runAsk,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().Bool("random", false, "Generate a random question and get its answer")
	rootCmd.Flags().String("topic", "", "Generate a question about a specific topic and get its answer")
	rootCmd.Flags().String("question", "", "Ask a specific question and get its answer")
	rootCmd.Flags().String("model", catalog.DefaultModel, "OpenAI model to use")
	rootCmd.Flags().Int("question-tokens", defaultMaxTokens, "Maximum tokens for question generation")
	rootCmd.Flags().Int("answer-tokens", defaultMaxTokens, "Maximum tokens for answer generation")
	rootCmd.MarkFlagsMutuallyExclusive("random", "topic", "question")
	rootCmd.MarkFlagsOneRequired("random", "topic", "question")

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output showing warnings and fallback attempts")
	rootCmd.PersistentFlags().String("db", "", "Path to the history database (overrides ASKGPT_DB)")

	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	debug, _ := cmd.Flags().GetBool("debug")
	logging.SetVerbose(debug)

	topic, _ := cmd.Flags().GetString("topic")
	question, _ := cmd.Flags().GetString("question")
	model, _ := cmd.Flags().GetString("model")
	questionTokens, _ := cmd.Flags().GetInt("question-tokens")
	answerTokens, _ := cmd.Flags().GetInt("answer-tokens")

	if questionTokens <= 0 || answerTokens <= 0 {
		return fmt.Errorf("token counts must be positive integers")
	}

	cfg := llm.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		return err
	}

	client, err := llm.NewOpenAIClient(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	registry := catalog.Load(ctx, client)
	if !registry.Contains(model) {
		return fmt.Errorf("invalid model %q; run \"askgpt models\" to list available models", model)
	}

	wired := llm.Client(client)
	if store := openHistory(cmd); store != nil {
		defer store.Close()
		wired = llm.WithLogging(client, store)
	}
	gen := ask.New(wired)

	questionText := question
	if questionText == "" {
		fmt.Println("Generating question...")
		res, err := gen.Question(ctx, topic, model, questionTokens)
		if err != nil {
			return cancelOr(ctx, err)
		}
		fmt.Printf("Question (via %s): %s\n", res.Model, res.Text)
		questionText = res.Text
	} else {
		fmt.Printf("Question: %s\n", questionText)
	}

	fmt.Println("\nGenerating answer...")
	res, err := gen.Answer(ctx, questionText, model, answerTokens)
	if err != nil {
		return cancelOr(ctx, err)
	}
	fmt.Printf("Answer (via %s): %s\n", res.Model, res.Text)

	return nil
}

// openHistory opens the request history store. History is best-effort: any
// failure is reported as a warning and the run continues without logging.
func openHistory(cmd *cobra.Command) *history.Store {
	path, err := resolveDBPath(cmd)
	if err != nil {
		logging.Warnf("request history disabled: %v", err)
		return nil
	}
	store, err := history.Open(path)
	if err != nil {
		logging.Warnf("request history disabled: %v", err)
		return nil
	}
	return store
}

// resolveDBPath returns the history database path using --db (highest
// priority), then ASKGPT_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, history.EnsureDir(p)
	}
	return history.DefaultDBPath()
}

// cancelOr translates a user interrupt into a clean message; any other
// error is returned as-is.
func cancelOr(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("operation cancelled by user")
	}
	return err
}
