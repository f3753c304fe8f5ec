package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/askgpt/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded completion requests",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent completion requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		store, err := openHistoryStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.Recent(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("query history: %w", err)
		}

		if len(records) == 0 {
			fmt.Println("No requests recorded yet.")
			return nil
		}

		fmt.Printf("%-19s  %-14s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 94))

		for _, rec := range records {
			ok := "✓"
			if !rec.Success {
				ok = "✗"
			}
			model := rec.ServedModel
			if model == "" {
				model = rec.RequestedModel
			}
			model = truncate(model, 28)
			fmt.Printf("%-19s  %-14s  %-28s  %-6d  %-6d  %-7d  %s\n",
				rec.Timestamp.Local().Format("2006-01-02 15:04:05"),
				rec.Purpose,
				model,
				rec.InputTokens,
				rec.OutputTokens,
				rec.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated token usage per purpose",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistoryStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		stats, err := store.Usage(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		if len(stats) == 0 {
			fmt.Println("No usage recorded yet.")
			return nil
		}

		fmt.Printf("%-16s  %6s  %10s  %10s  %10s  %8s\n",
			"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
		fmt.Println(strings.Repeat("─", 72))

		var totalCalls, totalIn, totalOut int
		for _, st := range stats {
			total := st.InputTokens + st.OutputTokens
			fmt.Printf("%-16s  %6d  %10d  %10d  %10d  %8d\n",
				st.Purpose, st.Calls, st.InputTokens, st.OutputTokens, total, st.AvgLatencyMs)
			totalCalls += st.Calls
			totalIn += st.InputTokens
			totalOut += st.OutputTokens
		}

		fmt.Println(strings.Repeat("─", 72))
		fmt.Printf("%-16s  %6d  %10d  %10d  %10d\n",
			"TOTAL", totalCalls, totalIn, totalOut, totalIn+totalOut)

		return nil
	},
}

// truncate shortens s to at most max runes. Truncating on rune boundaries
// keeps multibyte model ids intact in the table.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// openHistoryStore opens the history database for inspection. Unlike the
// ask flow, a failure here is fatal: the subcommand has nothing else to do.
func openHistoryStore(cmd *cobra.Command) (*history.Store, error) {
	path, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve history database path: %w", err)
	}
	store, err := history.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	return store, nil
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyStatsCmd)
}
