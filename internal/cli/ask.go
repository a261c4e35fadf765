package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	explain      bool
	explainLimit int
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <message...>",
	Short: "Answer one message",
	Long: `Ask matches one message against the knowledge base and prints the
chosen response. Messages that match nothing get a fallback reply.

Example:
  mintassist ask "Tôi muốn tải game PC"
  mintassist ask cài office 2024 --format json
  mintassist ask "link hỏng" --explain`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().BoolVar(&explain, "explain", false, "print the ranked candidates before the answer")
	askCmd.Flags().IntVar(&explainLimit, "top", 5, "candidates shown by --explain")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	p, cfg, logger, err := newPipeline(ctx, cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	message := strings.Join(args, " ")
	out := cmd.OutOrStdout()

	if explain {
		if err := p.Renderer().Explain(out, p.Assistant().Rank(message), explainLimit); err != nil {
			return fmt.Errorf("explain: %w", err)
		}
		fmt.Fprintln(out)
	}

	resp, err := p.Ask(ctx, message)
	if err != nil {
		return err
	}
	if err := p.Renderer().Render(out, resp, cfg.Output.Format); err != nil {
		return err
	}

	return p.FlushMetrics()
}
