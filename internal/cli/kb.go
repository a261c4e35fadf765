package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/minthub/mintassist/internal/pipeline"
)

// kbCmd represents the kb command
var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Inspect the knowledge base",
}

var kbValidateCmd = &cobra.Command{
	Use:   "validate [source]",
	Short: "Load a knowledge base and report its entries",
	Long: `Validate loads a knowledge base file or URL (default: the configured
source) and reports how many entries it has. Entries without keywords are
listed because they can never match.

Example:
  mintassist kb validate ./chatbot.yaml
  mintassist kb validate https://example.com/chatbot.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runKBValidate,
}

var kbShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the entries of the configured knowledge base",
	Args:  cobra.NoArgs,
	RunE:  runKBShow,
}

func init() {
	rootCmd.AddCommand(kbCmd)
	kbCmd.AddCommand(kbValidateCmd, kbShowCmd)
}

func runKBValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.Knowledge.Source = args[0]
		cfg.Knowledge.Format = ""
	}
	cfg.Knowledge.Required = true

	f := pipeline.NewFetcher(cfg.HTTP)
	base, _, err := pipeline.LoadKnowledge(ctx, f, cfg.Knowledge, nil)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	source := cfg.Knowledge.Source
	if source == "" {
		source = "embedded"
	}
	fmt.Fprintf(out, "✓ %s: %d entries\n", source, base.Len())

	for _, i := range base.Dead() {
		fmt.Fprintf(out, "⚠ entry %d has no usable keywords and never matches\n", i)
	}
	return nil
}

func runKBShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	p, _, logger, err := newPipeline(ctx, cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tKEYWORDS\tLINK\tANSWER")
	for i, e := range p.Assistant().KnowledgeBase().Entries() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i, strings.Join(e.Keywords, ", "), e.RelatedLink, firstLine(e.Answer))
	}
	return tw.Flush()
}

// firstLine returns the first line of s, shortened for table output
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if r := []rune(s); len(r) > 60 {
		s = string(r[:57]) + "..."
	}
	return s
}
