package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/minthub/mintassist/internal/model"
	"github.com/minthub/mintassist/internal/worker"
)

var (
	concurrency  int
	outputFile   string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Answer many questions from a file in parallel",
	Long: `Batch answers one question per line concurrently:
- Blank lines and lines starting with # are skipped
- "-" reads questions from stdin
- Results are written as JSON lines in input order

Example:
  mintassist batch questions.txt
  mintassist batch questions.txt --concurrency 8 --out answers.jsonl
  cat questions.txt | mintassist batch -`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: concurrency.workers)")
	batchCmd.Flags().StringVarP(&outputFile, "out", "o", "", "output file (default: stdout)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

// batchLine is one JSON line of batch output
type batchLine struct {
	Index    int                   `json:"index"`
	Question string                `json:"question"`
	Response *model.ChosenResponse `json:"response,omitempty"`
	Error    string                `json:"error,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, batchTimeout)
	defer cancel()

	var questions []string
	if args[0] == "-" {
		questions, err = worker.ReadQuestions(cmd.InOrStdin())
	} else {
		questions, err = worker.ReadQuestionsFromFile(args[0])
	}
	if err != nil {
		return err
	}

	p, _, logger, err := newPipeline(ctx, cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	out := cmd.OutOrStdout()
	if outputFile != "" {
		f, createErr := os.Create(outputFile)
		if createErr != nil {
			return fmt.Errorf("create output file: %w", createErr)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close output file: %w", closeErr)
			}
		}()
		out = f
	}

	results := p.Batch(ctx, questions, concurrency)

	failures, err := writeBatch(out, results)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "✓ Answered %d questions (%d failed)\n", len(results)-failures, failures)

	return p.FlushMetrics()
}

// writeBatch writes results as JSON lines and returns the failure count
func writeBatch(w io.Writer, results []*worker.AskResult) (int, error) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	failures := 0
	for _, r := range results {
		line := batchLine{Index: r.Index, Question: r.Question, Response: r.Response}
		if r.Error != nil {
			failures++
			line.Error = r.Error.Error()
		}
		if err := enc.Encode(line); err != nil {
			return failures, fmt.Errorf("write result: %w", err)
		}
	}
	return failures, nil
}
