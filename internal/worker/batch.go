package worker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/minthub/mintassist/internal/model"
)

// Answerer produces a response for one question
type Answerer interface {
	Ask(ctx context.Context, question string) (model.ChosenResponse, error)
}

// AskJob answers one line of a batch file
type AskJob struct {
	Index    int
	Question string
	Answerer Answerer
}

// Execute runs the job
func (j *AskJob) Execute(ctx context.Context) Result {
	resp, err := j.Answerer.Ask(ctx, j.Question)
	if err != nil {
		return &AskResult{Index: j.Index, Question: j.Question, Error: err}
	}
	return &AskResult{Index: j.Index, Question: j.Question, Response: &resp}
}

// AskResult is the outcome of one AskJob
type AskResult struct {
	Index    int
	Question string
	Response *model.ChosenResponse
	Error    error
}

// GetError returns the job error
func (r *AskResult) GetError() error {
	return r.Error
}

// BatchProcessor answers many questions concurrently
type BatchProcessor struct {
	answerer    Answerer
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(answerer Answerer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		answerer:    answerer,
		concurrency: concurrency,
	}
}

// ProcessQuestions answers questions and returns results in input order.
// Questions not started before ctx is cancelled carry ctx's error.
func (b *BatchProcessor) ProcessQuestions(ctx context.Context, questions []string) []*AskResult {
	if len(questions) == 0 {
		return []*AskResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, q := range questions {
		pool.Submit(&AskJob{Index: i, Question: q, Answerer: b.answerer})
	}

	results := make([]*AskResult, len(questions))
	for _, r := range pool.Wait() {
		ar := r.(*AskResult)
		results[ar.Index] = ar
	}

	for i, r := range results {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			results[i] = &AskResult{Index: i, Question: questions[i], Error: err}
		}
	}

	return results
}

// ProcessFile reads questions from a file and answers them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*AskResult, error) {
	questions, err := ReadQuestionsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}

	return b.ProcessQuestions(ctx, questions), nil
}

// ReadQuestionsFromFile reads one question per line. "-" reads stdin.
func ReadQuestionsFromFile(filePath string) ([]string, error) {
	if filePath == "-" {
		return ReadQuestions(os.Stdin)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ReadQuestions(file)
}

// ReadQuestions reads one question per line, skipping blank lines and
// lines starting with '#'. Duplicates are kept so output lines up with input.
func ReadQuestions(r io.Reader) ([]string, error) {
	var questions []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		questions = append(questions, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan questions: %w", err)
	}

	return questions, nil
}
