// Package assistant picks the best knowledge base answer for a user message.
package assistant

import (
	"context"
	"math"
	"math/rand/v2"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/minthub/mintassist/internal/knowledge"
	"github.com/minthub/mintassist/internal/model"
	"github.com/minthub/mintassist/internal/score"
)

// Recorder observes every response handed to a caller
type Recorder interface {
	Record(resp model.ChosenResponse)
}

// Chooser returns an index in [0, n)
type Chooser func(n int) int

// Assistant answers messages from an immutable knowledge base snapshot.
// Respond and Ask are safe for concurrent use.
type Assistant struct {
	kb        atomic.Pointer[knowledge.Base]
	scorer    *score.Scorer
	fallbacks []Fallback
	choose    Chooser
	pacer     Pacer
	recorder  Recorder
	logger    *zap.Logger
}

// Option configures an Assistant
type Option func(*Assistant)

// WithChooser sets the fallback selection function
func WithChooser(choose Chooser) Option {
	return func(a *Assistant) {
		if choose != nil {
			a.choose = choose
		}
	}
}

// WithSeed makes fallback selection deterministic
func WithSeed(seed uint64) Option {
	return func(a *Assistant) {
		a.choose = seededChooser(seed)
	}
}

// WithFallbacks replaces the fallback set. An empty set keeps the defaults.
func WithFallbacks(fallbacks []Fallback) Option {
	return func(a *Assistant) {
		if len(fallbacks) > 0 {
			a.fallbacks = append([]Fallback(nil), fallbacks...)
		}
	}
}

// WithPacer sets the presentation delay used by Ask
func WithPacer(p Pacer) Option {
	return func(a *Assistant) {
		if p != nil {
			a.pacer = p
		}
	}
}

// WithRecorder reports every response to r
func WithRecorder(r Recorder) Option {
	return func(a *Assistant) {
		a.recorder = r
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(a *Assistant) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates an assistant over kb. A nil kb behaves as an empty base.
func New(kb *knowledge.Base, opts ...Option) *Assistant {
	a := &Assistant{
		scorer:    score.NewScorer(),
		fallbacks: DefaultFallbacks(),
		choose:    seededChooser(uint64(time.Now().UnixNano())),
		pacer:     NoDelay{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.SetKnowledgeBase(kb)
	return a
}

// SetKnowledgeBase swaps the snapshot used by subsequent queries
func (a *Assistant) SetKnowledgeBase(kb *knowledge.Base) {
	if kb == nil {
		kb = knowledge.Empty()
	}
	a.kb.Store(kb)
}

// KnowledgeBase returns the current snapshot
func (a *Assistant) KnowledgeBase() *knowledge.Base {
	return a.kb.Load()
}

// Ask waits for the pacer and then responds. The only error is a context
// cancellation during the pause.
func (a *Assistant) Ask(ctx context.Context, userMessage string) (model.ChosenResponse, error) {
	if err := a.pacer.Pause(ctx); err != nil {
		return model.ChosenResponse{}, err
	}
	return a.Respond(userMessage), nil
}

// Respond returns the best matching answer, or a fallback when no entry
// scores above zero. Entries are visited in order and only a strictly
// higher score replaces the current best, so the earliest entry wins ties.
func (a *Assistant) Respond(userMessage string) model.ChosenResponse {
	base := a.kb.Load()

	bestIndex := -1
	highest := 0
	var best model.MatchResult

	for i := 0; i < base.Len(); i++ {
		result := a.scorer.Score(userMessage, base.At(i).Keywords)
		if result.Score > highest {
			highest = result.Score
			bestIndex = i
			best = result
		}
	}

	var resp model.ChosenResponse
	if bestIndex >= 0 {
		entry := base.At(bestIndex)
		resp = model.ChosenResponse{
			Answer:          entry.Answer,
			RelatedLink:     entry.RelatedLink,
			Confidence:      math.Min(best.Percentage, 100),
			MatchedKeywords: score.MatchedKeywords(userMessage, entry.Keywords),
			Score:           best.Score,
			EntryIndex:      bestIndex,
		}
	} else {
		resp = a.fallback()
	}

	a.logger.Debug("responded",
		zap.Int("entries", base.Len()),
		zap.Int("entry_index", resp.EntryIndex),
		zap.Int("score", resp.Score),
		zap.Float64("confidence", resp.Confidence),
		zap.Bool("fallback", resp.Fallback),
	)

	if a.recorder != nil {
		a.recorder.Record(resp)
	}

	return resp
}

// Rank scores every entry and returns them by descending score. Entries
// with equal scores keep their knowledge base order.
func (a *Assistant) Rank(userMessage string) []model.Candidate {
	base := a.kb.Load()

	candidates := make([]model.Candidate, base.Len())
	for i := range candidates {
		entry := base.At(i)
		candidates[i] = model.Candidate{
			Index:  i,
			Entry:  entry,
			Result: a.scorer.Score(userMessage, entry.Keywords),
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Result.Score > candidates[j].Result.Score
	})

	return candidates
}

// fallback picks one canned response
func (a *Assistant) fallback() model.ChosenResponse {
	idx := a.choose(len(a.fallbacks))
	if idx < 0 || idx >= len(a.fallbacks) {
		idx = 0
	}
	return a.fallbacks[idx].response()
}

// seededChooser returns a uniform chooser backed by a seeded PCG source
func seededChooser(seed uint64) Chooser {
	var mu sync.Mutex
	rng := rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d))
	return func(n int) int {
		if n <= 0 {
			return 0
		}
		mu.Lock()
		defer mu.Unlock()
		return rng.IntN(n)
	}
}
