package assistant

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minthub/mintassist/internal/knowledge"
	"github.com/minthub/mintassist/internal/model"
)

type countingRecorder struct {
	mu        sync.Mutex
	responses []model.ChosenResponse
}

func (r *countingRecorder) Record(resp model.ChosenResponse) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses = append(r.responses, resp)
}

func fallbackAnswers() []string {
	var answers []string
	for _, f := range DefaultFallbacks() {
		answers = append(answers, f.Answer)
	}
	return answers
}

func TestRespond_DefaultKnowledgeGamePC(t *testing.T) {
	kb, err := knowledge.Default()
	require.NoError(t, err)

	a := New(kb)
	resp := a.Respond("Tôi muốn tải game PC")

	assert.False(t, resp.Fallback)
	assert.Equal(t, 0, resp.EntryIndex)
	assert.Equal(t, "#game-pc", resp.RelatedLink)
	assert.Equal(t, []string{"game pc", "tải game"}, resp.MatchedKeywords)
	// 7 matched keyword words over 5 message words is capped
	assert.Equal(t, 100.0, resp.Confidence)
	assert.Equal(t, 17, resp.Score)
	assert.Empty(t, resp.Suggestions)
}

func TestRespond_AccentInsensitive(t *testing.T) {
	kb, err := knowledge.Default()
	require.NoError(t, err)

	resp := New(kb).Respond("ho tro")

	assert.False(t, resp.Fallback)
	assert.Equal(t, 6, resp.EntryIndex)
	assert.Equal(t, []string{"hỗ trợ"}, resp.MatchedKeywords)
	assert.Equal(t, 100.0, resp.Confidence)
}

func TestRespond_SingleEntry(t *testing.T) {
	kb := knowledge.New([]model.KnowledgeEntry{
		{Keywords: []string{"game pc"}, Answer: "games", RelatedLink: "#game-pc"},
	})

	resp := New(kb).Respond("Tôi muốn tải game PC")

	assert.Equal(t, "games", resp.Answer)
	assert.Equal(t, 7, resp.Score)
	assert.Equal(t, 40.0, resp.Confidence)
	assert.Equal(t, []string{"game pc"}, resp.MatchedKeywords)
}

func TestRespond_TieKeepsEarliestEntry(t *testing.T) {
	kb := knowledge.New([]model.KnowledgeEntry{
		{Keywords: []string{"office"}, Answer: "first"},
		{Keywords: []string{"office"}, Answer: "second"},
	})

	resp := New(kb).Respond("office")

	assert.Equal(t, "first", resp.Answer)
	assert.Equal(t, 0, resp.EntryIndex)
}

func TestRespond_HigherScoreWins(t *testing.T) {
	kb := knowledge.New([]model.KnowledgeEntry{
		{Keywords: []string{"office"}, Answer: "office"},
		{Keywords: []string{"office 2024", "word"}, Answer: "office 2024"},
	})

	resp := New(kb).Respond("cài office 2024")

	assert.Equal(t, "office 2024", resp.Answer)
	assert.Equal(t, 1, resp.EntryIndex)
}

func TestRespond_FallbackWhenNothingScores(t *testing.T) {
	kb, err := knowledge.Default()
	require.NoError(t, err)

	resp := New(kb).Respond("xyzzy")

	assert.True(t, resp.Fallback)
	assert.Equal(t, -1, resp.EntryIndex)
	assert.Zero(t, resp.Confidence)
	assert.Zero(t, resp.Score)
	assert.Contains(t, fallbackAnswers(), resp.Answer)
	assert.NotEmpty(t, resp.Suggestions)
	assert.Empty(t, resp.MatchedKeywords)
}

func TestRespond_EmptyMessageFallsBack(t *testing.T) {
	kb, err := knowledge.Default()
	require.NoError(t, err)

	for _, msg := range []string{"", "   ", "?!"} {
		resp := New(kb).Respond(msg)
		assert.True(t, resp.Fallback, "message %q", msg)
	}
}

func TestRespond_PunctuationKeywordNeverMatchesEmptyMessage(t *testing.T) {
	kb := knowledge.New([]model.KnowledgeEntry{{Keywords: []string{"!!!"}, Answer: "X"}})

	for _, msg := range []string{"", "   ", "game pc"} {
		resp := New(kb).Respond(msg)
		assert.True(t, resp.Fallback, "message %q", msg)
		assert.Zero(t, resp.Score, "message %q", msg)
		assert.NotEqual(t, "X", resp.Answer)
	}
}

func TestRespond_EmptyOrNilKnowledgeBase(t *testing.T) {
	for name, kb := range map[string]*knowledge.Base{
		"nil":   nil,
		"empty": knowledge.Empty(),
	} {
		t.Run(name, func(t *testing.T) {
			resp := New(kb).Respond("game pc")
			assert.True(t, resp.Fallback)
			assert.Contains(t, fallbackAnswers(), resp.Answer)
		})
	}
}

func TestRespond_ChooserSelectsFallback(t *testing.T) {
	a := New(knowledge.Empty(), WithChooser(func(n int) int { return n - 1 }))

	resp := a.Respond("anything")

	assert.Equal(t, DefaultFallbacks()[1].Answer, resp.Answer)
	assert.Equal(t, DefaultFallbacks()[1].Suggestions, resp.Suggestions)
}

func TestRespond_ChooserOutOfRange(t *testing.T) {
	a := New(knowledge.Empty(), WithChooser(func(n int) int { return n + 10 }))

	resp := a.Respond("anything")

	assert.Equal(t, DefaultFallbacks()[0].Answer, resp.Answer)
}

func TestRespond_SeedIsDeterministic(t *testing.T) {
	first := New(knowledge.Empty(), WithSeed(42))
	second := New(knowledge.Empty(), WithSeed(42))

	for i := 0; i < 20; i++ {
		assert.Equal(t, first.Respond("?").Answer, second.Respond("?").Answer)
	}
}

func TestRespond_SeedCoversAllFallbacks(t *testing.T) {
	a := New(knowledge.Empty(), WithSeed(7))

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[a.Respond("?").Answer] = true
	}

	assert.Len(t, seen, len(DefaultFallbacks()))
}

func TestRespond_CustomFallbacks(t *testing.T) {
	custom := []Fallback{{Answer: "custom", Suggestions: []string{"a"}}}
	a := New(knowledge.Empty(), WithFallbacks(custom))

	resp := a.Respond("?")

	assert.Equal(t, "custom", resp.Answer)

	// Caller mutations must not leak into later responses
	resp.Suggestions[0] = "mutated"
	assert.Equal(t, []string{"a"}, a.Respond("?").Suggestions)
}

func TestRespond_RecorderSeesEveryResponse(t *testing.T) {
	rec := &countingRecorder{}
	kb := knowledge.New([]model.KnowledgeEntry{{Keywords: []string{"office"}, Answer: "office"}})
	a := New(kb, WithRecorder(rec))

	a.Respond("office")
	a.Respond("nothing here")

	require.Len(t, rec.responses, 2)
	assert.False(t, rec.responses[0].Fallback)
	assert.True(t, rec.responses[1].Fallback)
}

func TestRank_OrdersByScoreStable(t *testing.T) {
	kb := knowledge.New([]model.KnowledgeEntry{
		{Keywords: []string{"windows"}, Answer: "w1"},
		{Keywords: []string{"office"}, Answer: "o"},
		{Keywords: []string{"windows"}, Answer: "w2"},
		{Keywords: []string{"adobe"}, Answer: "a"},
	})

	ranked := New(kb).Rank("windows")

	require.Len(t, ranked, 4)
	assert.Equal(t, []int{0, 2, 1, 3}, []int{ranked[0].Index, ranked[1].Index, ranked[2].Index, ranked[3].Index})
	assert.Equal(t, 6, ranked[0].Result.Score)
	assert.Zero(t, ranked[3].Result.Score)
}

func TestSetKnowledgeBase_SwapsSnapshot(t *testing.T) {
	a := New(knowledge.Empty())
	assert.True(t, a.Respond("office").Fallback)

	a.SetKnowledgeBase(knowledge.New([]model.KnowledgeEntry{{Keywords: []string{"office"}, Answer: "office"}}))
	assert.Equal(t, "office", a.Respond("office").Answer)
	assert.Equal(t, 1, a.KnowledgeBase().Len())

	a.SetKnowledgeBase(nil)
	assert.True(t, a.KnowledgeBase().IsEmpty())
}

func TestRespond_ConcurrentWithReload(t *testing.T) {
	kb, err := knowledge.Default()
	require.NoError(t, err)
	a := New(kb, WithSeed(1))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				resp := a.Respond(fmt.Sprintf("game pc %d", j))
				assert.NotEmpty(t, resp.Answer)
			}
		}(i)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 20; j++ {
			a.SetKnowledgeBase(kb)
		}
	}()

	wg.Wait()
}

func TestAsk_NoDelay(t *testing.T) {
	kb := knowledge.New([]model.KnowledgeEntry{{Keywords: []string{"office"}, Answer: "office"}})

	resp, err := New(kb).Ask(context.Background(), "office")

	require.NoError(t, err)
	assert.Equal(t, "office", resp.Answer)
}

func TestAsk_CancelledDuringPause(t *testing.T) {
	a := New(knowledge.Empty(), WithPacer(NewRandomDelay(time.Hour, 2*time.Hour)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Ask(ctx, "office")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRandomDelay_Bounds(t *testing.T) {
	d := NewRandomDelay(10*time.Millisecond, 20*time.Millisecond)
	for i := 0; i < 100; i++ {
		got := d.Duration()
		assert.GreaterOrEqual(t, got, 10*time.Millisecond)
		assert.Less(t, got, 20*time.Millisecond)
	}

	fixed := NewRandomDelay(5*time.Millisecond, time.Millisecond)
	assert.Equal(t, 5*time.Millisecond, fixed.Duration())
}

func TestRandomDelay_ZeroValue(t *testing.T) {
	d := &RandomDelay{Min: time.Millisecond, Max: 2 * time.Millisecond}

	got := d.Duration()
	assert.GreaterOrEqual(t, got, time.Millisecond)
	assert.Less(t, got, 2*time.Millisecond)
	assert.NoError(t, d.Pause(context.Background()))

	var zero RandomDelay
	assert.NoError(t, zero.Pause(context.Background()))
}

func TestRandomDelay_PauseWaits(t *testing.T) {
	d := NewRandomDelay(5*time.Millisecond, 6*time.Millisecond)

	start := time.Now()
	require.NoError(t, d.Pause(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}
