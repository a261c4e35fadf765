package pipeline

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minthub/mintassist/internal/model"
)

var matchedResp = model.ChosenResponse{
	Answer:          "Dòng một\nDòng <hai>",
	RelatedLink:     "#game-pc",
	Confidence:      40,
	MatchedKeywords: []string{"game pc"},
	Score:           7,
	EntryIndex:      0,
}

var fallbackResp = model.ChosenResponse{
	Answer:      "Bạn cần gì ạ?",
	RelatedLink: "#game-pc",
	Suggestions: []string{"Game PC", "Office"},
	EntryIndex:  -1,
	Fallback:    true,
}

func TestRenderer_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(false).Text(&buf, matchedResp))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Dòng một\nDòng <hai>\n"))
	assert.Contains(t, out, "Độ tin cậy: 40%")
	assert.Contains(t, out, "Xem thêm: #game-pc")
	assert.NotContains(t, out, "score")
}

func TestRenderer_TextFallback(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(true).Text(&buf, fallbackResp))

	out := buf.String()
	assert.NotContains(t, out, "Độ tin cậy")
	assert.Contains(t, out, "Gợi ý: Game PC | Office")
	assert.NotContains(t, out, "[entry")
}

func TestRenderer_TextVerbose(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(true).Text(&buf, matchedResp))
	assert.Contains(t, buf.String(), "[entry 0, score 7, keywords game pc]")
}

func TestRenderer_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(false).JSON(&buf, matchedResp))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "Dòng một\nDòng <hai>", decoded["answer"])
	assert.Equal(t, "#game-pc", decoded["related_link"])
	assert.Equal(t, 40.0, decoded["confidence"])
	assert.Equal(t, []any{"game pc"}, decoded["matched_keywords"])
	assert.Contains(t, buf.String(), "<hai>")
}

func TestRenderer_HTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(false).HTML(&buf, matchedResp))

	out := buf.String()
	assert.Contains(t, out, `<div class="chat-message bot">`)
	assert.Contains(t, out, "Dòng một<br/>Dòng &lt;hai&gt;")
	assert.Contains(t, out, `<div class="confidence-score">Độ tin cậy: 40%</div>`)
	assert.Contains(t, out, `<a href="#game-pc" target="_blank">Xem thêm</a>`)
	assert.NotContains(t, out, "quick-suggestions")
}

func TestRenderer_HTMLFallback(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(false).HTML(&buf, fallbackResp))

	out := buf.String()
	assert.NotContains(t, out, "confidence-score")
	assert.Contains(t, out, `<button class="suggestion-btn" data-ask="Game PC">Game PC</button>`)
}

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer(false)
	var buf bytes.Buffer

	require.NoError(t, r.Render(&buf, matchedResp, "JSON"))
	assert.True(t, strings.HasPrefix(buf.String(), "{"))

	assert.Error(t, r.Render(&buf, matchedResp, "xml"))
}

func TestRenderer_Explain(t *testing.T) {
	candidates := []model.Candidate{
		{Index: 0, Entry: model.KnowledgeEntry{Keywords: []string{"game pc", "tải game"}}, Result: model.MatchResult{Score: 17, MatchedWords: 7, TotalWords: 5, Percentage: 140, PhraseHits: 2}},
		{Index: 8, Entry: model.KnowledgeEntry{Keywords: []string{"link hỏng"}}, Result: model.MatchResult{Score: 2, MatchedWords: 2, TotalWords: 5, Percentage: 40}},
		{Index: 3, Entry: model.KnowledgeEntry{Keywords: []string{"windows"}}},
	}

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(false).Explain(&buf, candidates, 2))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "RANK")
	assert.Contains(t, lines[1], "game pc, tải game")
	assert.Contains(t, lines[1], "7/5")
	assert.Contains(t, lines[2], "40%")
}
