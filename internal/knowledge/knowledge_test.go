package knowledge

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minthub/mintassist/internal/model"
)

func TestDecode_JSON(t *testing.T) {
	data := []byte(`[
		{"keywords": ["game pc", "fps"], "answer": "A1", "related_link": "#game-pc"},
		{"keywords": ["office"], "answer": "line one\nline two"}
	]`)

	base, err := Decode(data, FormatJSON)
	require.NoError(t, err)
	require.Equal(t, 2, base.Len())

	first := base.At(0)
	assert.Equal(t, []string{"game pc", "fps"}, first.Keywords)
	assert.Equal(t, "A1", first.Answer)
	assert.Equal(t, "#game-pc", first.RelatedLink)

	second := base.At(1)
	assert.Equal(t, "line one\nline two", second.Answer)
	assert.Empty(t, second.RelatedLink)
}

func TestDecode_YAML(t *testing.T) {
	data := []byte(`
- keywords: ["hướng dẫn", "cài đặt"]
  answer: "Bước 1"
  related_link: "#guide"
- keywords: []
  answer: dead
- keywords: ["!!!", "🎮"]
  answer: punctuation only
`)

	base, err := Decode(data, FormatYAML)
	require.NoError(t, err)
	require.Equal(t, 3, base.Len())
	assert.Equal(t, "#guide", base.At(0).RelatedLink)
	assert.Equal(t, []int{1, 2}, base.Dead())
}

func TestDecode_TOML(t *testing.T) {
	data := []byte(`
[[entries]]
keywords = ["windows", "win 11"]
answer = "Windows 11 Pro"
related_link = "#all-files"
`)

	base, err := Decode(data, FormatTOML)
	require.NoError(t, err)
	require.Equal(t, 1, base.Len())
	assert.Equal(t, "Windows 11 Pro", base.At(0).Answer)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode([]byte(`{not json`), FormatJSON)
	assert.Error(t, err)

	_, err = Decode([]byte(`[]`), "xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestDefault(t *testing.T) {
	base, err := Default()
	require.NoError(t, err)
	assert.False(t, base.IsEmpty())
	assert.Empty(t, base.Dead(), "embedded knowledge base must not ship dead entries")
}

func TestBase_IsImmutable(t *testing.T) {
	entries := []model.KnowledgeEntry{{Keywords: []string{"game"}, Answer: "A"}}
	base := New(entries)

	entries[0].Keywords[0] = "changed"
	entries[0].Answer = "changed"
	assert.Equal(t, "game", base.At(0).Keywords[0])
	assert.Equal(t, "A", base.At(0).Answer)

	out := base.Entries()
	out[0].Keywords[0] = "changed again"
	assert.Equal(t, "game", base.At(0).Keywords[0])
}

func TestBase_NilIsEmpty(t *testing.T) {
	var base *Base
	assert.Equal(t, 0, base.Len())
	assert.True(t, base.IsEmpty())
	assert.Nil(t, base.Entries())
	assert.Empty(t, base.Dead())
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("data/chatbot.json"))
	assert.Equal(t, FormatYAML, FormatFromPath("kb.yml"))
	assert.Equal(t, FormatYAML, FormatFromPath("/etc/mint/KB.YAML"))
	assert.Equal(t, FormatTOML, FormatFromPath("kb.toml"))
	assert.Equal(t, FormatJSON, FormatFromPath("kb"))
	assert.Equal(t, FormatYAML, FormatFromPath("https://cdn.example.com/kb.yaml?v=3"))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- keywords: [a]\n  answer: b\n"), 0644))

	base, err := LoadFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, 1, base.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"), "")
	assert.Error(t, err)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"keywords":["a"],"answer":"v1"}]`), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Base, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, "", nil, func(b *Base) { reloaded <- b })
	}()

	// Give the watcher time to register before writing
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`[{"keywords":["a"],"answer":"v2"}]`), 0644))

	select {
	case b := <-reloaded:
		assert.Equal(t, "v2", b.At(0).Answer)
	case <-time.After(3 * time.Second):
		t.Fatal("no reload observed")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}
