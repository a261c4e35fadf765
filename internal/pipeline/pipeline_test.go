package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minthub/mintassist/internal/model"
)

func testConfig(t *testing.T) *model.Config {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.HTTP.RespectRobots = false
	cfg.Assistant.Seed = 42
	return cfg
}

func TestNewPipeline_Embedded(t *testing.T) {
	p, err := NewPipeline(context.Background(), testConfig(t), nil)
	require.NoError(t, err)

	resp, err := p.Ask(context.Background(), "Tôi muốn tải game PC")
	require.NoError(t, err)
	assert.False(t, resp.Fallback)
	assert.Equal(t, 0, resp.EntryIndex)
	assert.Equal(t, 15, p.Catalog().Len())

	count, err := testutil.GatherAndCount(p.Metrics().Registry(), "mintassist_responses_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewPipeline_RequiredKnowledgeFails(t *testing.T) {
	cfg := testConfig(t)
	cfg.Knowledge = model.KnowledgeConfig{Source: filepath.Join(t.TempDir(), "missing.json"), Required: true}

	_, err := NewPipeline(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestNewPipeline_MissingKnowledgeFallsBack(t *testing.T) {
	cfg := testConfig(t)
	cfg.Knowledge.Source = filepath.Join(t.TempDir(), "missing.json")

	p, err := NewPipeline(context.Background(), cfg, nil)
	require.NoError(t, err)

	resp, err := p.Ask(context.Background(), "game pc")
	require.NoError(t, err)
	assert.True(t, resp.Fallback)
	assert.Equal(t, -1, resp.EntryIndex)
}

func TestPipeline_Batch(t *testing.T) {
	p, err := NewPipeline(context.Background(), testConfig(t), nil)
	require.NoError(t, err)

	questions := []string{"tải game pc", "xyzzy", "hỗ trợ"}
	results := p.Batch(context.Background(), questions, 2)
	require.Len(t, results, 3)

	for i, r := range results {
		require.NoError(t, r.Error)
		assert.Equal(t, i, r.Index)
		assert.Equal(t, questions[i], r.Question)
	}
	assert.Equal(t, 0, results[0].Response.EntryIndex)
	assert.True(t, results[1].Response.Fallback)
	assert.Equal(t, 6, results[2].Response.EntryIndex)
}

func TestPipeline_WatchKnowledgeNeedsLocalFile(t *testing.T) {
	p, err := NewPipeline(context.Background(), testConfig(t), nil)
	require.NoError(t, err)
	assert.ErrorIs(t, p.WatchKnowledge(context.Background()), ErrNotWatchable)

	p.config.Knowledge.Source = "https://example.com/chatbot.json"
	assert.ErrorIs(t, p.WatchKnowledge(context.Background()), ErrNotWatchable)
}

func TestPipeline_WatchKnowledgeReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"keywords":["zalo"],"answer":"v1"}]`), 0644))

	cfg := testConfig(t)
	cfg.Knowledge.Source = path
	p, err := NewPipeline(context.Background(), cfg, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = p.WatchKnowledge(ctx) }()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`[{"keywords":["zalo"],"answer":"v2"}]`), 0644))

	assert.Eventually(t, func() bool {
		return p.Assistant().Respond("zalo").Answer == "v2"
	}, 3*time.Second, 20*time.Millisecond)
}

func TestPipeline_FlushMetrics(t *testing.T) {
	cfg := testConfig(t)
	p, err := NewPipeline(context.Background(), cfg, nil)
	require.NoError(t, err)

	// No textfile configured
	require.NoError(t, p.FlushMetrics())

	cfg.Metrics.Textfile = filepath.Join(t.TempDir(), "mintassist.prom")
	_, err = p.Ask(context.Background(), "xyzzy")
	require.NoError(t, err)
	require.NoError(t, p.FlushMetrics())

	data, err := os.ReadFile(cfg.Metrics.Textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `mintassist_responses_total{outcome="fallback"} 1`)
	assert.Contains(t, string(data), `mintassist_source_loads_total{kind="knowledge",result="ok"} 1`)
}
