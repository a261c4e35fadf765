package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minthub/mintassist/internal/model"
)

func TestRecord(t *testing.T) {
	m := New()

	m.Record(model.ChosenResponse{Confidence: 40, MatchedKeywords: []string{"game pc"}, EntryIndex: 0})
	m.Record(model.ChosenResponse{Confidence: 100, MatchedKeywords: []string{"game pc", "tải game"}, EntryIndex: 0})
	m.Record(model.ChosenResponse{Fallback: true, EntryIndex: -1})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.responses.WithLabelValues(OutcomeMatched)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.responses.WithLabelValues(OutcomeFallback)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.keywordHits.WithLabelValues("game pc")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.keywordHits.WithLabelValues("tải game")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.confidence))
}

func TestSourceLoaded(t *testing.T) {
	m := New()
	m.SourceLoaded("knowledge", "ok")
	m.SourceLoaded("catalog", "fallback")

	expected := `
# HELP mintassist_source_loads_total Knowledge base and catalog loads by kind and result
# TYPE mintassist_source_loads_total counter
mintassist_source_loads_total{kind="catalog",result="fallback"} 1
mintassist_source_loads_total{kind="knowledge",result="ok"} 1
`
	err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "mintassist_source_loads_total")
	assert.NoError(t, err)
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.Record(model.ChosenResponse{Fallback: true})

	path := filepath.Join(t.TempDir(), "mintassist.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `mintassist_responses_total{outcome="fallback"} 1`)
}
