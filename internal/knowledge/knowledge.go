// Package knowledge holds the immutable knowledge base the assistant answers from.
package knowledge

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/minthub/mintassist/internal/model"
)

// Supported source formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

var (
	// ErrUnknownFormat is returned for formats other than json, yaml and toml
	ErrUnknownFormat = errors.New("unknown knowledge base format")
)

//go:embed data/chatbot.json
var defaultData []byte

// Base is an ordered, read-only set of knowledge entries. The zero value and
// a nil *Base are both empty.
type Base struct {
	entries []model.KnowledgeEntry
}

// New creates a base from entries. The input slice is copied.
func New(entries []model.KnowledgeEntry) *Base {
	copied := make([]model.KnowledgeEntry, len(entries))
	for i, e := range entries {
		e.Keywords = append([]string(nil), e.Keywords...)
		copied[i] = e
	}
	return &Base{entries: copied}
}

// Empty returns a base without entries
func Empty() *Base {
	return &Base{}
}

// Default returns the knowledge base embedded in the binary
func Default() (*Base, error) {
	return Decode(defaultData, FormatJSON)
}

// Len returns the number of entries
func (b *Base) Len() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}

// IsEmpty reports whether the base has no entries
func (b *Base) IsEmpty() bool {
	return b.Len() == 0
}

// At returns the entry at index i. The caller must not modify its keywords.
func (b *Base) At(i int) model.KnowledgeEntry {
	return b.entries[i]
}

// Entries returns a copy of all entries in order
func (b *Base) Entries() []model.KnowledgeEntry {
	if b == nil {
		return nil
	}
	return New(b.entries).entries
}

// Dead returns the indices of entries that can never match
func (b *Base) Dead() []int {
	var dead []int
	for i := 0; i < b.Len(); i++ {
		if !b.entries[i].Matchable() {
			dead = append(dead, i)
		}
	}
	return dead
}

// tomlDocument is the TOML shape: a list of [[entries]] tables
type tomlDocument struct {
	Entries []model.KnowledgeEntry `toml:"entries"`
}

// Decode parses a knowledge base in the given format. JSON and YAML sources
// are a top-level list of entries.
func Decode(data []byte, format string) (*Base, error) {
	var entries []model.KnowledgeEntry

	switch strings.ToLower(format) {
	case FormatJSON, "":
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&entries); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML, "yml":
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatTOML:
		var doc tomlDocument
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
		entries = doc.Entries
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	return New(entries), nil
}

// FormatFromPath guesses the format from a file path or URL extension.
// Unknown extensions default to JSON.
func FormatFromPath(source string) string {
	ext := filepath.Ext(source)
	if strings.Contains(source, "://") {
		// URLs: ignore query strings and use path semantics
		if i := strings.IndexAny(source, "?#"); i >= 0 {
			source = source[:i]
		}
		ext = path.Ext(source)
	}

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}
