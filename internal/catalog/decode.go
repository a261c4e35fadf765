package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/minthub/mintassist/internal/extract"
	"github.com/minthub/mintassist/internal/knowledge"
	"github.com/minthub/mintassist/internal/model"
)

// FormatHTML reads product cards from a storefront page
const FormatHTML = "html"

// ErrUnknownFormat is returned for unsupported catalog formats
var ErrUnknownFormat = errors.New("unknown catalog format")

type tomlDocument struct {
	Files []model.FileRecord `toml:"files"`
}

// Decode parses catalog records. JSON and YAML sources are a top-level list,
// TOML uses [[files]] tables and HTML is a storefront page whose product
// cards are extracted; sourceURL resolves their relative links.
func Decode(data []byte, format, sourceURL string) ([]model.FileRecord, error) {
	var records []model.FileRecord

	switch strings.ToLower(format) {
	case knowledge.FormatJSON, "":
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case knowledge.FormatYAML, "yml":
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case knowledge.FormatTOML:
		var doc tomlDocument
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
		records = doc.Files
	case FormatHTML, "htm":
		extracted, err := extract.NewProductExtractor().Extract(string(data), sourceURL)
		if err != nil {
			return nil, fmt.Errorf("decode html: %w", err)
		}
		records = extracted
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	return records, nil
}

// FormatFromPath guesses the catalog format from a path or URL
func FormatFromPath(source string) string {
	lower := strings.ToLower(source)
	if i := strings.IndexAny(lower, "?#"); i >= 0 && strings.Contains(lower, "://") {
		lower = lower[:i]
	}
	if strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm") {
		return FormatHTML
	}
	return knowledge.FormatFromPath(source)
}
