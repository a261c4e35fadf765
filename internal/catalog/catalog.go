// Package catalog implements the storefront file catalog: browsing by
// category, search, the hot list and the in-memory download history.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"

	"github.com/minthub/mintassist/internal/model"
	"github.com/minthub/mintassist/internal/textnorm"
)

const (
	// AllCategories selects every file
	AllCategories = "all"

	// DefaultHotCount is the size of the hot list on the storefront page
	DefaultHotCount = 3

	maxFuzzyResults = 5
)

// foldStroke maps d with stroke to d, which canonical decomposition leaves alone
var foldStroke = strings.NewReplacer("đ", "d", "Đ", "D")

var (
	// ErrFileNotFound is returned for unknown file IDs
	ErrFileNotFound = errors.New("file not found")

	// ErrDownloadNotFound is returned for unknown download history IDs
	ErrDownloadNotFound = errors.New("download not found")
)

// Catalog is a thread-safe set of file records plus download history
type Catalog struct {
	mu      sync.RWMutex
	files   []model.FileRecord
	history []model.DownloadRecord

	now   func() time.Time
	newID func() string
}

// New creates a catalog from records. The input slice is copied.
func New(records []model.FileRecord) *Catalog {
	return &Catalog{
		files: append([]model.FileRecord(nil), records...),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Len returns the number of files
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.files)
}

// Files returns a copy of all files in catalog order
func (c *Catalog) Files() []model.FileRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.FileRecord(nil), c.files...)
}

// Get returns the file with the given ID
func (c *Catalog) Get(id string) (model.FileRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i := c.indexOf(id)
	if i < 0 {
		return model.FileRecord{}, fmt.Errorf("%w: %s", ErrFileNotFound, id)
	}
	return c.files[i], nil
}

// ByCategory returns the files whose category contains category, in catalog
// order. "all" and "" select everything, and "soft" selects every soft-* tab.
func (c *Catalog) ByCategory(category string) []model.FileRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filter(category)
}

// Stats totals files, downloads and views for a category tab
func (c *Catalog) Stats(category string) model.CatalogStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var stats model.CatalogStats
	for _, f := range c.filter(category) {
		stats.Files++
		stats.Downloads += f.Downloads
		stats.Views += f.ViewCount
	}
	return stats
}

// Categories counts files per exact category in first-seen order
func (c *Catalog) Categories() []model.CategoryCount {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var counts []model.CategoryCount
	index := make(map[string]int)
	for _, f := range c.files {
		i, ok := index[f.Category]
		if !ok {
			i = len(counts)
			index[f.Category] = i
			counts = append(counts, model.CategoryCount{Category: f.Category})
		}
		counts[i].Count++
	}
	return counts
}

// Hot returns the n most viewed files. Ties are broken by downloads and
// then by ID. n <= 0 means DefaultHotCount.
func (c *Catalog) Hot(n int) []model.FileRecord {
	if n <= 0 {
		n = DefaultHotCount
	}

	files := c.Files()
	sort.SliceStable(files, func(i, j int) bool {
		a, b := files[i], files[j]
		if a.ViewCount != b.ViewCount {
			return a.ViewCount > b.ViewCount
		}
		if a.Downloads != b.Downloads {
			return a.Downloads > b.Downloads
		}
		return a.ID < b.ID
	})

	if n < len(files) {
		files = files[:n]
	}
	return files
}

// Search finds files whose name, description or category contains the
// query, ignoring case and diacritics. When nothing matches literally the
// names are ranked by fuzzy subsequence match instead.
func (c *Catalog) Search(query string) []model.FileRecord {
	q := textnorm.Normalize(foldStroke.Replace(query))
	if q == "" {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var results []model.FileRecord
	names := make([]string, len(c.files))
	for i, f := range c.files {
		names[i] = textnorm.Normalize(foldStroke.Replace(f.Name))
		if strings.Contains(searchText(f), q) {
			results = append(results, f)
		}
	}
	if len(results) > 0 {
		return results
	}

	matches := fuzzy.Find(strings.ReplaceAll(q, " ", ""), names)
	for i, m := range matches {
		if i == maxFuzzyResults {
			break
		}
		results = append(results, c.files[m.Index])
	}
	return results
}

// RecordDownload counts a download of the file and appends it to the history
func (c *Catalog) RecordDownload(fileID string) (model.DownloadRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(fileID)
	if i < 0 {
		return model.DownloadRecord{}, fmt.Errorf("%w: %s", ErrFileNotFound, fileID)
	}

	c.files[i].Downloads++
	record := model.DownloadRecord{
		ID:           c.newID(),
		FileID:       c.files[i].ID,
		FileName:     c.files[i].Name,
		Size:         c.files[i].Size,
		DownloadedAt: c.now(),
	}
	c.history = append(c.history, record)

	return record, nil
}

// History returns the download history, oldest first
func (c *Catalog) History() []model.DownloadRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.DownloadRecord(nil), c.history...)
}

// RemoveDownload deletes one history record. Download counters are kept.
func (c *Catalog) RemoveDownload(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, d := range c.history {
		if d.ID == id {
			c.history = append(c.history[:i], c.history[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrDownloadNotFound, id)
}

// ClearHistory empties the history and returns how many records were removed
func (c *Catalog) ClearHistory() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.history)
	c.history = nil
	return n
}

func (c *Catalog) indexOf(id string) int {
	for i, f := range c.files {
		if f.ID == id {
			return i
		}
	}
	return -1
}

func (c *Catalog) filter(category string) []model.FileRecord {
	if category == "" || category == AllCategories {
		return append([]model.FileRecord(nil), c.files...)
	}

	var out []model.FileRecord
	for _, f := range c.files {
		if strings.Contains(f.Category, category) {
			out = append(out, f)
		}
	}
	return out
}

// searchText is the normalized haystack of one record
func searchText(f model.FileRecord) string {
	category := strings.ReplaceAll(f.Category, "-", " ")
	return textnorm.Normalize(foldStroke.Replace(f.Name + " " + f.Description + " " + category))
}
