package model

import "github.com/minthub/mintassist/internal/textnorm"

// KnowledgeEntry maps a set of trigger keyword phrases to an answer
type KnowledgeEntry struct {
	// Keywords are free-form trigger phrases; an entry whose phrases all
	// normalize to nothing never matches
	Keywords []string `json:"keywords" yaml:"keywords" toml:"keywords"`

	// Answer may contain explicit "\n" line breaks
	Answer string `json:"answer" yaml:"answer" toml:"answer"`

	// RelatedLink is opaque to the matcher
	RelatedLink string `json:"related_link,omitempty" yaml:"related_link,omitempty" toml:"related_link"`
}

// Matchable reports whether the entry can ever score above zero, i.e. it has
// at least one keyword phrase with something left after normalization
func (e KnowledgeEntry) Matchable() bool {
	for _, keyword := range e.Keywords {
		if textnorm.Normalize(keyword) != "" {
			return true
		}
	}
	return false
}

// MatchResult is the relevance evidence of one entry for one message
type MatchResult struct {
	Score        int     `json:"score"`         // Word hits plus phrase bonuses
	MatchedWords int     `json:"matched_words"` // Keyword words hit by some user word
	TotalWords   int     `json:"total_words"`   // Tokens in the normalized message
	Percentage   float64 `json:"percentage"`    // MatchedWords / TotalWords * 100, 0 without words
	PhraseHits   int     `json:"phrase_hits"`   // Keyword phrases found verbatim in the message
}

// ChosenResponse is what the assistant hands back for a message
type ChosenResponse struct {
	Answer          string   `json:"answer"`
	RelatedLink     string   `json:"related_link,omitempty"`
	Confidence      float64  `json:"confidence"`                 // min(percentage, 100); 0 for fallbacks
	MatchedKeywords []string `json:"matched_keywords,omitempty"` // Phrase-level hits of the winning entry
	Suggestions     []string `json:"suggestions,omitempty"`      // Follow-up phrases, fallbacks only
	Score           int      `json:"score"`
	EntryIndex      int      `json:"entry_index"` // Position of the winning entry, -1 for fallbacks
	Fallback        bool     `json:"fallback"`
}

// Candidate pairs a knowledge entry with its match result
type Candidate struct {
	Index  int            `json:"index"`
	Entry  KnowledgeEntry `json:"entry"`
	Result MatchResult    `json:"result"`
}
