package score

import (
	"strings"

	"github.com/minthub/mintassist/internal/model"
	"github.com/minthub/mintassist/internal/textnorm"
)

// PhraseBonus is added for every keyword phrase found verbatim in the message
const PhraseBonus = 5

// Scorer calculates keyword relevance of a message against one entry.
// It holds no state and is safe for concurrent use.
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score matches userMessage against the keyword phrases of one entry.
//
// Every keyword word earns one point when some user word contains it or is
// contained by it. User words are not consumed, so one user word may satisfy
// several keyword words. Each keyword phrase contained in the normalized
// message earns PhraseBonus on top of its word points. Phrases that normalize
// to nothing are ignored.
func (s *Scorer) Score(userMessage string, keywords []string) model.MatchResult {
	normalizedUser := textnorm.Normalize(userMessage)
	userWords := textnorm.Words(normalizedUser)

	var result model.MatchResult
	result.TotalWords = len(userWords)

	normalizedKeywords := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		if normalized := textnorm.Normalize(keyword); normalized != "" {
			normalizedKeywords = append(normalizedKeywords, normalized)
		}
	}

	// 1. Word hits
	for _, normalizedKeyword := range normalizedKeywords {
		for _, kwWord := range textnorm.Words(normalizedKeyword) {
			if anyOverlap(userWords, kwWord) {
				result.Score++
				result.MatchedWords++
			}
		}
	}

	// 2. Exact phrase bonus
	for _, normalizedKeyword := range normalizedKeywords {
		if strings.Contains(normalizedUser, normalizedKeyword) {
			result.Score += PhraseBonus
			result.PhraseHits++
		}
	}

	if result.TotalWords > 0 {
		result.Percentage = float64(result.MatchedWords) / float64(result.TotalWords) * 100
	}

	return result
}

// MatchedKeywords returns the keyword phrases, in their original spelling,
// whose normalized form appears verbatim in the normalized message. Partial
// word hits are not reported.
func MatchedKeywords(userMessage string, keywords []string) []string {
	normalizedUser := textnorm.Normalize(userMessage)

	var matched []string
	for _, keyword := range keywords {
		normalized := textnorm.Normalize(keyword)
		if normalized != "" && strings.Contains(normalizedUser, normalized) {
			matched = append(matched, keyword)
		}
	}
	return matched
}

// anyOverlap reports whether any user word contains kwWord or is contained by it
func anyOverlap(userWords []string, kwWord string) bool {
	for _, userWord := range userWords {
		if strings.Contains(userWord, kwWord) || strings.Contains(kwWord, userWord) {
			return true
		}
	}
	return false
}
