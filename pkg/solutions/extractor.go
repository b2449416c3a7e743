// Package solutions pulls candidate improvement suggestions out of comment
// text. Extraction is deliberately recall-oriented keyword matching: a
// clause containing a suggestion marker ("should", "need to", ...) is
// tested against every category's keyword set, and a clause may land in
// several categories. There is no negation handling; "we should not hire
// more staff" still surfaces as a staffing suggestion for a human to read.
package solutions

import (
	"strings"

	"github.com/jinzhu/inflection"
	"go.uber.org/zap"

	"github.com/staffpulse/feedback-engine/pkg/models"
	"github.com/staffpulse/feedback-engine/pkg/rules"
	"github.com/staffpulse/feedback-engine/pkg/textseg"
)

// Extractor matches suggestion clauses against a solution category table.
// Keyword sets are normalized once at construction; an Extractor is safe
// for concurrent use.
type Extractor struct {
	markers    []string
	categories []category
	logger     *zap.Logger
}

type category struct {
	key     string
	tokens  map[string]bool // single-word keywords, singularized
	phrases []string        // multi-word keywords, matched as substrings
}

// NewExtractor builds an extractor from a validated solution table.
func NewExtractor(table *rules.SolutionTable, logger *zap.Logger) *Extractor {
	ex := &Extractor{
		markers: table.Markers,
		logger:  logger.Named("solutions"),
	}
	for _, cat := range table.Categories {
		c := category{key: cat.Key, tokens: make(map[string]bool, len(cat.Keywords))}
		for _, kw := range cat.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			if strings.ContainsRune(kw, ' ') {
				c.phrases = append(c.phrases, kw)
			} else {
				c.tokens[inflection.Singular(kw)] = true
			}
		}
		ex.categories = append(ex.categories, c)
	}
	return ex
}

// Extract returns the solution matches found in text, one per
// clause-category hit, in clause order. Clauses are sentences further split
// on commas and semicolons, so a long sentence can yield suggestions in
// more than one category without the whole sentence bleeding into each.
func (e *Extractor) Extract(text string) []models.SolutionMatch {
	var matches []models.SolutionMatch
	for _, sentence := range textseg.Split(text) {
		for _, clause := range splitClauses(sentence) {
			lower := strings.ToLower(clause)
			if !e.hasMarker(lower) {
				continue
			}
			tokens := tokenize(lower)
			for _, cat := range e.categories {
				if cat.matches(lower, tokens) {
					matches = append(matches, models.SolutionMatch{
						Category: cat.key,
						Excerpt:  clause,
					})
				}
			}
		}
	}
	return matches
}

func (e *Extractor) hasMarker(lower string) bool {
	for _, m := range e.markers {
		if containsWord(lower, m) {
			return true
		}
	}
	return false
}

func (c *category) matches(lower string, tokens []string) bool {
	for _, tok := range tokens {
		if c.tokens[tok] {
			return true
		}
	}
	for _, p := range c.phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// splitClauses breaks a sentence on commas and semicolons, dropping empty
// fragments.
func splitClauses(sentence string) []string {
	parts := strings.FieldsFunc(sentence, func(r rune) bool {
		return r == ',' || r == ';'
	})
	clauses := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			clauses = append(clauses, p)
		}
	}
	return clauses
}

// tokenize splits lowercased text into letter runs and singularizes each
// token, so "computers" and "computer" compare equal against the tables.
func tokenize(lower string) []string {
	raw := strings.FieldsFunc(lower, func(r rune) bool {
		return !isLetter(r)
	})
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		tokens = append(tokens, inflection.Singular(t))
	}
	return tokens
}

// containsWord reports whether lower contains phrase at word boundaries.
// Markers can be multi-word ("need to"), so this is a substring check
// guarded by non-letter neighbours rather than a token lookup.
func containsWord(lower, phrase string) bool {
	for start := 0; ; {
		i := strings.Index(lower[start:], phrase)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(phrase)
		beforeOK := i == 0 || !isLetter(rune(lower[i-1]))
		afterOK := end == len(lower) || !isLetter(rune(lower[end]))
		if beforeOK && afterOK {
			return true
		}
		start = i + 1
	}
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
