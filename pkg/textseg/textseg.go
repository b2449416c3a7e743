// Package textseg splits comment text into sentences. Splitting is a pure,
// deterministic function of the input: terminal punctuation clusters and
// blank lines end a sentence, abbreviations and decimal points do not, and
// text with no boundary at all comes back as a single sentence.
package textseg

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// abbreviations maps common English abbreviations (lowercase, with trailing
// dot) to true. Used to suppress false sentence breaks after abbreviated
// words.
var abbreviations = map[string]bool{
	"mr.": true, "mrs.": true, "ms.": true, "dr.": true,
	"prof.": true, "rev.": true, "hon.": true, "st.": true,
	"jr.": true, "sr.": true,
	"e.g.": true, "i.e.": true, "etc.": true, "vs.": true,
	"approx.": true, "dept.": true, "no.": true,
	"inc.": true, "ltd.": true, "co.": true,
}

// Segment is one sentence-level span of the input. Adjacent segments cover
// the entire input without gaps or overlaps: concatenating all Segment.Text
// values reconstructs the input exactly.
type Segment struct {
	Text  string
	Start int // byte offset, inclusive
	End   int // byte offset, exclusive
}

// Split returns the trimmed, non-empty sentences of text in order. For any
// input with non-whitespace content the result has at least one element;
// text without a sentence boundary yields exactly one sentence equal to the
// trimmed input.
func Split(text string) []string {
	segs := Segments(text)
	out := make([]string, 0, len(segs))
	for _, seg := range segs {
		if s := strings.TrimSpace(seg.Text); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Segments splits text into raw sentence spans, preserving all bytes.
func Segments(text string) []Segment {
	segs := make([]Segment, 0, len(text)/48+1)
	start := 0

	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])

		// A blank line forces a sentence break regardless of punctuation.
		if r == '\n' && i+1 < len(text) && text[i+1] == '\n' {
			j := i
			for j < len(text) && text[j] == '\n' {
				j++
			}
			segs = append(segs, Segment{Text: text[start:j], Start: start, End: j})
			start = j
			i = j
			continue
		}

		if r == '.' || r == '?' || r == '!' {
			if r == '.' && isAbbreviation(text, i) {
				i += size
				continue
			}

			// Consume the whole punctuation cluster ("...", "?!", "!!!").
			j := i + size
			for j < len(text) {
				nr, ns := utf8.DecodeRuneInString(text[j:])
				if nr == '.' || nr == '?' || nr == '!' {
					j += ns
				} else {
					break
				}
			}

			if startsNewSentence(text, j) {
				segs = append(segs, Segment{Text: text[start:j], Start: start, End: j})
				start = j
			}
			i = j
			continue
		}

		// Unicode ellipsis U+2026.
		if r == '…' {
			j := i + size
			if startsNewSentence(text, j) {
				segs = append(segs, Segment{Text: text[start:j], Start: start, End: j})
				start = j
			}
			i = j
			continue
		}

		i += size
	}

	if start < len(text) {
		segs = append(segs, Segment{Text: text[start:], Start: start, End: len(text)})
	}

	return segs
}

// startsNewSentence reports whether position pos is followed by whitespace
// and then an uppercase letter, an opening quote, or a digit.
func startsNewSentence(text string, pos int) bool {
	i := pos
	foundSpace := false
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) {
			foundSpace = true
			i += size
			continue
		}
		return foundSpace && (unicode.IsUpper(r) || unicode.IsDigit(r) || r == '"' || r == '“')
	}
	return false
}

// isAbbreviation checks whether the dot at byte position dotPos terminates a
// known abbreviation rather than a sentence.
func isAbbreviation(text string, dotPos int) bool {
	word := wordBefore(text, dotPos)
	if word == "" {
		return false
	}
	return abbreviations[strings.ToLower(word)+"."]
}

// wordBefore extracts the token immediately before byte position pos. The
// token may contain internal dots so multi-part abbreviations like "e.g."
// resolve as one unit.
func wordBefore(text string, pos int) string {
	i := pos
	for i > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:i])
		if unicode.IsLetter(r) || r == '.' {
			i -= size
		} else {
			break
		}
	}
	if i == pos {
		return ""
	}
	return strings.TrimPrefix(text[i:pos], ".")
}
