// Package sentence cuts text into sentences so each can be analyzed on its
// own lattice.
package sentence

import "strings"

const (
	terminators = "。．！？!?"
	closers     = "」』）)］]】〉》\"'’”"
)

// Span is a sentence in rune offsets [Begin, End).
type Span struct {
	Begin int    `json:"begin"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Split returns spans covering text contiguously. A sentence ends after a
// run of terminators and any closing brackets or quotes that follow it, or
// after a newline. Spans longer than limit runes are cut at limit; limit <= 0
// disables the cut.
func Split(text string, limit int) []Span {
	runes := []rune(text)
	var spans []Span
	start := 0
	for i := 0; i < len(runes); i++ {
		cut := -1
		switch r := runes[i]; {
		case r == '\n':
			cut = i + 1
		case strings.ContainsRune(terminators, r):
			j := i + 1
			for j < len(runes) && (strings.ContainsRune(terminators, runes[j]) || strings.ContainsRune(closers, runes[j])) {
				j++
			}
			cut = j
		}
		if limit > 0 {
			if cut < 0 && i+1-start >= limit {
				cut = i + 1
			}
			if cut-start > limit {
				cut = start + limit
			}
		}
		if cut > start {
			spans = append(spans, Span{Begin: start, End: cut, Text: string(runes[start:cut])})
			start = cut
			i = cut - 1
		}
	}
	if start < len(runes) {
		spans = append(spans, Span{Begin: start, End: len(runes), Text: string(runes[start:])})
	}
	return spans
}
