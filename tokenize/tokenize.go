// Package tokenize turns text into morphemes: it builds the lattice in long
// units, takes the minimum-cost path and, for finer split modes, re-segments
// each morpheme on demand.
package tokenize

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"morphparse/dictionary"
	"morphparse/lattice"
	"morphparse/model"
	"morphparse/oov"
	"morphparse/sentence"
)

// DefaultSentenceLimit caps the length of one sentence in TokenizeSentences.
const DefaultSentenceLimit = 4096

// Tokenizer is safe for concurrent use; every call owns its own lattice.
type Tokenizer struct {
	lex           dictionary.Lexicon
	grammar       dictionary.Grammar
	provider      oov.Provider
	logger        *log.Logger
	sentenceLimit int
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

func WithLogger(l *log.Logger) Option {
	return func(t *Tokenizer) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithSentenceLimit sets the maximum sentence length in runes used by
// TokenizeSentences.
func WithSentenceLimit(n int) Option {
	return func(t *Tokenizer) {
		if n > 0 {
			t.sentenceLimit = n
		}
	}
}

// New wires a tokenizer. lex and grammar are required; a nil provider leaves
// unknown text to the lattice's single-character fallback.
func New(lex dictionary.Lexicon, grammar dictionary.Grammar, provider oov.Provider, opts ...Option) (*Tokenizer, error) {
	if lex == nil {
		return nil, &model.DictionaryUnavailableError{Name: "lexicon", Err: errors.New("nil lexicon")}
	}
	if grammar == nil {
		return nil, &model.DictionaryUnavailableError{Name: "grammar", Err: errors.New("nil grammar")}
	}
	t := &Tokenizer{
		lex:           lex,
		grammar:       grammar,
		provider:      provider,
		logger:        log.Default(),
		sentenceLimit: DefaultSentenceLimit,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Grammar returns the grammar the tokenizer was built with.
func (t *Tokenizer) Grammar() dictionary.Grammar { return t.grammar }

// Lexicon returns the lexicon the tokenizer was built with.
func (t *Tokenizer) Lexicon() dictionary.Lexicon { return t.lex }

func validate(text string) error {
	if utf8.ValidString(text) {
		return nil
	}
	for i, r := range text {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(text[i:]); size <= 1 {
				return &model.InvalidInputError{Offset: i, Reason: "invalid UTF-8"}
			}
		}
	}
	return &model.InvalidInputError{Offset: -1, Reason: "invalid UTF-8"}
}

// Tokenize analyzes text and returns morphemes in the given mode. It either
// covers the whole text or fails.
func (t *Tokenizer) Tokenize(mode model.SplitMode, text string) (MorphemeList, error) {
	if !mode.Valid() {
		return nil, &model.InvalidInputError{Offset: -1, Reason: fmt.Sprintf("unknown split mode %d", int(mode))}
	}
	if err := validate(text); err != nil {
		return nil, err
	}
	return t.analyze(mode, []rune(text), 0)
}

// TokenizeSentences splits text into sentences and analyzes each on its own
// lattice. Offsets stay relative to the whole text.
func (t *Tokenizer) TokenizeSentences(mode model.SplitMode, text string) ([]MorphemeList, error) {
	if !mode.Valid() {
		return nil, &model.InvalidInputError{Offset: -1, Reason: fmt.Sprintf("unknown split mode %d", int(mode))}
	}
	if err := validate(text); err != nil {
		return nil, err
	}
	runes := []rune(text)
	var out []MorphemeList
	for _, span := range sentence.Split(text, t.sentenceLimit) {
		ms, err := t.analyze(mode, runes[span.Begin:span.End], span.Begin)
		if err != nil {
			return nil, fmt.Errorf("sentence [%d,%d): %w", span.Begin, span.End, err)
		}
		out = append(out, ms)
	}
	return out, nil
}

// Lattice builds the long-unit lattice of text without searching it, for
// debugging dumps.
func (t *Tokenizer) Lattice(text string) (*lattice.Lattice, error) {
	if err := validate(text); err != nil {
		return nil, err
	}
	return lattice.Build([]rune(text), t.lex, t.grammar, t.provider, lattice.WithLogger(t.logger))
}

func (t *Tokenizer) analyze(mode model.SplitMode, text []rune, base int) (MorphemeList, error) {
	l, err := lattice.Build(text, t.lex, t.grammar, t.provider, lattice.WithLogger(t.logger))
	if err != nil {
		return nil, err
	}
	path, err := l.BestPath()
	if err != nil {
		return nil, err
	}
	ms := t.materialize(path, text, base, model.SplitC)
	if mode == model.SplitC {
		return ms, nil
	}
	out := make(MorphemeList, 0, len(ms))
	for _, m := range ms {
		parts := m.Split(mode)
		if len(parts) == 1 && parts[0] == m {
			m.mode = mode
		}
		out = append(out, parts...)
	}
	return out, nil
}

// materialize maps path nodes to morphemes. Surfaces are cut from text, so
// they always reproduce it.
func (t *Tokenizer) materialize(path []lattice.Node, text []rune, base int, mode model.SplitMode) MorphemeList {
	out := make(MorphemeList, len(path))
	for i, n := range path {
		out[i] = &Morpheme{
			begin:   base + n.Begin,
			end:     base + n.End,
			surface: string(text[n.Begin:n.End]),
			entry:   n.Entry,
			mode:    mode,
			tok:     t,
		}
	}
	return out
}

// MorphemeList is an analysis result in text order.
type MorphemeList []*Morpheme

// Surfaces lists the surface of every morpheme.
func (ms MorphemeList) Surfaces() []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.surface
	}
	return out
}

// Text concatenates all surfaces.
func (ms MorphemeList) Text() string {
	var b strings.Builder
	for _, m := range ms {
		b.WriteString(m.surface)
	}
	return b.String()
}

// Records converts the list for serialization.
func (ms MorphemeList) Records() []model.Token {
	out := make([]model.Token, len(ms))
	for i, m := range ms {
		out[i] = m.Record()
	}
	return out
}
