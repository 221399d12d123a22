// Package oov supplies lattice nodes for text the dictionary does not cover.
package oov

import (
	"morphparse/dictionary"
	"morphparse/kana"
)

// DefaultCost is high enough that any dictionary path wins over an
// out-of-vocabulary one of the same span.
const DefaultCost int16 = 30000

// Provider is consulted at every reachable position. matched tells whether
// the dictionary produced any candidate there.
type Provider interface {
	Provide(text []rune, offset int, matched bool) []dictionary.Match
}

// ProviderFunc adapts a plain function to Provider.
type ProviderFunc func(text []rune, offset int, matched bool) []dictionary.Match

func (f ProviderFunc) Provide(text []rune, offset int, matched bool) []dictionary.Match {
	return f(text, offset, matched)
}

// Params are the grammar attributes given to a synthetic entry.
type Params struct {
	POSID   int16
	LeftID  int16
	RightID int16
	Cost    int16
}

// Entry builds an out-of-vocabulary entry for surface.
func Entry(surface string, p Params) *dictionary.Entry {
	return &dictionary.Entry{
		Surface:        surface,
		LeftID:         p.LeftID,
		RightID:        p.RightID,
		Cost:           p.Cost,
		POSID:          p.POSID,
		DictionaryForm: surface,
		NormalizedForm: surface,
		DictionaryID:   dictionary.OOVDictionaryID,
		WordID:         dictionary.UndefinedWordID,
		OOV:            true,
	}
}

// Simple emits one single-character node wherever the dictionary is silent.
type Simple struct {
	Params
}

// NewSimple uses DefaultCost and the boundary classes.
func NewSimple(posID int16) *Simple {
	return &Simple{Params{POSID: posID, Cost: DefaultCost}}
}

func (s *Simple) Provide(text []rune, offset int, matched bool) []dictionary.Match {
	if matched || offset < 0 || offset >= len(text) {
		return nil
	}
	return []dictionary.Match{{Length: 1, Entry: Entry(string(text[offset]), s.Params)}}
}

// Grouping emits a single-character node and, for katakana, latin letters
// and digits, a node covering the whole run of that character class.
type Grouping struct {
	Default Params
	Classes map[kana.Class]Params
}

// NewGrouping gives every class the same parameters.
func NewGrouping(p Params) *Grouping {
	return &Grouping{Default: p, Classes: make(map[kana.Class]Params)}
}

func groupable(c kana.Class) bool {
	switch c {
	case kana.Katakana, kana.Alpha, kana.Numeric:
		return true
	}
	return false
}

func (g *Grouping) params(c kana.Class) Params {
	if p, ok := g.Classes[c]; ok {
		return p
	}
	return g.Default
}

func (g *Grouping) Provide(text []rune, offset int, matched bool) []dictionary.Match {
	if matched || offset < 0 || offset >= len(text) {
		return nil
	}
	class := kana.Classify(text[offset])
	p := g.params(class)
	out := []dictionary.Match{{Length: 1, Entry: Entry(string(text[offset]), p)}}
	if !groupable(class) {
		return out
	}
	n := 1
	for offset+n < len(text) && kana.Classify(text[offset+n]) == class {
		n++
	}
	if n > 1 {
		out = append(out, dictionary.Match{Length: n, Entry: Entry(string(text[offset:offset+n]), p)})
	}
	return out
}
