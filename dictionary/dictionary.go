// Package dictionary defines what the analyzer consumes from a dictionary:
// a Lexicon answering "which words start here" and a Grammar holding
// connection costs and part-of-speech names.
package dictionary

import (
	"iter"

	"morphparse/model"
)

const (
	// SystemDictionaryID is the id of entries from the system dictionary.
	SystemDictionaryID = 0
	// OOVDictionaryID is the id of synthetic out-of-vocabulary entries.
	OOVDictionaryID = -1
	// UndefinedWordID is the word id of entries that are not in any dictionary.
	UndefinedWordID int32 = -1
	// BoundaryClass is the connection class of the sentence begin/end anchors.
	BoundaryClass int16 = 0
)

// Segmentation is one finer-grained reading of an entry, in text order.
type Segmentation []*Entry

// SplitTable holds the alternate segmentations of an entry, indexed by mode.
type SplitTable [model.NumSplitModes][]Segmentation

// For returns the segmentations registered for mode.
func (t *SplitTable) For(mode model.SplitMode) []Segmentation {
	if !mode.Valid() {
		return nil
	}
	return t[mode]
}

// Entry is one dictionary-backed interpretation of a substring.
// Entries are never modified after a Lexicon hands them out.
type Entry struct {
	Surface        string
	LeftID         int16
	RightID        int16
	Cost           int16
	POSID          int16
	DictionaryForm string
	NormalizedForm string
	ReadingForm    string
	DictionaryID   int
	WordID         int32
	OOV            bool
	Splits         SplitTable
}

// HasSplit reports whether mode yields more than one unit for e.
func (e *Entry) HasSplit(mode model.SplitMode) bool {
	for _, seg := range e.Splits.For(mode) {
		if len(seg) > 1 {
			return true
		}
	}
	return false
}

// Match is a candidate found at some offset; Length counts runes.
type Match struct {
	Length int
	Entry  *Entry
}

// Lexicon is the Dictionary Index.
//
// Lookup yields every entry whose surface is a prefix of text[offset:].
// Implementations must allow concurrent lookups without locking.
type Lexicon interface {
	Lookup(text []rune, offset int) iter.Seq[Match]
}

// Grammar is the Connection Cost Table plus the part-of-speech table.
type Grammar interface {
	// ConnectCost is the cost of a node with right class rightID followed
	// by a node with left class leftID.
	ConnectCost(rightID, leftID int16) int16
	PartOfSpeech(posID int16) []string
	PartOfSpeechID(pos []string) (int16, bool)
}

// LexiconFunc adapts a plain function to Lexicon.
type LexiconFunc func(text []rune, offset int) iter.Seq[Match]

func (f LexiconFunc) Lookup(text []rune, offset int) iter.Seq[Match] { return f(text, offset) }

// Chain queries lexicons in order; the first lexicon's candidates come first.
func Chain(lexicons ...Lexicon) Lexicon {
	list := make([]Lexicon, 0, len(lexicons))
	for _, l := range lexicons {
		if l != nil {
			list = append(list, l)
		}
	}
	if len(list) == 1 {
		return list[0]
	}
	return chain(list)
}

type chain []Lexicon

func (c chain) Lookup(text []rune, offset int) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		for _, l := range c {
			for m := range l.Lookup(text, offset) {
				if !yield(m) {
					return
				}
			}
		}
	}
}
