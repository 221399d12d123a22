package dictionary

import (
	"errors"
	"fmt"
	"iter"

	"morphparse/model"
)

// Word describes an entry to add to a Builder.
type Word struct {
	Surface        string
	LeftID         int16
	RightID        int16
	Cost           int16
	POSID          int16
	DictionaryForm string // defaults to Surface
	NormalizedForm string // defaults to Surface
	ReadingForm    string
}

type pendingSplit struct {
	word int32
	mode model.SplitMode
	ids  []int32
}

// Builder collects words into a MemoryLexicon. Word ids are assigned in
// insertion order starting at zero.
type Builder struct {
	dictionaryID int
	entries      []*Entry
	splits       []pendingSplit
}

// NewBuilder starts a lexicon whose entries carry dictionaryID.
func NewBuilder(dictionaryID int) *Builder {
	return &Builder{dictionaryID: dictionaryID}
}

// Add registers w and returns its word id.
func (b *Builder) Add(w Word) int32 {
	id := int32(len(b.entries))
	e := &Entry{
		Surface:        w.Surface,
		LeftID:         w.LeftID,
		RightID:        w.RightID,
		Cost:           w.Cost,
		POSID:          w.POSID,
		DictionaryForm: w.DictionaryForm,
		NormalizedForm: w.NormalizedForm,
		ReadingForm:    w.ReadingForm,
		DictionaryID:   b.dictionaryID,
		WordID:         id,
	}
	if e.DictionaryForm == "" {
		e.DictionaryForm = w.Surface
	}
	if e.NormalizedForm == "" {
		e.NormalizedForm = w.Surface
	}
	b.entries = append(b.entries, e)
	return id
}

// SetSplit adds a segmentation of word into the words ids for mode.
// Ids are resolved by Build.
func (b *Builder) SetSplit(word int32, mode model.SplitMode, ids ...int32) {
	b.splits = append(b.splits, pendingSplit{word: word, mode: mode, ids: append([]int32(nil), ids...)})
}

// Build resolves splits and freezes the lexicon.
func (b *Builder) Build() (*MemoryLexicon, error) {
	var errs []error
	for _, e := range b.entries {
		if e.Surface == "" {
			errs = append(errs, fmt.Errorf("word %d: empty surface", e.WordID))
		}
	}
	for _, s := range b.splits {
		if s.word < 0 || int(s.word) >= len(b.entries) {
			errs = append(errs, fmt.Errorf("split of unknown word %d", s.word))
			continue
		}
		if !s.mode.Valid() {
			errs = append(errs, fmt.Errorf("word %d: invalid split mode %v", s.word, s.mode))
			continue
		}
		seg := make(Segmentation, 0, len(s.ids))
		for _, id := range s.ids {
			if id < 0 || int(id) >= len(b.entries) {
				errs = append(errs, fmt.Errorf("word %d: split references unknown word %d", s.word, id))
				seg = nil
				break
			}
			seg = append(seg, b.entries[id])
		}
		if seg != nil {
			e := b.entries[s.word]
			e.Splits[s.mode] = append(e.Splits[s.mode], seg)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	root := &trieNode{}
	for _, e := range b.entries {
		root.insert([]rune(e.Surface), e)
	}
	return &MemoryLexicon{root: root, entries: b.entries}, nil
}

type trieNode struct {
	children map[rune]*trieNode
	entries  []*Entry
}

func (n *trieNode) insert(key []rune, e *Entry) {
	cur := n
	for _, r := range key {
		if cur.children == nil {
			cur.children = make(map[rune]*trieNode)
		}
		next, ok := cur.children[r]
		if !ok {
			next = &trieNode{}
			cur.children[r] = next
		}
		cur = next
	}
	cur.entries = append(cur.entries, e)
}

// MemoryLexicon is a rune trie over a fixed word list.
type MemoryLexicon struct {
	root    *trieNode
	entries []*Entry
}

// Lookup yields shorter matches before longer ones; entries of the same
// surface come in insertion order.
func (l *MemoryLexicon) Lookup(text []rune, offset int) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		if offset < 0 || offset >= len(text) {
			return
		}
		cur := l.root
		for i := offset; i < len(text); i++ {
			next, ok := cur.children[text[i]]
			if !ok {
				return
			}
			cur = next
			for _, e := range cur.entries {
				if !yield(Match{Length: i - offset + 1, Entry: e}) {
					return
				}
			}
		}
	}
}

// Word returns the entry with the given id.
func (l *MemoryLexicon) Word(id int32) (*Entry, bool) {
	if id < 0 || int(id) >= len(l.entries) {
		return nil, false
	}
	return l.entries[id], true
}

// Len is the number of words.
func (l *MemoryLexicon) Len() int { return len(l.entries) }
