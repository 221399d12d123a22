// Package lookup lists raw dictionary candidates, without any path search.
package lookup

import (
	"morphparse/dictionary"
)

// Candidate is one dictionary match at a rune offset.
type Candidate struct {
	Begin          int      `json:"begin"`
	End            int      `json:"end"`
	Surface        string   `json:"surface"`
	POS            []string `json:"pos,omitempty"`
	Cost           int16    `json:"cost"`
	LeftID         int16    `json:"left_id"`
	RightID        int16    `json:"right_id"`
	DictionaryForm string   `json:"dictionary_form"`
	ReadingForm    string   `json:"reading_form,omitempty"`
	WordID         int32    `json:"word_id"`
	DictionaryID   int      `json:"dictionary_id"`
}

// Candidates returns every match of lex at every offset of text, in offset
// order and lexicon order within an offset. g may be nil, leaving POS empty.
func Candidates(lex dictionary.Lexicon, g dictionary.Grammar, text string) []Candidate {
	if lex == nil {
		return nil
	}
	runes := []rune(text)
	var out []Candidate
	for i := range runes {
		for m := range lex.Lookup(runes, i) {
			if m.Entry == nil || m.Length <= 0 || i+m.Length > len(runes) {
				continue
			}
			c := Candidate{
				Begin:          i,
				End:            i + m.Length,
				Surface:        string(runes[i : i+m.Length]),
				Cost:           m.Entry.Cost,
				LeftID:         m.Entry.LeftID,
				RightID:        m.Entry.RightID,
				DictionaryForm: m.Entry.DictionaryForm,
				ReadingForm:    m.Entry.ReadingForm,
				WordID:         m.Entry.WordID,
				DictionaryID:   m.Entry.DictionaryID,
			}
			if g != nil {
				c.POS = append([]string(nil), g.PartOfSpeech(m.Entry.POSID)...)
			}
			out = append(out, c)
		}
	}
	return out
}
