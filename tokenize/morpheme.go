package tokenize

import (
	"iter"
	"strings"

	"morphparse/dictionary"
	"morphparse/lattice"
	"morphparse/model"
	"morphparse/oov"
)

// Morpheme is a read-only view of one path segment.
type Morpheme struct {
	begin   int
	end     int
	surface string
	entry   *dictionary.Entry
	mode    model.SplitMode
	tok     *Tokenizer
}

// Begin is the rune offset of the first character.
func (m *Morpheme) Begin() int { return m.begin }

// End is the rune offset just past the last character.
func (m *Morpheme) End() int { return m.end }

func (m *Morpheme) Surface() string { return m.surface }

// PartOfSpeech returns a copy of the tag list.
func (m *Morpheme) PartOfSpeech() []string {
	return append([]string(nil), m.tok.grammar.PartOfSpeech(m.entry.POSID)...)
}

func (m *Morpheme) PartOfSpeechID() int16    { return m.entry.POSID }
func (m *Morpheme) DictionaryForm() string   { return m.entry.DictionaryForm }
func (m *Morpheme) NormalizedForm() string   { return m.entry.NormalizedForm }
func (m *Morpheme) IsOOV() bool              { return m.entry.OOV }
func (m *Morpheme) WordID() int32            { return m.entry.WordID }
func (m *Morpheme) DictionaryID() int        { return m.entry.DictionaryID }
func (m *Morpheme) Mode() model.SplitMode    { return m.mode }
func (m *Morpheme) Entry() *dictionary.Entry { return m.entry }

// ReadingForm is empty for out-of-vocabulary morphemes.
func (m *Morpheme) ReadingForm() string {
	if m.entry.OOV {
		return ""
	}
	return m.entry.ReadingForm
}

// Record is the serializable form of m.
func (m *Morpheme) Record() model.Token {
	return model.Token{
		Surface:        m.surface,
		Begin:          m.begin,
		End:            m.end,
		POS:            m.PartOfSpeech(),
		POSID:          m.entry.POSID,
		DictionaryForm: m.entry.DictionaryForm,
		NormalizedForm: m.entry.NormalizedForm,
		ReadingForm:    m.ReadingForm(),
		OOV:            m.entry.OOV,
		WordID:         m.entry.WordID,
		DictionaryID:   m.entry.DictionaryID,
		Mode:           m.mode,
	}
}

// Split re-segments m in a finer mode. It returns [m] when mode is m's own
// mode or coarser, or when the entry has no finer segmentation for mode.
// Split never fails; internal errors are logged and give [m].
func (m *Morpheme) Split(mode model.SplitMode) MorphemeList {
	if !mode.Valid() || !mode.Finer(m.mode) || !m.entry.HasSplit(mode) {
		return MorphemeList{m}
	}
	t := m.tok
	text := []rune(m.surface)
	l, err := lattice.Build(text, splitView(m.entry.Splits.For(mode)), t.grammar, gapFiller(t.provider), lattice.WithLogger(t.logger))
	if err != nil {
		t.logger.Printf("[SPLIT] %q mode %v: %v", m.surface, mode, err)
		return MorphemeList{m}
	}
	path, err := l.BestPath()
	if err != nil {
		t.logger.Printf("[SPLIT] %q mode %v: %v", m.surface, mode, err)
		return MorphemeList{m}
	}
	return t.materialize(path, text, m.begin, mode)
}

// splitView is a lexicon that only knows the constituents of segs.
func splitView(segs []dictionary.Segmentation) dictionary.Lexicon {
	return dictionary.LexiconFunc(func(text []rune, offset int) iter.Seq[dictionary.Match] {
		return func(yield func(dictionary.Match) bool) {
			if offset < 0 || offset >= len(text) {
				return
			}
			rest := string(text[offset:])
			for _, seg := range segs {
				for _, e := range seg {
					if e.Surface == "" || !strings.HasPrefix(rest, e.Surface) {
						continue
					}
					if !yield(dictionary.Match{Length: len([]rune(e.Surface)), Entry: e}) {
						return
					}
				}
			}
		}
	})
}

// gapFiller restricts p to positions no constituent covers and cuts its
// candidates to one character, so a constituent never competes with an
// unknown-word run.
func gapFiller(p oov.Provider) oov.Provider {
	return oov.ProviderFunc(func(text []rune, offset int, matched bool) []dictionary.Match {
		if matched || offset < 0 || offset >= len(text) {
			return nil
		}
		params := oov.Params{Cost: oov.DefaultCost}
		if p != nil {
			for _, c := range p.Provide(text, offset, false) {
				if c.Entry != nil {
					params = oov.Params{POSID: c.Entry.POSID, LeftID: c.Entry.LeftID, RightID: c.Entry.RightID, Cost: c.Entry.Cost}
					break
				}
			}
		}
		return []dictionary.Match{{Length: 1, Entry: oov.Entry(string(text[offset]), params)}}
	})
}
