// Package kagomedict exposes a kagome-dict system dictionary (IPADIC or
// UniDic) as a Lexicon, a Grammar and an unknown-word OOV provider.
package kagomedict

import (
	"errors"
	"fmt"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/ikawaha/kagome-dict/dict"
	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome-dict/uni"

	"morphparse/dictionary"
	"morphparse/model"
)

// Lookups and unknown-word groups never look further than this many runes.
const (
	maxLookupRunes = 256
	maxGroupRunes  = 1024
)

// Layout says where the word forms live in a morph's content features.
// Known-word contents exclude the POS columns; unknown-word contents start
// with POSLen POS columns.
type Layout struct {
	Name           string
	DictionaryForm int
	NormalizedForm int
	ReadingForm    int
	POSLen         int
}

var (
	// IPALayout: 活用型,活用形,原形,読み,発音
	IPALayout = Layout{Name: "ipa", DictionaryForm: 2, NormalizedForm: 2, ReadingForm: 3, POSLen: 4}
	// UniLayout: cType,cForm,lForm,lemma,orth,pron,orthBase,pronBase,...
	UniLayout = Layout{Name: "uni", DictionaryForm: 6, NormalizedForm: 3, ReadingForm: 2, POSLen: 4}
)

// Dictionary wraps a loaded kagome dictionary. It is read-only after New.
type Dictionary struct {
	d        *dict.Dict
	layout   Layout
	pos      [][]string
	posIndex map[string]int16
	morphPOS []int16
	unkPOS   []int16
}

var (
	_ dictionary.Lexicon = (*Dictionary)(nil)
	_ dictionary.Grammar = (*Dictionary)(nil)
)

// Open loads a bundled system dictionary by name: "ipa" or "uni".
func Open(name string) (*Dictionary, error) {
	switch strings.ToLower(name) {
	case "ipa", "ipadic":
		return New(ipa.Dict(), IPALayout)
	case "uni", "unidic":
		return New(uni.Dict(), UniLayout)
	}
	return nil, &model.DictionaryUnavailableError{Name: name, Err: errors.New("unknown system dictionary")}
}

// New interns the POS tuples of d into small ids.
func New(d *dict.Dict, layout Layout) (*Dictionary, error) {
	if d == nil || len(d.Morphs) == 0 {
		return nil, &model.DictionaryUnavailableError{Name: layout.Name, Err: errors.New("empty kagome dictionary")}
	}
	if len(d.POSTable.POSs) < len(d.Morphs) {
		return nil, &model.DictionaryUnavailableError{
			Name: layout.Name,
			Err:  fmt.Errorf("pos table has %d rows for %d morphs", len(d.POSTable.POSs), len(d.Morphs)),
		}
	}
	k := &Dictionary{
		d:        d,
		layout:   layout,
		posIndex: make(map[string]int16),
		morphPOS: make([]int16, len(d.Morphs)),
		unkPOS:   make([]int16, len(d.UnkDict.Morphs)),
	}
	names := d.POSTable.NameList
	for i := range d.Morphs {
		var tuple []string
		for _, id := range d.POSTable.POSs[i] {
			if int(id) < len(names) {
				tuple = append(tuple, names[id])
			}
		}
		k.morphPOS[i] = k.intern(tuple)
	}
	for i := range d.UnkDict.Morphs {
		var tuple []string
		if i < len(d.UnkDict.Contents) {
			c := d.UnkDict.Contents[i]
			tuple = c[:min(layout.POSLen, len(c))]
		}
		k.unkPOS[i] = k.intern(tuple)
	}
	return k, nil
}

func (k *Dictionary) intern(tuple []string) int16 {
	key := strings.Join(tuple, ",")
	if id, ok := k.posIndex[key]; ok {
		return id
	}
	id := int16(len(k.pos))
	k.pos = append(k.pos, append([]string(nil), tuple...))
	k.posIndex[key] = id
	return id
}

// Name is the layout name ("ipa" or "uni").
func (k *Dictionary) Name() string { return k.layout.Name }

// UnknownPOS is the part of speech of the default unknown-word category.
func (k *Dictionary) UnknownPOS() int16 {
	if id, ok := k.d.UnkDict.Index[0]; ok && id >= 0 && int(id) < len(k.unkPOS) {
		return k.unkPOS[id]
	}
	return 0
}

// Raw returns the underlying kagome dictionary.
func (k *Dictionary) Raw() *dict.Dict { return k.d }

// Lookup runs a common-prefix search on the double-array index.
func (k *Dictionary) Lookup(text []rune, offset int) iter.Seq[dictionary.Match] {
	return func(yield func(dictionary.Match) bool) {
		if offset < 0 || offset >= len(text) {
			return
		}
		s := string(text[offset:min(len(text), offset+maxLookupRunes)])
		lens, ids := k.d.Index.CommonPrefixSearch(s)
		for i, l := range lens {
			if l <= 0 || l > len(s) || i >= len(ids) {
				continue
			}
			surface := s[:l]
			n := utf8.RuneCountInString(surface)
			for _, id := range ids[i] {
				if id < 0 || id >= len(k.d.Morphs) {
					continue
				}
				if !yield(dictionary.Match{Length: n, Entry: k.known(id, surface)}) {
					return
				}
			}
		}
	}
}

func (k *Dictionary) known(id int, surface string) *dictionary.Entry {
	m := k.d.Morphs[id]
	var contents []string
	if id < len(k.d.Contents) {
		contents = k.d.Contents[id]
	}
	e := &dictionary.Entry{
		Surface:        surface,
		LeftID:         int16(m.LeftID),
		RightID:        int16(m.RightID),
		Cost:           int16(m.Weight),
		POSID:          k.morphPOS[id],
		DictionaryForm: feature(contents, k.layout.DictionaryForm),
		NormalizedForm: feature(contents, k.layout.NormalizedForm),
		ReadingForm:    feature(contents, k.layout.ReadingForm),
		DictionaryID:   dictionary.SystemDictionaryID,
		WordID:         int32(id),
	}
	if e.DictionaryForm == "" {
		e.DictionaryForm = surface
	}
	if e.NormalizedForm == "" {
		e.NormalizedForm = e.DictionaryForm
	}
	return e
}

func feature(contents []string, i int) string {
	if i < 0 || i >= len(contents) || contents[i] == "*" {
		return ""
	}
	return contents[i]
}

func (k *Dictionary) ConnectCost(rightID, leftID int16) int16 {
	c := &k.d.Connection
	if rightID < 0 || leftID < 0 || int64(rightID) >= int64(c.Row) || int64(leftID) >= int64(c.Col) {
		return 0
	}
	return int16(c.At(int(rightID), int(leftID)))
}

func (k *Dictionary) PartOfSpeech(posID int16) []string {
	if posID < 0 || int(posID) >= len(k.pos) {
		return nil
	}
	return k.pos[posID]
}

func (k *Dictionary) PartOfSpeechID(pos []string) (int16, bool) {
	id, ok := k.posIndex[strings.Join(pos, ",")]
	return id, ok
}

func (k *Dictionary) category(r rune) int {
	cc := k.d.CharCategory
	if len(cc) == 0 {
		return 0
	}
	if r >= 0 && int(r) < len(cc) {
		return int(cc[r])
	}
	return int(cc[0])
}

// Provide implements MeCab-style unknown-word processing: a category is
// tried at matched positions only if it is invoked, and grouped categories
// cover the whole run of same-category characters.
func (k *Dictionary) Provide(text []rune, offset int, matched bool) []dictionary.Match {
	if offset < 0 || offset >= len(text) {
		return nil
	}
	class := k.category(text[offset])
	if matched && !(class < len(k.d.InvokeList) && k.d.InvokeList[class]) {
		return nil
	}
	length := 1
	if class < len(k.d.GroupList) && k.d.GroupList[class] {
		for offset+length < len(text) && length < maxGroupRunes && k.category(text[offset+length]) == class {
			length++
		}
	}
	id, ok := k.d.UnkDict.Index[int32(class)]
	if !ok {
		return nil
	}
	dup := k.d.UnkDict.IndexDup[int32(class)]
	surface := string(text[offset : offset+length])
	out := make([]dictionary.Match, 0, int(dup)+1)
	for x := 0; x <= int(dup); x++ {
		uid := int(id) + x
		if uid < 0 || uid >= len(k.d.UnkDict.Morphs) {
			break
		}
		out = append(out, dictionary.Match{Length: length, Entry: k.unknown(uid, surface)})
	}
	return out
}

func (k *Dictionary) unknown(id int, surface string) *dictionary.Entry {
	m := k.d.UnkDict.Morphs[id]
	return &dictionary.Entry{
		Surface:        surface,
		LeftID:         int16(m.LeftID),
		RightID:        int16(m.RightID),
		Cost:           int16(m.Weight),
		POSID:          k.unkPOS[id],
		DictionaryForm: surface,
		NormalizedForm: surface,
		DictionaryID:   dictionary.OOVDictionaryID,
		WordID:         dictionary.UndefinedWordID,
		OOV:            true,
	}
}
