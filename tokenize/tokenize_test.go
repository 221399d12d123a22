package tokenize

import (
	"errors"
	"io"
	"log"
	"reflect"
	"strings"
	"testing"

	"morphparse/dictionary"
	"morphparse/model"
	"morphparse/oov"
)

var modes = []model.SplitMode{model.SplitA, model.SplitB, model.SplitC}

type fixture struct {
	tok     *Tokenizer
	grammar *dictionary.MatrixGrammar
}

// newFixture builds a small English lexicon:
//
//	cannot -> A: can|not
//	abc    -> A: a|b (c is left to OOV), B: ab|c
//	external, can, not, a, b, ab, c
func newFixture(t *testing.T) fixture {
	t.Helper()
	return newFixtureWith(t, func(unk int16) oov.Provider { return oov.NewSimple(unk) })
}

func newFixtureWith(t *testing.T, provider func(unk int16) oov.Provider) fixture {
	t.Helper()
	g := dictionary.NewMatrixGrammar(1, 1)
	noun := g.AddPOS("noun", "common")
	verb := g.AddPOS("verb")
	g.AddPOS("unknown")

	b := dictionary.NewBuilder(dictionary.SystemDictionaryID)
	b.Add(dictionary.Word{Surface: "external", Cost: 100, POSID: noun, ReadingForm: "ekstɜːnəl"})
	can := b.Add(dictionary.Word{Surface: "can", Cost: 100, POSID: verb})
	not := b.Add(dictionary.Word{Surface: "not", Cost: 100, POSID: verb})
	cannot := b.Add(dictionary.Word{Surface: "cannot", Cost: 150, POSID: verb, NormalizedForm: "can not"})
	b.SetSplit(cannot, model.SplitA, can, not)

	a := b.Add(dictionary.Word{Surface: "a", Cost: 5000})
	bb := b.Add(dictionary.Word{Surface: "b", Cost: 5000})
	ab := b.Add(dictionary.Word{Surface: "ab", Cost: 5000})
	abc := b.Add(dictionary.Word{Surface: "abc", Cost: 10})
	b.SetSplit(abc, model.SplitA, a, bb)
	c := b.Add(dictionary.Word{Surface: "c", Cost: 5000})
	b.SetSplit(abc, model.SplitB, ab, c)

	lex, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	unk, _ := g.PartOfSpeechID([]string{"unknown"})
	tok, err := New(lex, g, provider(unk), WithLogger(log.New(io.Discard, "", 0)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return fixture{tok: tok, grammar: g}
}

func checkContiguous(t *testing.T, text string, ms MorphemeList) {
	t.Helper()
	pos := 0
	for _, m := range ms {
		if m.Begin() != pos || m.End() <= m.Begin() {
			t.Fatalf("%q: morpheme %q [%d,%d) does not start at %d", text, m.Surface(), m.Begin(), m.End(), pos)
		}
		pos = m.End()
	}
	if pos != len([]rune(text)) {
		t.Fatalf("%q: morphemes end at %d, want %d", text, pos, len([]rune(text)))
	}
	if ms.Text() != text {
		t.Fatalf("surfaces %q do not reproduce %q", ms.Surfaces(), text)
	}
}

func TestExternal(t *testing.T) {
	f := newFixture(t)
	ms, err := f.tok.Tokenize(model.SplitC, "external")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(ms) != 1 {
		t.Fatalf("got %q", ms.Surfaces())
	}
	m := ms[0]
	if m.Begin() != 0 || m.End() != 8 || m.Surface() != "external" || m.IsOOV() {
		t.Errorf("morpheme = %+v", m.Record())
	}
	if pos := m.PartOfSpeech(); len(pos) != 2 || pos[0] != "noun" {
		t.Errorf("pos = %v", pos)
	}
	if m.ReadingForm() != "ekstɜːnəl" || m.DictionaryForm() != "external" || m.DictionaryID() != 0 {
		t.Errorf("forms = %+v", m.Record())
	}
	for _, mode := range modes {
		if got := m.Split(mode); len(got) != 1 || got[0] != m {
			t.Errorf("Split(%v) = %q, want identity", mode, got.Surfaces())
		}
	}
}

func TestUnknownText(t *testing.T) {
	f := newFixture(t)
	ms, err := f.tok.Tokenize(model.SplitC, "xyz")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	checkContiguous(t, "xyz", ms)
	if strings.Join(ms.Surfaces(), "|") != "x|y|z" {
		t.Fatalf("got %q", ms.Surfaces())
	}
	for _, m := range ms {
		if !m.IsOOV() || m.DictionaryID() >= 0 || m.ReadingForm() != "" {
			t.Errorf("%q: %+v", m.Surface(), m.Record())
		}
		if m.WordID() != dictionary.UndefinedWordID {
			t.Errorf("%q word id = %d", m.Surface(), m.WordID())
		}
		if pos := m.PartOfSpeech(); len(pos) != 1 || pos[0] != "unknown" {
			t.Errorf("%q pos = %v", m.Surface(), pos)
		}
	}
}

func TestCannotSplit(t *testing.T) {
	f := newFixture(t)
	ms, err := f.tok.Tokenize(model.SplitC, "cannot")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(ms) != 1 || ms[0].Surface() != "cannot" || ms[0].NormalizedForm() != "can not" {
		t.Fatalf("C = %q", ms.Surfaces())
	}
	parts := ms[0].Split(model.SplitA)
	if strings.Join(parts.Surfaces(), "|") != "can|not" {
		t.Fatalf("Split(A) = %q", parts.Surfaces())
	}
	checkContiguous(t, "cannot", parts)
	for _, p := range parts {
		if p.Mode() != model.SplitA || p.IsOOV() {
			t.Errorf("part %+v", p.Record())
		}
	}
	// no B segmentation registered
	if b := ms[0].Split(model.SplitB); len(b) != 1 || b[0] != ms[0] {
		t.Errorf("Split(B) = %q", b.Surfaces())
	}

	a, err := f.tok.Tokenize(model.SplitA, "cannot")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a.Records(), parts.Records()) {
		t.Errorf("Tokenize(A) = %+v, Split(A) = %+v", a.Records(), parts.Records())
	}
}

func TestSplitIdentityAndCoarser(t *testing.T) {
	f := newFixture(t)
	a, err := f.tok.Tokenize(model.SplitA, "cannot")
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range a {
		for _, mode := range modes {
			if got := m.Split(mode); len(got) != 1 || got[0] != m {
				t.Errorf("%q mode A Split(%v) = %q, want identity", m.Surface(), mode, got.Surfaces())
			}
		}
	}
}

func TestSplitFillsGapsWithOOV(t *testing.T) {
	f := newFixture(t)
	ms, err := f.tok.Tokenize(model.SplitC, "xabcx")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(ms.Surfaces(), "|") != "x|abc|x" {
		t.Fatalf("C = %q", ms.Surfaces())
	}
	abc := ms[1]
	parts := abc.Split(model.SplitA)
	if strings.Join(parts.Surfaces(), "|") != "a|b|c" {
		t.Fatalf("Split(A) = %q", parts.Surfaces())
	}
	if parts[0].Begin() != 1 || parts[2].End() != 4 {
		t.Errorf("offsets not based at the morpheme: %+v", parts.Records())
	}
	if !parts[2].IsOOV() || parts[0].IsOOV() {
		t.Errorf("only c should be OOV: %+v", parts.Records())
	}
	if b := abc.Split(model.SplitB); strings.Join(b.Surfaces(), "|") != "ab|c" || b[1].IsOOV() {
		t.Errorf("Split(B) = %+v", b.Records())
	}
}

// invokeAll behaves like kagome's invoked character classes: it offers the
// whole run to the end of the text at every position, matched or not. At
// 180 it loses to "cannot" (150) and "abc" (10) but beats their splits.
func invokeAll(unk int16) oov.Provider {
	return oov.ProviderFunc(func(text []rune, offset int, matched bool) []dictionary.Match {
		rest := string(text[offset:])
		return []dictionary.Match{{Length: len(text) - offset, Entry: oov.Entry(rest, oov.Params{POSID: unk, Cost: 180})}}
	})
}

func TestSplitIgnoresProviderAtCoveredPositions(t *testing.T) {
	providers := map[string]func(int16) oov.Provider{
		"simple":   func(unk int16) oov.Provider { return oov.NewSimple(unk) },
		"invoke":   invokeAll,
		"grouping": func(unk int16) oov.Provider { return oov.NewGrouping(oov.Params{POSID: unk, Cost: 1}) },
	}
	tests := []struct {
		text  string
		mode  model.SplitMode
		want  string
		oovAt int // index of the only OOV part, -1 for none
	}{
		{"cannot", model.SplitA, "can|not", -1},
		{"abc", model.SplitA, "a|b|c", 2},
		{"abc", model.SplitB, "ab|c", -1},
	}
	for name, provider := range providers {
		f := newFixtureWith(t, provider)
		for _, tt := range tests {
			c, err := f.tok.Tokenize(model.SplitC, tt.text)
			if err != nil {
				t.Fatalf("%s: Tokenize(C, %q): %v", name, tt.text, err)
			}
			if len(c) != 1 || c[0].IsOOV() {
				t.Fatalf("%s: C = %+v", name, c.Records())
			}
			parts := c[0].Split(tt.mode)
			if got := strings.Join(parts.Surfaces(), "|"); got != tt.want {
				t.Errorf("%s: %q Split(%v) = %s, want %s", name, tt.text, tt.mode, got, tt.want)
				continue
			}
			for i, p := range parts {
				if wantOOV := i == tt.oovAt; p.IsOOV() != wantOOV || (!wantOOV && p.DictionaryID() < 0) {
					t.Errorf("%s: %q part %d = %+v", name, tt.text, i, p.Record())
				}
			}
			got, err := f.tok.Tokenize(tt.mode, tt.text)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got.Records(), parts.Records()) {
				t.Errorf("%s: Tokenize(%v, %q) = %q", name, tt.mode, tt.text, got.Surfaces())
			}
		}
	}
}

func TestUnsplitMorphemesTakeRequestedMode(t *testing.T) {
	f := newFixture(t)
	for _, mode := range modes {
		ms, err := f.tok.Tokenize(mode, "external")
		if err != nil {
			t.Fatal(err)
		}
		if ms[0].Mode() != mode || ms[0].Record().Mode != mode {
			t.Errorf("Tokenize(%v) tagged %v", mode, ms[0].Mode())
		}
	}
}

func TestProperties(t *testing.T) {
	f := newFixture(t)
	inputs := []string{"", "external", "xyz", "cannot", "cannotabc", "abcexternalcan", "日本語 cannot!"}
	for _, text := range inputs {
		for _, mode := range modes {
			ms, err := f.tok.Tokenize(mode, text)
			if err != nil {
				t.Fatalf("Tokenize(%v, %q): %v", mode, text, err)
			}
			checkContiguous(t, text, ms)
			again, _ := f.tok.Tokenize(mode, text)
			if !reflect.DeepEqual(ms.Records(), again.Records()) {
				t.Errorf("%q: results differ between runs", text)
			}
			for _, m := range ms {
				if m.IsOOV() && (m.DictionaryID() >= 0 || m.ReadingForm() != "") {
					t.Errorf("%q: OOV morpheme %+v", text, m.Record())
				}
				if got := m.Split(m.Mode()); len(got) != 1 || got[0] != m {
					t.Errorf("%q: Split(own mode) not identity", m.Surface())
				}
				for _, sm := range modes {
					if got := m.Split(sm).Text(); got != m.Surface() {
						t.Errorf("%q Split(%v) text = %q", m.Surface(), sm, got)
					}
				}
			}
		}
	}
}

func TestInvalidInput(t *testing.T) {
	f := newFixture(t)
	_, err := f.tok.Tokenize(model.SplitC, "ab\xffc")
	var inv *model.InvalidInputError
	if !errors.As(err, &inv) || inv.Offset != 2 {
		t.Fatalf("err = %v, want invalid input at 2", err)
	}
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Error("not matched by ErrInvalidInput")
	}
	if _, err := f.tok.Tokenize(model.SplitMode(7), "a"); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("bad mode err = %v", err)
	}
	if _, err := f.tok.TokenizeSentences(model.SplitC, "\xff"); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("TokenizeSentences err = %v", err)
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	g := dictionary.NewMatrixGrammar(1, 1)
	lex, _ := dictionary.NewBuilder(0).Build()
	if _, err := New(nil, g, nil); !errors.Is(err, model.ErrDictionaryUnavailable) {
		t.Errorf("nil lexicon err = %v", err)
	}
	if _, err := New(lex, nil, nil); !errors.Is(err, model.ErrDictionaryUnavailable) {
		t.Errorf("nil grammar err = %v", err)
	}
	tok, err := New(lex, g, nil, WithLogger(log.New(io.Discard, "", 0)))
	if err != nil {
		t.Fatalf("nil provider rejected: %v", err)
	}
	ms, err := tok.Tokenize(model.SplitC, "ok")
	if err != nil || len(ms) != 2 || !ms[0].IsOOV() {
		t.Errorf("fallback tokenize = %v, %v", ms.Surfaces(), err)
	}
}

func TestTokenizeSentences(t *testing.T) {
	f := newFixture(t)
	text := "cannot!xyz"
	sents, err := f.tok.TokenizeSentences(model.SplitA, text)
	if err != nil {
		t.Fatal(err)
	}
	if len(sents) != 2 {
		t.Fatalf("got %d sentences", len(sents))
	}
	if strings.Join(sents[0].Surfaces(), "|") != "can|not|!" {
		t.Errorf("first = %q", sents[0].Surfaces())
	}
	if sents[1][0].Begin() != 7 || sents[1][2].End() != 10 {
		t.Errorf("offsets not global: %+v", sents[1].Records())
	}
	var all MorphemeList
	for _, s := range sents {
		all = append(all, s...)
	}
	checkContiguous(t, text, all)
}

func TestLatticeDump(t *testing.T) {
	f := newFixture(t)
	l, err := f.tok.Lattice("cannot")
	if err != nil {
		t.Fatal(err)
	}
	var surfaces []string
	for _, n := range l.Dump() {
		surfaces = append(surfaces, n.Surface)
	}
	joined := strings.Join(surfaces, ",")
	for _, want := range []string{"can", "cannot", "not"} {
		if !strings.Contains(joined, want) {
			t.Errorf("dump %q lacks %q", joined, want)
		}
	}
}
