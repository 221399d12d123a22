package oov

import (
	"testing"

	"morphparse/dictionary"
	"morphparse/kana"
)

func checkOOV(t *testing.T, m dictionary.Match) {
	t.Helper()
	e := m.Entry
	if !e.OOV || e.DictionaryID >= 0 || e.WordID != dictionary.UndefinedWordID {
		t.Errorf("%q: not marked OOV: %+v", e.Surface, e)
	}
	if e.ReadingForm != "" || e.DictionaryForm != e.Surface || e.NormalizedForm != e.Surface {
		t.Errorf("%q: forms = %q %q %q", e.Surface, e.DictionaryForm, e.NormalizedForm, e.ReadingForm)
	}
	if n := len([]rune(e.Surface)); n != m.Length {
		t.Errorf("%q: length %d, surface has %d runes", e.Surface, m.Length, n)
	}
}

func TestSimple(t *testing.T) {
	s := NewSimple(3)
	text := []rune("xyz")
	got := s.Provide(text, 1, false)
	if len(got) != 1 || got[0].Entry.Surface != "y" || got[0].Entry.Cost != DefaultCost || got[0].Entry.POSID != 3 {
		t.Fatalf("Provide = %+v", got)
	}
	checkOOV(t, got[0])
	if got := s.Provide(text, 1, true); got != nil {
		t.Errorf("matched position produced %+v", got)
	}
	if got := s.Provide(text, 3, false); got != nil {
		t.Errorf("offset past end produced %+v", got)
	}
}

func TestGrouping(t *testing.T) {
	g := NewGrouping(Params{Cost: 1000})
	g.Classes[kana.Katakana] = Params{Cost: 500, POSID: 7}

	tests := []struct {
		text    string
		offset  int
		lengths []int
	}{
		{"カタカナです", 0, []int{1, 4}},
		{"abc123", 0, []int{1, 3}},
		{"abc123", 3, []int{1, 3}},
		{"漢字", 0, []int{1}},
		{"x", 0, []int{1}},
	}
	for _, tt := range tests {
		got := g.Provide([]rune(tt.text), tt.offset, false)
		if len(got) != len(tt.lengths) {
			t.Errorf("%s@%d: %d candidates, want %d", tt.text, tt.offset, len(got), len(tt.lengths))
			continue
		}
		for i, m := range got {
			if m.Length != tt.lengths[i] {
				t.Errorf("%s@%d[%d]: length %d, want %d", tt.text, tt.offset, i, m.Length, tt.lengths[i])
			}
			checkOOV(t, m)
		}
	}

	got := g.Provide([]rune("カナ"), 0, false)
	if got[0].Entry.Cost != 500 || got[0].Entry.POSID != 7 {
		t.Errorf("katakana params not applied: %+v", got[0].Entry)
	}
	if got := g.Provide([]rune("abc"), 0, true); got != nil {
		t.Errorf("matched position produced %+v", got)
	}
}
