// Package reference cross-checks our segmentation against kagome's own
// tokenizer running on the same system dictionary.
package reference

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/ikawaha/kagome-dict/dict"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"morphparse/tokenize"
)

// Segment is one token in rune offsets.
type Segment struct {
	Begin   int    `json:"begin"`
	End     int    `json:"end"`
	Surface string `json:"surface"`
	POS     string `json:"pos,omitempty"`
}

// Report lists where the two segmentations place different boundaries.
type Report struct {
	Text          string    `json:"text"`
	Reference     []Segment `json:"reference"`
	Ours          []Segment `json:"ours"`
	OnlyReference []int     `json:"only_reference,omitempty"`
	OnlyOurs      []int     `json:"only_ours,omitempty"`
}

// Agree reports whether both sides cut the text at the same offsets.
func (r Report) Agree() bool {
	return len(r.OnlyReference) == 0 && len(r.OnlyOurs) == 0
}

// Comparer wraps a kagome tokenizer in normal mode.
type Comparer struct {
	t *tokenizer.Tokenizer
}

func New(d *dict.Dict) (*Comparer, error) {
	t, err := tokenizer.New(d, tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("kagome tokenizer: %w", err)
	}
	return &Comparer{t: t}, nil
}

// Segment tokenizes text with kagome. Offsets are recomputed from the
// surfaces so they are comparable with ours.
func (c *Comparer) Segment(text string) []Segment {
	var out []Segment
	pos := 0
	for _, tk := range c.t.Tokenize(text) {
		if tk.Surface == "" {
			continue
		}
		i := strings.Index(text[pos:], tk.Surface)
		if i < 0 {
			continue
		}
		begin := utf8.RuneCountInString(text[:pos+i])
		pos += i + len(tk.Surface)
		out = append(out, Segment{
			Begin:   begin,
			End:     begin + utf8.RuneCountInString(tk.Surface),
			Surface: tk.Surface,
			POS:     strings.Join(tk.POS(), ","),
		})
	}
	return out
}

// Compare segments text with kagome and diffs it against ms.
func (c *Comparer) Compare(text string, ms tokenize.MorphemeList) Report {
	ours := make([]Segment, len(ms))
	for i, m := range ms {
		ours[i] = Segment{Begin: m.Begin(), End: m.End(), Surface: m.Surface(), POS: strings.Join(m.PartOfSpeech(), ",")}
	}
	return Diff(text, c.Segment(text), ours)
}

// Diff compares the end offsets of two segmentations of text.
func Diff(text string, reference, ours []Segment) Report {
	ref, our := ends(reference), ends(ours)
	return Report{
		Text:          text,
		Reference:     reference,
		Ours:          ours,
		OnlyReference: minus(ref, our),
		OnlyOurs:      minus(our, ref),
	}
}

func ends(segs []Segment) []int {
	out := make([]int, 0, len(segs))
	for _, s := range segs {
		out = append(out, s.End)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func minus(a, b []int) []int {
	var out []int
	for _, x := range a {
		if _, found := slices.BinarySearch(b, x); !found {
			out = append(out, x)
		}
	}
	return out
}
