package reference

import (
	"io"
	"log"
	"slices"
	"strings"
	"testing"

	"morphparse/dictionary/kagomedict"
	"morphparse/model"
	"morphparse/tokenize"
)

func TestDiff(t *testing.T) {
	ref := []Segment{{0, 3, "can", ""}, {3, 6, "not", ""}}
	ours := []Segment{{0, 6, "cannot", ""}}
	r := Diff("cannot", ref, ours)
	if r.Agree() {
		t.Fatal("different segmentations agree")
	}
	if !slices.Equal(r.OnlyReference, []int{3}) || len(r.OnlyOurs) != 0 {
		t.Errorf("report = %+v", r)
	}
	if !Diff("cannot", ours, ours).Agree() {
		t.Error("identical segmentations disagree")
	}
}

func TestAgainstKagome(t *testing.T) {
	if testing.Short() {
		t.Skip("loading the IPA dictionary is slow")
	}
	d, err := kagomedict.Open("ipa")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	c, err := New(d.Raw())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tok, err := tokenize.New(d, d, d, tokenize.WithLogger(log.New(io.Discard, "", 0)))
	if err != nil {
		t.Fatalf("tokenize.New: %v", err)
	}

	text := "すもももももももものうち"
	want := "すもも|も|もも|も|もも|の|うち"
	var ref []string
	for _, s := range c.Segment(text) {
		ref = append(ref, s.Surface)
	}
	if got := strings.Join(ref, "|"); got != want {
		t.Fatalf("kagome = %s, want %s", got, want)
	}

	ms, err := tok.Tokenize(model.SplitC, text)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if got := strings.Join(ms.Surfaces(), "|"); got != want {
		t.Errorf("ours = %s, want %s", got, want)
	}
	if r := c.Compare(text, ms); !r.Agree() {
		t.Errorf("report = %+v", r)
	}
}
