package model

import (
	"fmt"
	"strings"
)

// SplitMode selects the granularity of a segmentation.
// A gives the shortest units, C the longest (the lexicon unit).
type SplitMode int

const (
	SplitA SplitMode = iota
	SplitB
	SplitC
)

// NumSplitModes is the size of tables indexed by SplitMode.
const NumSplitModes = 3

var splitModeNames = [NumSplitModes]string{"A", "B", "C"}

func (m SplitMode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("SplitMode(%d)", int(m))
	}
	return splitModeNames[m]
}

// Valid reports whether m is one of A, B or C.
func (m SplitMode) Valid() bool {
	return m >= SplitA && m <= SplitC
}

// Finer reports whether m produces shorter units than other.
func (m SplitMode) Finer(other SplitMode) bool {
	return m < other
}

// ParseSplitMode accepts "A", "B" or "C" in either case.
func ParseSplitMode(s string) (SplitMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return SplitA, nil
	case "B":
		return SplitB, nil
	case "C", "":
		return SplitC, nil
	}
	return SplitC, fmt.Errorf("unknown split mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m SplitMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid split mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *SplitMode) UnmarshalText(b []byte) error {
	v, err := ParseSplitMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Token is the serialized form of one morpheme.
type Token struct {
	Surface        string    `json:"surface"`
	Begin          int       `json:"begin"`
	End            int       `json:"end"`
	POS            []string  `json:"pos"`
	POSID          int16     `json:"pos_id"`
	DictionaryForm string    `json:"dictionary_form"`
	NormalizedForm string    `json:"normalized_form"`
	ReadingForm    string    `json:"reading_form"`
	OOV            bool      `json:"oov,omitempty"`
	WordID         int32     `json:"word_id"`
	DictionaryID   int       `json:"dictionary_id"`
	Mode           SplitMode `json:"mode"`
}

// Analysis is one analyzed text and its tokens.
type Analysis struct {
	ID     string    `json:"id,omitempty"`
	Text   string    `json:"text"`
	Mode   SplitMode `json:"mode"`
	Tokens []Token   `json:"tokens"`
}
