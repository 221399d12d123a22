package ingest

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"morphparse/model"
)

// Sentence is a validated piece of input text and its metadata.
type Sentence struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSentence rejects blank or malformed input and assigns a fresh id.
// Text is kept as given so offsets count from the raw line.
func NewSentence(text string) (Sentence, error) {
	if !utf8.ValidString(text) {
		off := 0
		for off < len(text) {
			r, size := utf8.DecodeRuneInString(text[off:])
			if r == utf8.RuneError && size <= 1 {
				break
			}
			off += size
		}
		return Sentence{}, &model.InvalidInputError{Offset: off, Reason: "invalid UTF-8"}
	}
	if strings.TrimSpace(text) == "" {
		return Sentence{}, &model.InvalidInputError{Offset: -1, Reason: "empty sentence"}
	}
	return Sentence{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}, nil
}
