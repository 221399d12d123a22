// Package kana classifies characters the way OOV grouping needs it and
// converts between hiragana and katakana.
package kana

import "unicode"

// Class is a coarse character category.
type Class int

const (
	Default Class = iota
	Space
	Kanji
	Hiragana
	Katakana
	Alpha
	Numeric
	Symbol
)

var classNames = [...]string{"DEFAULT", "SPACE", "KANJI", "HIRAGANA", "KATAKANA", "ALPHA", "NUMERIC", "SYMBOL"}

func (c Class) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return "DEFAULT"
	}
	return classNames[c]
}

func IsKanji(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) || (r >= 0x3400 && r <= 0x4DBF) || r == 0x3005 // 々
}

func IsHiragana(r rune) bool {
	return r >= 0x3041 && r <= 0x309F
}

// IsKatakana includes the prolonged sound mark and half-width katakana.
func IsKatakana(r rune) bool {
	return (r >= 0x30A0 && r <= 0x30FF) || (r >= 0x31F0 && r <= 0x31FF) || (r >= 0xFF66 && r <= 0xFF9F)
}

func IsKana(r rune) bool {
	return IsHiragana(r) || IsKatakana(r)
}

// Classify returns the category of r.
func Classify(r rune) Class {
	switch {
	case unicode.IsSpace(r):
		return Space
	case IsKanji(r):
		return Kanji
	case IsHiragana(r):
		return Hiragana
	case IsKatakana(r):
		return Katakana
	case unicode.IsDigit(r):
		return Numeric
	case unicode.IsLetter(r):
		return Alpha
	case unicode.IsPunct(r) || unicode.IsSymbol(r):
		return Symbol
	}
	return Default
}

// ToHiragana maps full-width katakana to hiragana, leaving everything else alone.
func ToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}

// ToKatakana maps hiragana to full-width katakana.
func ToKatakana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x3041 && r <= 0x3096 {
			runes[i] = r + 0x60
		}
	}
	return string(runes)
}
