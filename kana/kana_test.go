package kana

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		r    rune
		want Class
	}{
		{'秋', Kanji},
		{'々', Kanji},
		{'あ', Hiragana},
		{'カ', Katakana},
		{'ー', Katakana},
		{'ｶ', Katakana},
		{'x', Alpha},
		{'Ω', Alpha},
		{'7', Numeric},
		{'７', Numeric},
		{' ', Space},
		{'\n', Space},
		{'。', Symbol},
		{'!', Symbol},
	}
	for _, tt := range tests {
		if got := Classify(tt.r); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestKanaConversion(t *testing.T) {
	if got := ToHiragana("イリミナイカワ"); got != "いりみないかわ" {
		t.Errorf("ToHiragana = %q", got)
	}
	if got := ToKatakana("とうきょう"); got != "トウキョウ" {
		t.Errorf("ToKatakana = %q", got)
	}
	if got := ToHiragana("東京タワー"); got != "東京たわー" {
		t.Errorf("ToHiragana mixed = %q", got)
	}
}
