package lang

import "testing"

func TestDetect(t *testing.T) {
	cases := []struct {
		name   string
		prompt string
		want   string
	}{
		{"english question", "What if cats could talk?", English},
		{"empty prompt", "", English},
		{"diacritics", "Nếu con người sống được 500 năm?", Vietnamese},
		{"function words without diacritics", "chuyen gi xay ra neu trai dat ngung quay", English},
		{"single function word", "trái đất là gì", Vietnamese},
		{"mixed with english", "what if mèo biết nói", Vietnamese},
		{"ascii function word match", "cai do cho ai", Vietnamese},
		{"numbers and symbols", "2 + 2 = 5?", English},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Detect(tc.prompt); got != tc.want {
				t.Errorf("Detect(%q) = %s, want %s", tc.prompt, got, tc.want)
			}
		})
	}
}

func TestDetect_WordListRequiresWholeWords(t *testing.T) {
	// "code" contains "do" but must not trip the word list.
	if got := Detect("refactor the codebase"); got != English {
		t.Errorf("substring of an English word misdetected as Vietnamese")
	}
}
