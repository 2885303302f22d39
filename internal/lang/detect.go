// Package lang provides the language heuristic used to pick scenario prompt
// templates. Only Vietnamese and English are distinguished; anything that is
// not recognisably Vietnamese falls back to English.
package lang

import "regexp"

// Supported language codes.
const (
	English    = "en"
	Vietnamese = "vi"
)

var (
	// vietnameseDiacritics matches any character carrying Vietnamese tone or
	// vowel marks, plus đ.
	vietnameseDiacritics = regexp.MustCompile(`(?i)[àáạảãâầấậẩẫăằắặẳẵèéẹẻẽêềếệểễìíịỉĩòóọỏõôồốộổỗơờớợởỡùúụủũưừứựửữỳýỵỷỹđ]`)

	// vietnameseWords matches common Vietnamese function words as whole words.
	// Catches ASCII-only Vietnamese typed without diacritics ("cai nay la gi").
	vietnameseWords = regexp.MustCompile(`(?i)\b(gì|là|của|với|trong|một|này|đó|và|hay|thì|sẽ|đã|có|được|không|nếu|như|để|về|từ|khi|nào|tại|do|theo|qua|bằng|cho|đến|sau|trước|giữa|ngoài|trên|dưới)\b`)
)

// Detect returns Vietnamese when the prompt contains Vietnamese diacritics or
// common Vietnamese function words, and English otherwise.
func Detect(prompt string) string {
	if vietnameseDiacritics.MatchString(prompt) || vietnameseWords.MatchString(prompt) {
		return Vietnamese
	}
	return English
}
