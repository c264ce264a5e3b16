package document

import (
	"strings"
	"unicode"
)

const maxFileBaseLength = 120

// FileName возвращает имя файла .docx для названия проекта.
// Символы, недопустимые в именах файлов, заменяются на "_".
func FileName(base, fallback string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.TrimSpace(base))

	cleaned = strings.Trim(strings.TrimSpace(cleaned), ".")
	if runes := []rune(cleaned); len(runes) > maxFileBaseLength {
		cleaned = strings.TrimSpace(string(runes[:maxFileBaseLength]))
	}
	if cleaned == "" {
		cleaned = fallback
	}
	return cleaned + DocxExtension
}
