package validation

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MaxEmailLength        = 254
	MaxInterestLength     = 500
	MaxExternalLinkLength = 500
	MaxChatMessageLength  = 8000
	MaxChatHistory        = 100
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s must be at least %d characters", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s must be at most %d characters", fieldName, max)
	}
	return nil
}

// NormalizeEmail приводит email к виду для сравнения дубликатов.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail проверяет email. Достаточно символа @ с непустыми частями
// по обе стороны, строже форма подписки никогда не проверяла.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}

	if err := ValidateLength("email", email, 0, MaxEmailLength); err != nil {
		return err
	}

	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return fmt.Errorf("email must contain @")
	}

	if strings.ContainsAny(email, " \t\r\n") {
		return fmt.Errorf("email must not contain spaces")
	}

	return nil
}

// ValidateURL проверяет внешнюю ссылку.
func ValidateURL(link string) error {
	link = strings.TrimSpace(link)

	if err := ValidateLength("link", link, 0, MaxExternalLinkLength); err != nil {
		return err
	}

	parsedURL, err := url.Parse(link)
	if err != nil {
		return fmt.Errorf("link is not a valid URL")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("link must start with http:// or https://")
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("link must contain a host")
	}

	return nil
}
