package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateLength(t *testing.T) {
	assert.NoError(t, ValidateLength("f", "ёжик", 4, 4))
	assert.Error(t, ValidateLength("f", "ab", 3, 0))
	assert.Error(t, ValidateLength("f", "abcd", 0, 3))
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"a@b", "chief@example.org", "  padded@example.org  "}
	for _, e := range valid {
		assert.NoError(t, ValidateEmail(e), e)
	}

	invalid := []string{"", "   ", "plain", "@example.org", "chief@", "a b@example.org", strings.Repeat("a", MaxEmailLength) + "@x"}
	for _, e := range invalid {
		assert.Error(t, ValidateEmail(e), e)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "chief@example.org", NormalizeEmail("  Chief@Example.ORG "))
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL("https://www.grants.gov/search"))
	assert.NoError(t, ValidateURL("http://example.org"))
	assert.Error(t, ValidateURL("ftp://example.org"))
	assert.Error(t, ValidateURL("https://"))
	assert.Error(t, ValidateURL("grants.gov"))
	assert.Error(t, ValidateURL("https://x.org/"+strings.Repeat("a", MaxExternalLinkLength)))
}
