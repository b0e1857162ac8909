package util

import (
	"regexp"
	"strings"
	"unicode"

	"church-portal/pkg/apierror"
)

var invalidNameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// SanitizeDisplayName cleans a user-supplied display name before it is stored
// with a file record: control and invisible characters are stripped,
// filesystem-hostile characters replaced, and the result truncated to 255
// runes. Display names never touch the filesystem directly but they are
// echoed into Content-Disposition headers on download.
func SanitizeDisplayName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", apierror.BadRequest("display name cannot be empty", "")
	}

	if strings.Contains(trimmed, "\x00") {
		return "", apierror.BadRequest("display name contains null bytes", "")
	}

	builder := strings.Builder{}
	builder.Grow(len(trimmed))
	for _, char := range trimmed {
		if unicode.IsControl(char) || unicode.Is(unicode.Cf, char) {
			continue
		}
		builder.WriteRune(char)
	}

	cleaned := strings.TrimSpace(invalidNameChars.ReplaceAllString(builder.String(), "_"))
	if cleaned == "" || cleaned == "." || cleaned == ".." {
		return "", apierror.BadRequest("display name is invalid after sanitization", name)
	}

	runes := []rune(cleaned)
	if len(runes) > 255 {
		cleaned = string(runes[:255])
	}

	return cleaned, nil
}
