package handler

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Free text from clients is stored as plain text: markup is stripped so it
// cannot reach an admin UI as HTML.
var plainText = bluemonday.StrictPolicy()

func sanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(plainText.Sanitize(s)))
}

func sanitizeTextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	clean := sanitizeText(*s)
	return &clean
}
