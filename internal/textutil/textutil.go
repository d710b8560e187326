// Package textutil provides the pure text helpers used by every storage
// backend: markup stripping, word counting, and filename slugs.
package textutil

import (
	"html"
	"regexp"
	"strings"
)

// markupPattern matches HTML/rich-markup tags. Entry content is rich markup;
// word counts and plain-text views must never include tag text.
var markupPattern = regexp.MustCompile(`<[^>]*>`)

// nonAlnumPattern matches runs of characters that are not lowercase
// alphanumerics, for slug generation.
var nonAlnumPattern = regexp.MustCompile(`[^a-z0-9]+`)

// StripMarkup removes markup tags from content and decodes HTML entities,
// returning plain text with tags replaced by single spaces.
func StripMarkup(content string) string {
	plain := markupPattern.ReplaceAllString(content, " ")
	return html.UnescapeString(plain)
}

// CountWords returns the number of whitespace-separated words in content
// after markup is stripped. Word counts are always derived this way at write
// time, never trusted from input.
func CountWords(content string) int {
	return len(strings.Fields(StripMarkup(content)))
}

// slugMaxLen caps slug length in generated filenames.
const slugMaxLen = 50

// Slugify lowercases name, collapses every non-alphanumeric run to a single
// hyphen, trims leading and trailing hyphens, and truncates to 50 characters.
// An empty or fully non-alphanumeric name slugs to "entry".
func Slugify(name string) string {
	slug := nonAlnumPattern.ReplaceAllString(strings.ToLower(name), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > slugMaxLen {
		slug = strings.Trim(slug[:slugMaxLen], "-")
	}
	if slug == "" {
		return "entry"
	}
	return slug
}
