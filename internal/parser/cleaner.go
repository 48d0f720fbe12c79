// Package parser recovers résumé structure from plain extracted text:
// line cleaning, section segmentation, and experience/education enrichment.
package parser

import (
	"regexp"
	"strings"
)

var (
	// bulletRe matches bullet glyphs commonly left behind by PDF extraction:
	// •, ●, ○, ▪, the private-use U+F0B7 (Wingdings bullet), middle dot, and *.
	bulletRe     = regexp.MustCompile(`[\x{2022}\x{25cf}\x{25cb}\x{25aa}\x{f0b7}\x{b7}*]`)
	nonASCIIRe   = regexp.MustCompile(`[^\x00-\x7F]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	commaRunRe   = regexp.MustCompile(`( ?, \s*)+`)
)

// CleanLine normalizes one raw line of extracted document text. Bullet glyphs
// become comma separators, non-ASCII bytes are dropped, the result is
// lowercased with "&" expanded to "and", whitespace runs collapse to a single
// space, repeated comma separators collapse to one, and leading/trailing
// commas and whitespace are trimmed. Total: never fails, empty in = empty out.
// Idempotent: CleanLine(CleanLine(x)) == CleanLine(x).
func CleanLine(text string) string {
	if text == "" {
		return ""
	}
	text = bulletRe.ReplaceAllString(text, " , ")
	text = nonASCIIRe.ReplaceAllString(text, "")
	text = strings.ToLower(text)
	text = strings.ReplaceAll(text, "&", " and ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = commaRunRe.ReplaceAllString(text, ", ")
	return strings.Trim(text, " ,")
}
