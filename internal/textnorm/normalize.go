// Package textnorm flattens extracted paragraph text into a single clean line
// so that sentence scanning and token counting see stable input.
package textnorm

import "strings"

var quoteReplacer = strings.NewReplacer(
	"’", "'", // right single quote
	"‘", "'", // left single quote
)

// Normalize replaces newlines and carriage returns with spaces, straightens
// curly single quotes, collapses whitespace runs, and trims the result.
// Total function: any input yields a valid (possibly empty) output.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, "\r", " ")
	text = quoteReplacer.Replace(text)
	return strings.Join(strings.Fields(text), " ")
}
