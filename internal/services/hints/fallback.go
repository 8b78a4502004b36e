package hints

import (
	"strings"
)

// PlaceholderDescription is used when there is no business summary to fall back on.
const PlaceholderDescription = "A publicly traded company."

// FallbackDescription is the plain-text redaction used when text generation is
// unavailable: the first sentence of summary with the exact company name replaced
// by "The company" and the exact ticker by "[TICKER]".
//
// This is a literal substring replacement. It does not catch partial names,
// possessives or product names, so it leaks more than generated text does.
func FallbackDescription(summary, name, ticker string) string {
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return PlaceholderDescription
	}

	first, _, _ := strings.Cut(summary, ". ")
	description := first + "."
	if strings.HasSuffix(first, ".") {
		description = first
	}
	if name != "" {
		description = strings.ReplaceAll(description, name, "The company")
	}
	if ticker != "" {
		description = strings.ReplaceAll(description, ticker, "[TICKER]")
	}
	return description
}
