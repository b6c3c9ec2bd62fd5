// Package text provides small string helpers shared by the notifiers.
package text

import "unicode/utf8"

// Truncate shortens text to at most maxBytes bytes, appending suffix when
// anything was cut. The cut never splits a multi-byte character.
//
// Examples:
//
//	Truncate("short", 10, "...")      // "short"
//	Truncate("abcdefghij", 7, "...")  // "abcd..."
//	Truncate("aéééé", 5, "...")       // "a..."
func Truncate(text string, maxBytes int, suffix string) string {
	if len(text) <= maxBytes {
		return text
	}

	cut := maxBytes - len(suffix)
	if cut < 0 {
		cut = 0
	}
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + suffix
}
