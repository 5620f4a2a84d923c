package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// minTokenRunes is the shortest run of word characters kept as a term.
const minTokenRunes = 2

// foldCase returns s case-folded for case-insensitive comparison.
// A Caser is stateful, so one is built per call.
func foldCase(s string) string {
	return cases.Fold().String(s)
}

// lowerCase returns s lower-cased for term extraction.
func lowerCase(s string) string {
	return cases.Lower(language.Und).String(s)
}

// isWordRune reports whether r belongs to a term: letters, any numeric
// rune and the underscore. Combining marks end a term.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// tokenize lower-cases text and splits it into terms of at least two word
// characters. Single characters and punctuation are dropped.
func tokenize(text string) []string {
	lowered := lowerCase(text)

	var terms []string
	var current strings.Builder
	runes := 0

	flush := func() {
		if runes >= minTokenRunes {
			terms = append(terms, current.String())
		}
		current.Reset()
		runes = 0
	}

	for _, r := range lowered {
		if isWordRune(r) {
			current.WriteRune(r)
			runes++
			continue
		}
		flush()
	}
	flush()

	return terms
}
