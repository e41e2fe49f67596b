package fewshot

import (
	"unicode"
	"unicode/utf8"
)

// TextLengthFunc measures rendered text for selection budget accounting.
type TextLengthFunc func(text string) int

// WordCount counts whitespace-separated words. This is the default length
// measure for the length-based selector.
func WordCount(text string) int {
	words := 0
	inWord := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if inWord {
				words++
				inWord = false
			}
		} else {
			inWord = true
		}
	}
	if inWord {
		words++
	}
	return words
}

// RuneCount counts UTF-8 runes. Useful as a stricter TextLengthFunc when
// budgets are character-based rather than word-based.
func RuneCount(text string) int {
	return utf8.RuneCountInString(text)
}
