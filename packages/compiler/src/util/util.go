package util

import (
	"strings"
)

// SplitAtColon splits a string at its first colon, trimming both halves. defaultValues is returned
// when there is no colon.
func SplitAtColon(input string, defaultValues []string) []string {
	return splitAt(input, ':', defaultValues)
}

func splitAt(input string, character rune, defaultValues []string) []string {
	index := strings.IndexRune(input, character)
	if index == -1 {
		return defaultValues
	}
	return []string{
		strings.TrimSpace(input[:index]),
		strings.TrimSpace(input[index+1:]),
	}
}
