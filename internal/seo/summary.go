package seo

import (
	"regexp"
	"strings"
)

// MaxShortDescription is the listing teaser length cap in characters.
const MaxShortDescription = 160

var sentenceEndRE = regexp.MustCompile(`[.!?]`)

// Summarize collapses whitespace and bounds description to maxLen
// characters. A description over the limit is cut back to its first
// sentence when that fits, otherwise to whole words with a trailing
// ellipsis, otherwise hard-truncated. Output never exceeds maxLen.
func Summarize(description string, maxLen int) string {
	text := strings.Join(strings.Fields(description), " ")
	if text == "" || maxLen <= 0 {
		return ""
	}
	chars := []rune(text)
	if len(chars) <= maxLen {
		return text
	}
	budget := maxLen - 3
	if budget < 1 {
		return string(chars[:maxLen])
	}

	first := strings.TrimSpace(sentenceEndRE.Split(text, 2)[0])
	if first != "" && len([]rune(first)) <= budget {
		return first + "."
	}

	var picked []rune
	for _, word := range strings.Fields(text) {
		wordChars := []rune(word)
		need := len(wordChars)
		if len(picked) > 0 {
			need++
		}
		if len(picked)+need > budget {
			break
		}
		if len(picked) > 0 {
			picked = append(picked, ' ')
		}
		picked = append(picked, wordChars...)
	}
	if len(picked) > 0 {
		return string(picked) + "..."
	}
	return string(chars[:budget]) + "..."
}
