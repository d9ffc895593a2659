// Package extract derives hashtag and mention tokens from raw post text.
package extract

import (
	"regexp"
)

var (
	hashtagPattern = regexp.MustCompile(`#(\w+)`)
	mentionPattern = regexp.MustCompile(`@(\w+)`)
)

// Hashtags returns the deduplicated hashtag tokens of text, in order of first
// appearance. No case folding or other normalization is applied.
func Hashtags(text string) []string {
	return capture(hashtagPattern, text)
}

// Mentions returns the deduplicated mention tokens of text, in order of first
// appearance.
func Mentions(text string) []string {
	return capture(mentionPattern, text)
}

func capture(pattern *regexp.Regexp, text string) []string {
	matches := pattern.FindAllStringSubmatch(text, -1)
	tokens := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		token := m[1]
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		tokens = append(tokens, token)
	}
	return tokens
}
