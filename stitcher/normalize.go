package stitcher

import "strings"

// normalizeWords splits text into lowercase, punctuation-stripped tokens.
// Token positions align one-to-one with strings.Fields of the original text
// so a match length maps directly onto original-cased words.
func normalizeWords(text string) []string {
	fields := strings.Fields(text)
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = normalizeToken(f)
	}
	return out
}

func normalizeToken(tok string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(tok) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// hasContent reports whether any token survives normalization. Empty and
// punctuation-only results are not worth appending.
func hasContent(words []string) bool {
	for _, w := range words {
		if w != "" {
			return true
		}
	}
	return false
}

// overlap returns the length of the longest run, up to maxLookback words, of
// prev's trailing words exactly matching next's leading words. Longest match
// wins; zero means no boundary overlap. Tokens that normalized to empty
// (standalone punctuation) never match, so a punctuation-only boundary is not
// mistaken for repeated speech.
func overlap(prev, next []string, maxLookback int) int {
	limit := maxLookback
	if len(prev) < limit {
		limit = len(prev)
	}
	if len(next) < limit {
		limit = len(next)
	}
	for k := limit; k >= 1; k-- {
		if wordsEqual(prev[len(prev)-k:], next[:k]) {
			return k
		}
	}
	return 0
}

func wordsEqual(a, b []string) bool {
	for i := range a {
		if a[i] == "" || a[i] != b[i] {
			return false
		}
	}
	return true
}

// trimLeadingWords drops the first n whitespace-delimited words from the
// original-cased text.
func trimLeadingWords(text string, n int) string {
	fields := strings.Fields(text)
	if n >= len(fields) {
		return ""
	}
	return strings.Join(fields[n:], " ")
}
