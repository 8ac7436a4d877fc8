package classification

import "strings"

// Separator delimits the segments of a semantic tag.
const Separator = ":"

// Segments splits a tag into its ':'-delimited segments.
func Segments(tag string) []string {
	return strings.Split(tag, Separator)
}

// IsSemantic reports whether tag has key:value structure.
func IsSemantic(tag string) bool {
	return strings.Contains(tag, Separator)
}

// IsCategoryToken reports whether s is a bare "key:" token offered as a
// category suggestion.
func IsCategoryToken(s string) bool {
	return strings.HasSuffix(s, Separator)
}

// Normalize returns the canonical form of free text: trimmed and lowercased.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
