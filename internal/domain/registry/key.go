package registry

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// BuildGroupKey constructs a generated group key from a type prefix, the line of
// business and a millisecond timestamp.
// Format: {rules|recipes}-{lob-slug}-{unix-millis}
// Example: rules-retail-banking-1760812800000
func BuildGroupKey(kind GroupKind, lineOfBusiness string, now time.Time) string {
	return fmt.Sprintf("%s-%s-%d", kind.keyPrefix(), slug(lineOfBusiness), now.UnixMilli())
}

// uniqueGroupKey returns base, or base with a numeric suffix when base is taken.
func (r Registry) uniqueGroupKey(base string) string {
	key := base
	for n := 2; r.HasKey(key); n++ {
		key = fmt.Sprintf("%s-%d", base, n)
	}
	return key
}

// slug lowercases s and collapses every run of non-alphanumerics into one dash.
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "general"
	}
	return out
}
