package registry

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	domain "github.com/javierhbr/test-inventory-sub000/internal/domain/registry"
)

// Diff renders the line diff between the YAML forms of two snapshots.
// Lines are prefixed with "+", "-" or " ". Identical snapshots give "".
func Diff(before, after domain.Registry) (string, error) {
	a, err := MarshalRegistry(before)
	if err != nil {
		return "", err
	}
	b, err := MarshalRegistry(after)
	if err != nil {
		return "", err
	}
	return DiffText(string(a), string(b)), nil
}

// DiffText renders a line diff of two texts. Equal texts give "".
func DiffText(a, b string) string {
	if a == b {
		return ""
	}
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}

// Stat counts inserted and deleted lines in a diff produced by DiffText.
func Stat(diff string) (added, removed int) {
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			added++
		case strings.HasPrefix(line, "-"):
			removed++
		}
	}
	return added, removed
}
