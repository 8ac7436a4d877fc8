package classification

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/javierhbr/test-inventory-sub000/internal/domain/registry"
)

// Set errors
var (
	ErrEmptyTag    = errors.New("tag cannot be empty")
	ErrTagNotFound = errors.New("tag not in set")
)

// Set is the ordered, duplicate-free tag collection of one entity.
// The zero value is an empty set.
type Set struct {
	tags []string
}

// Outcome describes what Set.Add did.
type Outcome struct {
	Tag      string   // tag as stored, empty when nothing was added
	Matched  bool     // a rule pattern accepted the text
	Singular bool     // the tag's key is singular
	Replaced []string // tags removed to keep the key singular
}

// Added reports whether the set changed.
func (o Outcome) Added() bool {
	return o.Tag != ""
}

// NewSet builds a set from stored tags, dropping blanks and later duplicates.
// Tags are kept verbatim.
func NewSet(tags ...string) Set {
	var s Set
	for _, t := range tags {
		if strings.TrimSpace(t) == "" || slices.Contains(s.tags, t) {
			continue
		}
		s.tags = append(s.tags, t)
	}
	return s
}

// Tags returns a copy of the tags in insertion order.
func (s Set) Tags() []string {
	return slices.Clone(s.tags)
}

// Len returns the number of tags.
func (s Set) Len() int {
	return len(s.tags)
}

// Contains reports whether tag is present, by exact string match.
func (s Set) Contains(tag string) bool {
	return slices.Contains(s.tags, tag)
}

// Equal reports whether both sets hold the same tags in the same order.
func (s Set) Equal(other Set) bool {
	return slices.Equal(s.tags, other.tags)
}

// String joins the tags with ", ".
func (s Set) String() string {
	return strings.Join(s.tags, ", ")
}

// Add commits free text to the set.
//
// Blank text and text already present verbatim are ignored. Text accepted by a
// rule pattern is stored lowercased, as is text no rule accepts. When the
// tag's singular key belongs to a rule, every tag already stored under that
// key is removed and the new tag is appended, so re-adding a stored value in
// different case moves it to the end. Any other tag whose lowercased form is
// already stored is ignored.
func (s Set) Add(raw string, rules []registry.SemanticRule) (Set, Outcome) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || s.Contains(trimmed) {
		return s, Outcome{}
	}

	tag := Normalize(trimmed)
	result, matched := TryParse(trimmed, rules)
	if matched {
		tag = result.Tag
	}

	out := Outcome{Tag: tag, Matched: matched}
	next := s
	switch key := SingularKeyOf(tag); {
	case IsSemantic(tag) && IsSingular(key, rules):
		out.Singular = true
		next, out.Replaced = s.withoutKey(key)
		out.Replaced = slices.DeleteFunc(out.Replaced, func(t string) bool { return t == tag })
		if len(out.Replaced) == 0 {
			out.Replaced = nil
		}
	case s.Contains(tag):
		return s, Outcome{Matched: matched}
	}
	next.tags = append(slices.Clone(next.tags), tag)
	return next, out
}

// Remove deletes tag by exact match. Other tags are untouched.
func (s Set) Remove(tag string) (Set, bool) {
	i := slices.Index(s.tags, tag)
	if i < 0 {
		return s, false
	}
	return Set{tags: slices.Delete(slices.Clone(s.tags), i, i+1)}, true
}

// RemoveLast deletes the most recently added tag.
func (s Set) RemoveLast() (Set, string, bool) {
	if len(s.tags) == 0 {
		return s, "", false
	}
	last := s.tags[len(s.tags)-1]
	return Set{tags: slices.Clone(s.tags[:len(s.tags)-1])}, last, true
}

// Edit removes tag and returns it as the text to refill the input with.
// Resubmitting the text goes through Add again.
func (s Set) Edit(tag string) (Set, string, bool) {
	next, ok := s.Remove(tag)
	if !ok {
		return s, "", false
	}
	return next, tag, true
}

// Replace swaps oldTag for newText through the Add pipeline, so the new value
// is validated and replaces conflicting tags like any other addition.
func (s Set) Replace(oldTag, newText string, rules []registry.SemanticRule) (Set, Outcome, error) {
	if strings.TrimSpace(newText) == "" {
		return s, Outcome{}, ErrEmptyTag
	}
	without, ok := s.Remove(oldTag)
	if !ok {
		return s, Outcome{}, fmt.Errorf("%w: %s", ErrTagNotFound, oldTag)
	}
	next, out := without.Add(newText, rules)
	return next, out, nil
}

// withoutKey drops every tag stored under key, returning the removed ones.
func (s Set) withoutKey(key string) (Set, []string) {
	prefix := key + Separator
	var kept, removed []string
	for _, t := range s.tags {
		if strings.HasPrefix(t, prefix) {
			removed = append(removed, t)
			continue
		}
		kept = append(kept, t)
	}
	return Set{tags: kept}, removed
}
