package classification

import (
	"strings"

	"github.com/javierhbr/test-inventory-sub000/internal/domain/registry"
)

// NoHighlight is the Highlighted value when no suggestion is selected.
const NoHighlight = -1

// InputState is the state of the tag input attached to one classification set.
type InputState struct {
	Draft       string
	Highlighted int
	Suggestions []string
	Set         Set
	// Last reports the addition made by the most recent command, if any.
	Last Outcome
}

// Env carries the read model the reducer consults.
type Env struct {
	Rules        []registry.SemanticRule
	SingularKeys []string
	Vocabulary   []string
}

// EnvFor builds an Env from a registry, scoped to a line of business
// when lineOfBusiness is non-empty.
func EnvFor(reg registry.Provider, lineOfBusiness string, vocabulary []string) Env {
	return Env{
		Rules:        reg.RulesFor(lineOfBusiness),
		SingularKeys: reg.SingularKeys(),
		Vocabulary:   vocabulary,
	}
}

// NewInputState returns an empty input over set.
func NewInputState(set Set) InputState {
	return InputState{Highlighted: NoHighlight, Set: set}
}

// Command is an input event handled by Reduce.
type Command interface {
	command()
}

type (
	// Focus opens the suggestion list for the current draft.
	Focus struct{}
	// Type replaces the draft and recomputes suggestions.
	Type struct{ Text string }
	// Navigate moves the highlight by Delta with wraparound.
	Navigate struct{ Delta int }
	// Cancel closes the suggestion list. The set and draft are kept.
	Cancel struct{}
	// Commit adds the highlighted or first suggestion, or the draft itself.
	Commit struct{}
	// DeleteBackward deletes one rune of the draft, or the last tag when the
	// draft is empty.
	DeleteBackward struct{}
	// Edit removes Tag and loads it into the draft.
	Edit struct{ Tag string }
	// Remove deletes Tag.
	Remove struct{ Tag string }
	// ApplyRecipes merges the tags of the recipes into the set.
	ApplyRecipes struct{ Recipes []registry.Recipe }
)

func (Focus) command()          {}
func (Type) command()           {}
func (Navigate) command()       {}
func (Cancel) command()         {}
func (Commit) command()         {}
func (DeleteBackward) command() {}
func (Edit) command()           {}
func (Remove) command()         {}
func (ApplyRecipes) command()   {}

// Reduce applies cmd to s and returns the next state.
func Reduce(s InputState, cmd Command, env Env) InputState {
	s.Last = Outcome{}

	switch c := cmd.(type) {
	case Focus:
		return s.refresh(env)

	case Type:
		s.Draft = c.Text
		if strings.TrimSpace(s.Draft) == "" {
			return s.closed()
		}
		return s.refresh(env)

	case Navigate:
		n := len(s.Suggestions)
		if n == 0 || c.Delta == 0 {
			return s
		}
		if s.Highlighted == NoHighlight {
			if c.Delta > 0 {
				s.Highlighted = 0
			} else {
				s.Highlighted = n - 1
			}
			return s
		}
		s.Highlighted = ((s.Highlighted+c.Delta)%n + n) % n
		return s

	case Cancel:
		return s.closed()

	case Commit:
		return s.commit(env)

	case DeleteBackward:
		if s.Draft == "" {
			s.Set, _, _ = s.Set.RemoveLast()
			return s
		}
		runes := []rune(s.Draft)
		s.Draft = string(runes[:len(runes)-1])
		if strings.TrimSpace(s.Draft) == "" {
			return s.closed()
		}
		return s.refresh(env)

	case Edit:
		next, refill, ok := s.Set.Edit(c.Tag)
		if !ok {
			return s
		}
		s.Set = next
		s.Draft = refill
		return s.refresh(env)

	case Remove:
		s.Set, _ = s.Set.Remove(c.Tag)
		if len(s.Suggestions) > 0 {
			return s.refresh(env)
		}
		return s

	case ApplyRecipes:
		s.Set = MergeRecipes(c.Recipes, s.Set, env.SingularKeys)
		return s.closed()
	}
	return s
}

// Selected returns the suggestion a commit would pick.
func (s InputState) Selected() (string, bool) {
	if s.Highlighted >= 0 && s.Highlighted < len(s.Suggestions) {
		return s.Suggestions[s.Highlighted], true
	}
	if len(s.Suggestions) > 0 {
		return s.Suggestions[0], true
	}
	return "", false
}

func (s InputState) commit(env Env) InputState {
	pick, ok := s.Selected()
	if !ok {
		s.Set, s.Last = s.Set.Add(s.Draft, env.Rules)
		s.Draft = ""
		return s.closed()
	}
	if IsCategoryToken(pick) {
		s.Draft = pick
		return s.refresh(env)
	}
	s.Set, s.Last = s.Set.Add(pick, env.Rules)
	s.Draft = ""
	return s.closed()
}

func (s InputState) refresh(env Env) InputState {
	s.Suggestions = Suggest(s.Draft, env.Rules, env.Vocabulary, s.Set.Tags())
	s.Highlighted = NoHighlight
	return s
}

func (s InputState) closed() InputState {
	s.Suggestions = nil
	s.Highlighted = NoHighlight
	return s
}
