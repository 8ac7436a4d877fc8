// Package classification implements the application layer for classification
// sets. TagService loads the registry snapshot, runs the domain set editor
// against a stored record and writes the result back through the repository.
//
// The package shares its name with the domain package; callers importing both
// alias one of them.
package classification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	domain "github.com/javierhbr/test-inventory-sub000/internal/domain/classification"
	"github.com/javierhbr/test-inventory-sub000/internal/domain/registry"
	"github.com/javierhbr/test-inventory-sub000/internal/log"
	"github.com/javierhbr/test-inventory-sub000/internal/tracing"
)

// TagService errors
var (
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrNoTags         = errors.New("no tags given")
)

// RegistrySource supplies the current registry snapshot.
type RegistrySource interface {
	Load(ctx context.Context) (registry.Registry, error)
}

// Validation is the verdict on one piece of tag text.
type Validation struct {
	Input   string
	Tag     string
	Matched bool
	Rule    string // key of the accepting rule, empty when unmatched
}

// TagService edits stored classification sets.
type TagService struct {
	repo       domain.Repository
	source     RegistrySource
	vocabulary []string
	tracer     trace.Tracer
	now        func() time.Time
}

// Option configures a TagService.
type Option func(*TagService)

// WithVocabulary sets the plain-label vocabulary offered as suggestions.
func WithVocabulary(vocabulary []string) Option {
	return func(s *TagService) {
		s.vocabulary = vocabulary
	}
}

// WithTracer sets the tracer used for commit spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *TagService) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithClock overrides the UpdatedAt clock.
func WithClock(now func() time.Time) Option {
	return func(s *TagService) {
		s.now = now
	}
}

// NewTagService creates a service over repo, reading rules from source.
func NewTagService(repo domain.Repository, source RegistrySource, opts ...Option) *TagService {
	s := &TagService{
		repo:   repo,
		source: source,
		tracer: noop.NewTracerProvider().Tracer("noop"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Vocabulary returns the configured plain labels.
func (s *TagService) Vocabulary() []string {
	return s.vocabulary
}

// Show returns the stored record. An entity with no record yet gets an empty
// set rather than an error.
func (s *TagService) Show(ctx context.Context, kind domain.EntityKind, entityID string) (domain.Record, error) {
	rec, err := s.repo.Get(ctx, kind, entityID)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return domain.Record{Kind: kind, EntityID: entityID}, nil
	}
	return rec, err
}

// Add commits each text to the entity's set in order, as the tag input does
// on enter. Outcomes are returned in input order.
func (s *TagService) Add(ctx context.Context, kind domain.EntityKind, entityID, lineOfBusiness string, texts ...string) (rec domain.Record, outcomes []domain.Outcome, err error) {
	if len(texts) == 0 {
		return domain.Record{}, nil, ErrNoTags
	}
	ctx, span := tracing.Start(ctx, s.tracer, tracing.SpanTagsCommit,
		attribute.String(tracing.AttrEntityKind, string(kind)),
		attribute.String(tracing.AttrEntityID, entityID),
	)
	defer func() { tracing.End(span, err) }()

	reg, err := s.source.Load(ctx)
	if err != nil {
		return domain.Record{}, nil, err
	}
	rec, err = s.Show(ctx, kind, entityID)
	if err != nil {
		return domain.Record{}, nil, err
	}

	rules := reg.RulesFor(lineOfBusiness)
	set := rec.Set
	replaced := 0
	for _, text := range texts {
		var out domain.Outcome
		set, out = set.Add(text, rules)
		outcomes = append(outcomes, out)
		replaced += len(out.Replaced)
		if out.Added() {
			log.Debug(log.CatTags, "Committed tag", "entity", entityID, "tag", out.Tag, "matched", out.Matched)
		}
	}
	span.SetAttributes(
		attribute.Int(tracing.AttrTagCount, set.Len()),
		attribute.Int(tracing.AttrReplaced, replaced),
	)

	rec, err = s.save(ctx, rec, set)
	return rec, outcomes, err
}

// Remove deletes tags by exact match and returns the ones that were present.
func (s *TagService) Remove(ctx context.Context, kind domain.EntityKind, entityID string, tags ...string) (domain.Record, []string, error) {
	if len(tags) == 0 {
		return domain.Record{}, nil, ErrNoTags
	}
	rec, err := s.Show(ctx, kind, entityID)
	if err != nil {
		return domain.Record{}, nil, err
	}
	set := rec.Set
	var removed []string
	for _, tag := range tags {
		var ok bool
		if set, ok = set.Remove(tag); ok {
			removed = append(removed, tag)
		}
	}
	if len(removed) == 0 {
		return rec, nil, nil
	}
	rec, err = s.save(ctx, rec, set)
	return rec, removed, err
}

// ApplyRecipes merges recipes, looked up by id or name, into the entity's set.
func (s *TagService) ApplyRecipes(ctx context.Context, kind domain.EntityKind, entityID string, recipes ...string) (domain.Record, error) {
	reg, err := s.source.Load(ctx)
	if err != nil {
		return domain.Record{}, err
	}
	found := make([]registry.Recipe, 0, len(recipes))
	for _, name := range recipes {
		r, ok := reg.FindRecipe(name)
		if !ok {
			return domain.Record{}, fmt.Errorf("%w: %s", ErrRecipeNotFound, name)
		}
		found = append(found, r)
	}

	rec, err := s.Show(ctx, kind, entityID)
	if err != nil {
		return domain.Record{}, err
	}
	set := domain.MergeRecipes(found, rec.Set, reg.SingularKeys())
	log.Info(log.CatTags, "Applied recipes", "entity", entityID, "recipes", len(found), "tags", set.Len())
	return s.save(ctx, rec, set)
}

// SaveSet replaces the entity's set, as the tag editor does on save.
func (s *TagService) SaveSet(ctx context.Context, kind domain.EntityKind, entityID string, set domain.Set) (domain.Record, error) {
	return s.save(ctx, domain.Record{Kind: kind, EntityID: entityID}, set)
}

// Env returns the reducer environment and the recipes offered for a line of
// business.
func (s *TagService) Env(ctx context.Context, lineOfBusiness string) (domain.Env, []registry.Recipe, error) {
	reg, err := s.source.Load(ctx)
	if err != nil {
		return domain.Env{}, nil, err
	}
	return domain.EnvFor(reg, lineOfBusiness, s.vocabulary), reg.RecipesFor(lineOfBusiness), nil
}

// Suggest returns the suggestions for partial given the tags already chosen.
func (s *TagService) Suggest(ctx context.Context, partial, lineOfBusiness string, chosen []string) ([]string, error) {
	reg, err := s.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Suggest(partial, reg.RulesFor(lineOfBusiness), s.vocabulary, chosen), nil
}

// Validate reports, for each text, the tag it would be stored as and the rule
// accepting it.
func (s *TagService) Validate(ctx context.Context, lineOfBusiness string, texts ...string) ([]Validation, error) {
	reg, err := s.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	rules := reg.RulesFor(lineOfBusiness)
	out := make([]Validation, 0, len(texts))
	for _, text := range texts {
		v := Validation{Input: text, Tag: domain.Normalize(text)}
		if rule, ok := domain.MatchingRule(text, rules); ok {
			v.Matched = true
			v.Rule = rule.Key
		}
		out = append(out, v)
	}
	return out, nil
}

// FindByTag lists the records carrying tag.
func (s *TagService) FindByTag(ctx context.Context, tag string) ([]domain.Record, error) {
	return s.repo.ListByTag(ctx, tag)
}

func (s *TagService) save(ctx context.Context, rec domain.Record, set domain.Set) (domain.Record, error) {
	rec.Set = set
	rec.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, rec); err != nil {
		return domain.Record{}, err
	}
	return rec, nil
}
