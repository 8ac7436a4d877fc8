package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/javierhbr/test-inventory-sub000/internal/admin"
	"github.com/javierhbr/test-inventory-sub000/internal/cachemanager"
	domain "github.com/javierhbr/test-inventory-sub000/internal/domain/registry"
	"github.com/javierhbr/test-inventory-sub000/internal/log"
	"github.com/javierhbr/test-inventory-sub000/internal/pubsub"
	"github.com/javierhbr/test-inventory-sub000/internal/tracing"
)

// RegistryService errors
var (
	ErrLoadFailed = errors.New("registry load failed")
	ErrSaveFailed = errors.New("registry save failed")
)

// DefaultCacheTTL is used when no ttl option is given.
const DefaultCacheTTL = 5 * time.Minute

// RegistryService loads, caches and persists registry snapshots.
type RegistryService struct {
	store  Store
	cm     cachemanager.CacheManager[string, domain.Registry]
	cache  *cachemanager.ReadThroughCache[string, domain.Registry, Store]
	ttl    time.Duration
	tracer trace.Tracer
	broker *pubsub.Broker[domain.Registry]

	// misses counts store loads made by the cache.
	misses atomic.Int64

	mu        sync.Mutex
	persisted domain.Registry

	// writeMu orders store writes and reloads so persisted always matches
	// the last snapshot written.
	writeMu sync.Mutex
}

// Option configures a RegistryService.
type Option func(*RegistryService)

// WithCacheManager replaces the default in-memory cache.
func WithCacheManager(cm cachemanager.CacheManager[string, domain.Registry]) Option {
	return func(s *RegistryService) {
		s.cm = cm
	}
}

// WithCacheTTL sets how long a loaded snapshot is served from cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *RegistryService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithTracer sets the tracer used for load and save spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *RegistryService) {
		if t != nil {
			s.tracer = t
		}
	}
}

// NewRegistryService creates a service over store.
func NewRegistryService(store Store, opts ...Option) *RegistryService {
	s := &RegistryService{
		store:  store,
		ttl:    DefaultCacheTTL,
		tracer: noop.NewTracerProvider().Tracer("noop"),
		broker: pubsub.NewBroker[domain.Registry](),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cm == nil {
		s.cm = cachemanager.NewInMemoryCacheManager[string, domain.Registry]("registry", s.ttl, 2*s.ttl)
	}
	s.cache = cachemanager.NewReadThroughCache(s.cm, func(ctx context.Context, store Store) (domain.Registry, error) {
		s.misses.Add(1)
		return store.Load(ctx)
	}, false)
	return s
}

// Broker publishes every snapshot the service reloads or saves.
func (s *RegistryService) Broker() *pubsub.Broker[domain.Registry] {
	return s.broker
}

// Name returns the store name, usually the registry file path.
func (s *RegistryService) Name() string {
	return s.store.Name()
}

// Persisted returns the last snapshot loaded from or written to the store.
func (s *RegistryService) Persisted() domain.Registry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persisted
}

// Load returns the registry, from cache when possible.
func (s *RegistryService) Load(ctx context.Context) (reg domain.Registry, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, tracing.SpanRegistryLoad,
		attribute.String(tracing.AttrRegistryPath, s.store.Name()),
	)
	defer func() { tracing.End(span, err) }()

	misses := s.misses.Load()
	reg, err = s.cache.Get(ctx, s.store.Name(), s.store, s.ttl)
	span.SetAttributes(attribute.Bool(tracing.AttrCacheHit, s.misses.Load() == misses))
	if err != nil {
		log.ErrorErr(log.CatRegistry, "Registry load failed", err, "path", s.store.Name())
		return domain.Registry{}, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	span.SetAttributes(
		attribute.Int(tracing.AttrRuleGroups, len(reg.RuleGroupKeys())),
		attribute.Int(tracing.AttrRecipeGroups, len(reg.RecipeGroupKeys())),
	)

	s.mu.Lock()
	s.persisted = reg
	s.mu.Unlock()
	return reg, nil
}

// Reload drops the cached snapshot, loads the store again and publishes the
// result as a ReloadedEvent.
func (s *RegistryService) Reload(ctx context.Context) (domain.Registry, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	ctx, span := tracing.Start(ctx, s.tracer, tracing.SpanRegistryReload,
		attribute.String(tracing.AttrRegistryPath, s.store.Name()),
	)
	if err := s.cache.Invalidate(ctx, s.store.Name()); err != nil {
		log.Warn(log.CatCache, "Cache invalidation failed", "error", err)
	}
	span.AddEvent(tracing.EventInvalidated)

	reg, err := s.Load(ctx)
	tracing.End(span, err)
	if err != nil {
		return domain.Registry{}, err
	}
	log.Info(log.CatRegistry, "Registry reloaded", "path", s.store.Name(),
		"rule_groups", len(reg.RuleGroupKeys()), "recipe_groups", len(reg.RecipeGroupKeys()))
	s.broker.Publish(pubsub.ReloadedEvent, reg)
	return reg, nil
}

// Save persists change.After. On success the snapshot is cached and published
// as an UpdatedEvent. On failure the last persisted snapshot is kept, published
// as a FailedEvent and returned together with an ErrSaveFailed error.
// Concurrent saves are written one at a time.
func (s *RegistryService) Save(ctx context.Context, change admin.Change) (domain.Registry, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	ctx, span := tracing.Start(ctx, s.tracer, tracing.SpanRegistrySave,
		attribute.String(tracing.AttrRegistryPath, s.store.Name()),
		attribute.String(tracing.AttrRegistryReason, change.Reason),
	)

	if diff, err := Diff(change.Before, change.After); err == nil {
		added, removed := Stat(diff)
		log.Debug(log.CatRegistry, "Saving registry", "reason", change.Reason, "added", added, "removed", removed)
		log.Debug(log.CatRegistry, "Registry diff\n"+diff)
	}

	if err := s.store.Save(ctx, change.After); err != nil {
		span.AddEvent(tracing.EventRolledBack)
		tracing.End(span, err)

		log.ErrorErr(log.CatRegistry, "Registry save failed, rolling back", err, "reason", change.Reason)
		persisted := s.Persisted()
		s.broker.Publish(pubsub.FailedEvent, persisted)
		return persisted, fmt.Errorf("%w: %s: %w", ErrSaveFailed, change.Reason, err)
	}
	tracing.End(span, nil)

	s.cache.Put(ctx, s.store.Name(), change.After, s.ttl)
	s.mu.Lock()
	s.persisted = change.After
	s.mu.Unlock()

	log.Info(log.CatRegistry, "Registry saved", "reason", change.Reason, "path", s.store.Name())
	s.broker.Publish(pubsub.UpdatedEvent, change.After)
	return change.After, nil
}

// Close shuts the broker down.
func (s *RegistryService) Close() {
	s.broker.Close()
}
