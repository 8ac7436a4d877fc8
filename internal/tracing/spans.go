package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys.
const (
	AttrRegistryPath   = "registry.path"
	AttrRegistryReason = "registry.reason"
	AttrRuleGroups     = "registry.rule_groups"
	AttrRecipeGroups   = "registry.recipe_groups"
	AttrCacheHit       = "cache.hit"

	AttrEntityKind = "classification.entity_kind"
	AttrEntityID   = "classification.entity_id"
	AttrTag        = "classification.tag"
	AttrMatched    = "classification.matched"
	AttrReplaced   = "classification.replaced"
	AttrTagCount   = "classification.tag_count"

	AttrErrorMessage = "error.message"
)

// Span names.
const (
	SpanRegistryLoad   = "registry.load"
	SpanRegistrySave   = "registry.save"
	SpanRegistryReload = "registry.reload"
	SpanTagsGet        = "tags.get"
	SpanTagsSave       = "tags.save"
	SpanTagsCommit     = "tags.commit"
)

// Event names.
const (
	EventRolledBack  = "registry.rolled_back"
	EventInvalidated = "cache.invalidated"
)

// Start opens a span named name on tracer with the given attributes.
func Start(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// End records err on span, if any, and ends it.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
