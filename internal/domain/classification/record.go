package classification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Record errors
var (
	ErrUnknownEntityKind = errors.New("unknown entity kind")
	ErrRecordNotFound    = errors.New("classification record not found")
	ErrEmptyEntityID     = errors.New("entity id cannot be empty")
)

// EntityKind names the kind of record a classification set belongs to.
type EntityKind string

const (
	EntityTest          EntityKind = "test"
	EntityTestData      EntityKind = "test-data"
	EntityExecutionCart EntityKind = "execution-cart"
)

// EntityKinds lists every supported kind.
func EntityKinds() []EntityKind {
	return []EntityKind{EntityTest, EntityTestData, EntityExecutionCart}
}

// ParseEntityKind converts user input into an EntityKind, case-insensitively.
func ParseEntityKind(s string) (EntityKind, error) {
	k := EntityKind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case EntityTest, EntityTestData, EntityExecutionCart:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEntityKind, s)
}

// Record is the classification set stored for one entity.
type Record struct {
	Kind      EntityKind
	EntityID  string
	Set       Set
	UpdatedAt time.Time
}

// Repository persists classification records.
type Repository interface {
	// Get returns the record, or ErrRecordNotFound.
	Get(ctx context.Context, kind EntityKind, entityID string) (Record, error)

	// Save inserts or replaces the record.
	Save(ctx context.Context, rec Record) error

	// Delete removes the record, or returns ErrRecordNotFound.
	Delete(ctx context.Context, kind EntityKind, entityID string) error

	// ListByTag returns every record whose set contains tag, ordered by kind
	// then entity id.
	ListByTag(ctx context.Context, tag string) ([]Record, error)
}
