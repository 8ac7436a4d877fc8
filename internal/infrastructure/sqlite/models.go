package sqlite

import (
	"time"

	"github.com/javierhbr/test-inventory-sub000/internal/domain/classification"
)

// ClassificationModel is one classification_sets row plus its ordered tags.
type ClassificationModel struct {
	EntityKind string
	EntityID   string
	UpdatedAt  int64 // Unix milliseconds
	Tags       []string
}

func toClassificationModel(rec classification.Record) ClassificationModel {
	updated := rec.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	return ClassificationModel{
		EntityKind: string(rec.Kind),
		EntityID:   rec.EntityID,
		UpdatedAt:  updated.UnixMilli(),
		Tags:       rec.Set.Tags(),
	}
}

func (m ClassificationModel) toDomain() classification.Record {
	return classification.Record{
		Kind:      classification.EntityKind(m.EntityKind),
		EntityID:  m.EntityID,
		Set:       classification.NewSet(m.Tags...),
		UpdatedAt: time.UnixMilli(m.UpdatedAt),
	}
}
