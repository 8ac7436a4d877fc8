package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/javierhbr/test-inventory-sub000/internal/domain/classification"
	"github.com/javierhbr/test-inventory-sub000/internal/tracing"
)

// classificationRepository implements classification.Repository using SQLite.
type classificationRepository struct {
	db *sql.DB
}

func newClassificationRepository(db *sql.DB) *classificationRepository {
	return &classificationRepository{db: db}
}

var _ classification.Repository = (*classificationRepository)(nil)

func validate(kind classification.EntityKind, entityID string) error {
	if _, err := classification.ParseEntityKind(string(kind)); err != nil {
		return err
	}
	if strings.TrimSpace(entityID) == "" {
		return classification.ErrEmptyEntityID
	}
	return nil
}

// Get loads the record of one entity.
func (r *classificationRepository) Get(ctx context.Context, kind classification.EntityKind, entityID string) (rec classification.Record, err error) {
	ctx, span := tracing.Start(ctx, otel.Tracer(tracing.ServiceName), tracing.SpanTagsGet,
		attribute.String(tracing.AttrEntityKind, string(kind)),
		attribute.String(tracing.AttrEntityID, entityID),
	)
	defer func() { tracing.End(span, err) }()

	if err := validate(kind, entityID); err != nil {
		return classification.Record{}, err
	}

	m := ClassificationModel{EntityKind: string(kind), EntityID: entityID}
	err = r.db.QueryRowContext(ctx,
		`SELECT updated_at FROM classification_sets WHERE entity_kind = ? AND entity_id = ?`,
		kind, entityID,
	).Scan(&m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return classification.Record{}, fmt.Errorf("%w: %s/%s", classification.ErrRecordNotFound, kind, entityID)
	}
	if err != nil {
		return classification.Record{}, fmt.Errorf("failed to get classification set: %w", err)
	}

	m.Tags, err = r.tags(ctx, kind, entityID)
	if err != nil {
		return classification.Record{}, err
	}
	span.SetAttributes(attribute.Int(tracing.AttrTagCount, len(m.Tags)))
	return m.toDomain(), nil
}

func (r *classificationRepository) tags(ctx context.Context, kind classification.EntityKind, entityID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT tag FROM classification_tags WHERE entity_kind = ? AND entity_id = ? ORDER BY position`,
		kind, entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// Save replaces the stored set of the entity in one transaction.
func (r *classificationRepository) Save(ctx context.Context, rec classification.Record) (err error) {
	ctx, span := tracing.Start(ctx, otel.Tracer(tracing.ServiceName), tracing.SpanTagsSave,
		attribute.String(tracing.AttrEntityKind, string(rec.Kind)),
		attribute.String(tracing.AttrEntityID, rec.EntityID),
		attribute.Int(tracing.AttrTagCount, rec.Set.Len()),
	)
	defer func() { tracing.End(span, err) }()

	if err := validate(rec.Kind, rec.EntityID); err != nil {
		return err
	}
	m := toClassificationModel(rec)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO classification_sets (entity_kind, entity_id, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (entity_kind, entity_id) DO UPDATE SET updated_at = excluded.updated_at`,
		m.EntityKind, m.EntityID, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert classification set: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM classification_tags WHERE entity_kind = ? AND entity_id = ?`,
		m.EntityKind, m.EntityID,
	)
	if err != nil {
		return fmt.Errorf("failed to clear tags: %w", err)
	}

	for i, tag := range m.Tags {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO classification_tags (entity_kind, entity_id, position, tag) VALUES (?, ?, ?, ?)`,
			m.EntityKind, m.EntityID, i, tag,
		)
		if err != nil {
			return fmt.Errorf("failed to insert tag %q: %w", tag, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit classification set: %w", err)
	}
	return nil
}

// Delete removes the entity's set and, by cascade, its tags.
func (r *classificationRepository) Delete(ctx context.Context, kind classification.EntityKind, entityID string) error {
	if err := validate(kind, entityID); err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM classification_sets WHERE entity_kind = ? AND entity_id = ?`,
		kind, entityID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete classification set: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s/%s", classification.ErrRecordNotFound, kind, entityID)
	}
	return nil
}

// ListByTag returns the records containing tag, matched exactly.
func (r *classificationRepository) ListByTag(ctx context.Context, tag string) ([]classification.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT entity_kind, entity_id FROM classification_tags WHERE tag = ? ORDER BY entity_kind, entity_id`,
		tag,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list by tag: %w", err)
	}

	type ref struct {
		kind classification.EntityKind
		id   string
	}
	var refs []ref
	for rows.Next() {
		var kind, id string
		if err := rows.Scan(&kind, &id); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		refs = append(refs, ref{classification.EntityKind(kind), id})
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("failed to list by tag: %w", err)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	records := make([]classification.Record, 0, len(refs))
	for _, ref := range refs {
		rec, err := r.Get(ctx, ref.kind, ref.id)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
