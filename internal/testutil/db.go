package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/javierhbr/test-inventory-sub000/internal/domain/classification"
	"github.com/javierhbr/test-inventory-sub000/internal/infrastructure/sqlite"
)

// NewTestDB opens a migrated database in a temporary directory. It is closed
// when the test ends.
func NewTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.NewDB(filepath.Join(t.TempDir(), "inventory.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// SeedSet stores tags for one entity.
func SeedSet(t *testing.T, repo classification.Repository, kind classification.EntityKind, entityID string, tags ...string) {
	t.Helper()
	err := repo.Save(context.Background(), classification.Record{
		Kind:     kind,
		EntityID: entityID,
		Set:      classification.NewSet(tags...),
	})
	require.NoError(t, err)
}
