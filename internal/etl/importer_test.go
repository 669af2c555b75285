package etl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balewgize/WooCommerce-migrate/pkg/models"
)

func TestImportOne(t *testing.T) {
	source := newFakeFetcher(0)
	source.pages[1] = []models.Record{order(int64(42), "2024-02-02T02:02:02")}
	store := newMemStore()

	written, err := NewImporter(models.Orders, source, store).ImportOne(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, written)

	stored, ok := store.get(42)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 2, 2, 2, 2, 0, time.UTC), stored["date_created"])
}

func TestImportOneNotFound(t *testing.T) {
	store := newMemStore()

	written, err := NewImporter(models.Customers, newFakeFetcher(0), store).ImportOne(context.Background(), 404)
	require.NoError(t, err)
	assert.False(t, written)
	assert.Equal(t, 0, store.len())
}

func TestImportOneIsIdempotent(t *testing.T) {
	source := newFakeFetcher(0)
	source.pages[1] = []models.Record{order(int64(5), "2024-02-02")}
	store := newMemStore()
	importer := NewImporter(models.Orders, source, store)

	for i := 0; i < 2; i++ {
		_, err := importer.ImportOne(context.Background(), 5)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, store.len())

	source.pages[1][0]["status"] = "completed"
	_, err := importer.ImportOne(context.Background(), 5)
	require.NoError(t, err)
	stored, _ := store.get(5)
	assert.Equal(t, "completed", stored["status"])
}

func TestImportOneBadDate(t *testing.T) {
	source := newFakeFetcher(0)
	source.pages[1] = []models.Record{order(int64(8), "32/13/2024")}
	store := newMemStore()

	_, err := NewImporter(models.Orders, source, store).ImportOne(context.Background(), 8)
	require.Error(t, err)
	assert.Equal(t, 0, store.len())
}
