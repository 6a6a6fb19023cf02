package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopy/internal/model"
)

type stubSyncer struct {
	synced  []uint
	removed []uint
}

func (s *stubSyncer) SyncProduct(ctx context.Context, productID uint) error {
	s.synced = append(s.synced, productID)
	return nil
}

func (s *stubSyncer) RemoveProduct(productID uint) error {
	s.removed = append(s.removed, productID)
	return nil
}

func TestApplyCatalogEventUpserted(t *testing.T) {
	syncer := &stubSyncer{}

	err := ApplyCatalogEvent(context.Background(), syncer, model.CatalogEvent{
		Type:      model.CatalogEventUpserted,
		ProductID: 7,
	})

	require.NoError(t, err)
	assert.Equal(t, []uint{7}, syncer.synced)
	assert.Empty(t, syncer.removed)
}

func TestApplyCatalogEventDeleted(t *testing.T) {
	syncer := &stubSyncer{}

	err := ApplyCatalogEvent(context.Background(), syncer, model.CatalogEvent{
		Type:      model.CatalogEventDeleted,
		ProductID: 7,
	})

	require.NoError(t, err)
	assert.Equal(t, []uint{7}, syncer.removed)
	assert.Empty(t, syncer.synced)
}

func TestApplyCatalogEventUnknownType(t *testing.T) {
	syncer := &stubSyncer{}

	err := ApplyCatalogEvent(context.Background(), syncer, model.CatalogEvent{
		Type:      "renamed",
		ProductID: 7,
	})

	require.Error(t, err)
	assert.Empty(t, syncer.synced)
	assert.Empty(t, syncer.removed)
}

func TestApplyCatalogEventMissingProductID(t *testing.T) {
	syncer := &stubSyncer{}

	err := ApplyCatalogEvent(context.Background(), syncer, model.CatalogEvent{
		Type: model.CatalogEventUpserted,
	})

	require.Error(t, err)
	assert.Empty(t, syncer.synced)
}
