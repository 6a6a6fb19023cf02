package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shopy/internal/model"
)

type IndexEntryRepository struct {
	db *gorm.DB
}

func NewIndexEntryRepository(db *gorm.DB) *IndexEntryRepository {
	return &IndexEntryRepository{db: db}
}

// Upsert inserts the entry or, when one already exists for the product,
// overwrites its text, embedding, and timestamp in place.
func (r *IndexEntryRepository) Upsert(entry *model.IndexEntry) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"source_text", "embedding", "updated_at"}),
	}).Create(entry).Error
	if err != nil {
		return fmt.Errorf("upsert index entry failed: %w", err)
	}
	return nil
}

func (r *IndexEntryRepository) ListAll() ([]model.IndexEntry, error) {
	var entries []model.IndexEntry
	if err := r.db.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list index entries failed: %w", err)
	}
	return entries, nil
}

// ExistsAny probes for a single entry; the index counts as initialized
// exactly when it holds at least one row.
func (r *IndexEntryRepository) ExistsAny() (bool, error) {
	var entry model.IndexEntry
	err := r.db.Select("id").Limit(1).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("probe index entries failed: %w", err)
	}
	return true, nil
}

func (r *IndexEntryRepository) DeleteByProductID(productID uint) error {
	if err := r.db.Where("product_id = ?", productID).Delete(&model.IndexEntry{}).Error; err != nil {
		return fmt.Errorf("delete index entry failed: %w", err)
	}
	return nil
}
