package model

import (
	"encoding/json"
	"time"
)

// IndexEntry is one product's row in the assistant's embedding index.
// At most one entry exists per product (upsert by product id). The vector is
// stored as a JSON array of float32 for portability across MySQL versions.
type IndexEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProductID  uint      `gorm:"not null;uniqueIndex" json:"product_id"`
	SourceText string    `gorm:"type:text;not null" json:"text"`
	Embedding  string    `gorm:"type:text" json:"-"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// EmbeddingVector returns the parsed embedding slice; empty on parse error.
func (e *IndexEntry) EmbeddingVector() []float32 {
	if e.Embedding == "" {
		return nil
	}
	var v []float32
	_ = json.Unmarshal([]byte(e.Embedding), &v)
	return v
}

// SetEmbedding stores the embedding as JSON.
func (e *IndexEntry) SetEmbedding(vec []float32) {
	if len(vec) == 0 {
		e.Embedding = "[]"
		return
	}
	b, _ := json.Marshal(vec)
	e.Embedding = string(b)
}
