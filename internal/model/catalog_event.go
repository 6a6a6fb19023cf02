package model

const (
	CatalogEventUpserted = "upserted"
	CatalogEventDeleted  = "deleted"
)

// CatalogEvent is published on product create/update/delete so the embedding
// index can be kept in sync off the request path.
type CatalogEvent struct {
	Type      string `json:"type"`
	ProductID uint   `json:"product_id"`
}
