package app

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"shopy/internal/ai"
	"shopy/internal/model"
)

const (
	defaultScoreThreshold = 0.3
	defaultTopK           = 3

	assistantSystemPrompt = "You are the official Shopy Assistant. Use the provided product context to answer the customer's question. If the context does not cover the question, say so instead of inventing products."

	assistantNoMatchAnswer = "Hello! I'm the Shopy Assistant. I couldn't find a direct match, but I can help you find sneakers or check stock. What are you looking for?"
	assistantApology       = "I'm having trouble connecting to the catalog. Please try again in a moment!"
)

// CatalogReader is the assistant's read-only view of the product catalog.
type CatalogReader interface {
	ListAll() ([]model.Product, error)
	GetByID(id uint) (*model.Product, error)
}

// IndexStore persists one embedding entry per product, upsert semantics.
type IndexStore interface {
	Upsert(entry *model.IndexEntry) error
	ListAll() ([]model.IndexEntry, error)
	ExistsAny() (bool, error)
	DeleteByProductID(productID uint) error
}

// Embedder turns text into a fixed-dimension vector. Index and query
// embeddings must come from the same model or scoring is meaningless.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Completer produces a single chat completion.
type Completer interface {
	Complete(ctx context.Context, messages []ai.ChatMessage) (string, error)
}

// ScoredEntry is an index entry ranked against one query. It only lives for
// the duration of that query.
type ScoredEntry struct {
	ProductID  uint      `json:"product_id"`
	SourceText string    `json:"text"`
	Score      float64   `json:"score"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AnswerResult is what the chat UI renders: the model's text plus the ranked
// catalog entries it was grounded on.
type AnswerResult struct {
	Answer  string        `json:"answer"`
	Sources []ScoredEntry `json:"sources"`
}

type AssistantService struct {
	catalog   CatalogReader
	index     IndexStore
	embedder  Embedder
	completer Completer
	threshold float64
	topK      int
}

func NewAssistantService(
	catalog CatalogReader,
	index IndexStore,
	embedder Embedder,
	completer Completer,
	threshold float64,
	topK int,
) *AssistantService {
	if threshold <= 0 || threshold >= 1 {
		threshold = defaultScoreThreshold
	}
	if topK <= 0 {
		topK = defaultTopK
	}
	return &AssistantService{
		catalog:   catalog,
		index:     index,
		embedder:  embedder,
		completer: completer,
		threshold: threshold,
		topK:      topK,
	}
}

// DefaultTopK is the fallback used when a caller does not specify how many
// context entries to retrieve.
func (s *AssistantService) DefaultTopK() int {
	return s.topK
}

// EnsureIndexBuilt populates the embedding index when it is empty and is a
// no-op otherwise. Returns the number of products embedded. A failure partway
// through leaves earlier entries in place; the next fully-empty detection or
// an explicit RebuildIndex retries the rest.
func (s *AssistantService) EnsureIndexBuilt(ctx context.Context) (int, error) {
	exists, err := s.index.ExistsAny()
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, nil
	}
	return s.buildIndex(ctx)
}

// RebuildIndex re-embeds the entire catalog unconditionally. Exposed to the
// admin surface so catalog edits are not stranded behind the emptiness guard.
func (s *AssistantService) RebuildIndex(ctx context.Context) (int, error) {
	return s.buildIndex(ctx)
}

func (s *AssistantService) buildIndex(ctx context.Context) (int, error) {
	products, err := s.catalog.ListAll()
	if err != nil {
		return 0, err
	}

	// One embedding call at a time. Sequential on purpose: the catalog is
	// small and this keeps us under the embedding API's rate limits.
	processed := 0
	for i := range products {
		if err := s.upsertEntry(ctx, &products[i]); err != nil {
			return processed, err
		}
		processed++
	}
	return processed, nil
}

// SyncProduct refreshes a single product's index entry, or removes it when
// the product no longer exists. Driven by catalog events from the worker.
func (s *AssistantService) SyncProduct(ctx context.Context, productID uint) error {
	if productID == 0 {
		return ErrInvalidInput
	}
	product, err := s.catalog.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return s.index.DeleteByProductID(productID)
	}
	return s.upsertEntry(ctx, product)
}

// RemoveProduct deletes a product's index entry so the index cannot outlive
// the catalog.
func (s *AssistantService) RemoveProduct(productID uint) error {
	if productID == 0 {
		return ErrInvalidInput
	}
	return s.index.DeleteByProductID(productID)
}

func (s *AssistantService) upsertEntry(ctx context.Context, product *model.Product) error {
	text := buildSourceText(product)
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embed product %d failed: %w", product.ID, err)
	}
	entry := &model.IndexEntry{
		ProductID:  product.ID,
		SourceText: text,
		UpdatedAt:  time.Now(),
	}
	entry.SetEmbedding(vec)
	return s.index.Upsert(entry)
}

// Answer runs retrieval-augmented generation over the catalog index. It never
// returns an error: any failure is logged and converted into a fixed apology
// so the chat widget always has something to show. topK <= 0 keeps no context
// and therefore lands on the no-match reply.
func (s *AssistantService) Answer(ctx context.Context, query string, topK int) AnswerResult {
	query = strings.TrimSpace(query)

	if _, err := s.EnsureIndexBuilt(ctx); err != nil {
		return s.failure("index build", err)
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return s.failure("query embedding", err)
	}

	entries, err := s.index.ListAll()
	if err != nil {
		return s.failure("index load", err)
	}

	scored := make([]ScoredEntry, 0, len(entries))
	for i := range entries {
		vec := entries[i].EmbeddingVector()
		if len(vec) != len(queryVec) {
			log.Printf("assistant: skip index entry for product %d: dimension %d, query %d",
				entries[i].ProductID, len(vec), len(queryVec))
			continue
		}
		score := cosineSimilarity(queryVec, vec)
		if score > s.threshold {
			scored = append(scored, ScoredEntry{
				ProductID:  entries[i].ProductID,
				SourceText: entries[i].SourceText,
				Score:      score,
				UpdatedAt:  entries[i].UpdatedAt,
			})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if topK < 0 {
		topK = 0
	}
	if len(scored) > topK {
		scored = scored[:topK]
	}

	if len(scored) == 0 {
		return AnswerResult{Answer: assistantNoMatchAnswer, Sources: []ScoredEntry{}}
	}

	var contextBlock strings.Builder
	for i := range scored {
		if i > 0 {
			contextBlock.WriteString("\n\n")
		}
		fmt.Fprintf(&contextBlock, "Option %d:\n%s", i+1, scored[i].SourceText)
	}

	messages := []ai.ChatMessage{
		{Role: "system", Content: assistantSystemPrompt},
		{Role: "user", Content: "Context:\n" + contextBlock.String() + "\n\nUser Question: " + query},
	}
	answer, err := s.completer.Complete(ctx, messages)
	if err != nil {
		return s.failure("completion", err)
	}

	return AnswerResult{
		Answer:  strings.TrimSpace(answer),
		Sources: scored,
	}
}

// failure logs the real cause for operators; the caller only ever sees the
// fixed apology, so the log line is the one place outage and non-match can be
// told apart.
func (s *AssistantService) failure(stage string, err error) AnswerResult {
	log.Printf("assistant: %s failed: %v", stage, err)
	return AnswerResult{Answer: assistantApology, Sources: []ScoredEntry{}}
}

// buildSourceText flattens a product into the fixed template that gets
// embedded. Regenerated wholesale on every sync, never edited incrementally.
func buildSourceText(p *model.Product) string {
	return fmt.Sprintf("Product: %s\nCategory: %s\nPrice: $%.2f\nStatus: %s\nDescription: %s",
		p.Name, p.Category, p.Price, p.Stock, p.Description)
}

// cosineSimilarity is dot(a,b) / (|a|*|b|), accumulated in float64. NaN when
// either norm is zero; embedding models do not return zero vectors for
// non-empty text, so that case is left unguarded.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
