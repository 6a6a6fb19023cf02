package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopy/internal/ai"
	"shopy/internal/model"
)

type stubCatalog struct {
	products []model.Product
	err      error
}

func (s *stubCatalog) ListAll() ([]model.Product, error) {
	return s.products, s.err
}

func (s *stubCatalog) GetByID(id uint) (*model.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i], nil
		}
	}
	return nil, nil
}

type stubIndex struct {
	entries  []model.IndexEntry
	upserts  int
	listErr  error
	probeErr error
}

func (s *stubIndex) Upsert(entry *model.IndexEntry) error {
	s.upserts++
	for i := range s.entries {
		if s.entries[i].ProductID == entry.ProductID {
			s.entries[i] = *entry
			return nil
		}
	}
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *stubIndex) ListAll() ([]model.IndexEntry, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.entries, nil
}

func (s *stubIndex) ExistsAny() (bool, error) {
	if s.probeErr != nil {
		return false, s.probeErr
	}
	return len(s.entries) > 0, nil
}

func (s *stubIndex) DeleteByProductID(productID uint) error {
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.ProductID != productID {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	return nil
}

type stubEmbedder struct {
	embedFn func(text string) ([]float32, error)
	calls   int
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	s.calls++
	if s.embedFn != nil {
		return s.embedFn(text)
	}
	return []float32{1, 0}, nil
}

type stubCompleter struct {
	reply      string
	err        error
	calls      int
	lastPrompt string
}

func (s *stubCompleter) Complete(ctx context.Context, messages []ai.ChatMessage) (string, error) {
	s.calls++
	if len(messages) > 0 {
		s.lastPrompt = messages[len(messages)-1].Content
	}
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func newTestAssistant(catalog *stubCatalog, index *stubIndex, embedder *stubEmbedder, completer *stubCompleter, threshold float64, topK int) *AssistantService {
	return NewAssistantService(catalog, index, embedder, completer, threshold, topK)
}

func indexEntry(productID uint, text string, vec []float32) model.IndexEntry {
	entry := model.IndexEntry{
		ProductID:  productID,
		SourceText: text,
		UpdatedAt:  time.Now(),
	}
	entry.SetEmbedding(vec)
	return entry
}

func TestEnsureIndexBuiltSkipsPopulatedIndex(t *testing.T) {
	index := &stubIndex{entries: []model.IndexEntry{indexEntry(1, "x", []float32{1, 0})}}
	embedder := &stubEmbedder{}
	svc := newTestAssistant(&stubCatalog{}, index, embedder, &stubCompleter{}, 0.3, 3)

	processed, err := svc.EnsureIndexBuilt(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, processed)
	assert.Equal(t, 0, embedder.calls)
	assert.Equal(t, 0, index.upserts)
}

func TestEnsureIndexBuiltEmbedsWholeCatalog(t *testing.T) {
	catalog := &stubCatalog{products: []model.Product{
		{ID: 1, Name: "Red Sneaker", Category: "Footwear", Price: 59.99, Stock: "In Stock", Description: "Lightweight running shoe"},
		{ID: 2, Name: "Blue Hoodie", Category: "Clothing", Price: 39.50, Stock: "In Stock", Description: "Warm fleece hoodie"},
	}}
	index := &stubIndex{}
	embedder := &stubEmbedder{}
	svc := newTestAssistant(catalog, index, embedder, &stubCompleter{}, 0.3, 3)

	processed, err := svc.EnsureIndexBuilt(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, processed)
	assert.Equal(t, 2, embedder.calls)
	require.Len(t, index.entries, 2)

	want := "Product: Red Sneaker\nCategory: Footwear\nPrice: $59.99\nStatus: In Stock\nDescription: Lightweight running shoe"
	assert.Equal(t, want, index.entries[0].SourceText)
	assert.Equal(t, uint(1), index.entries[0].ProductID)
	assert.False(t, index.entries[0].UpdatedAt.IsZero())
}

func TestEnsureIndexBuiltEmptyCatalog(t *testing.T) {
	svc := newTestAssistant(&stubCatalog{}, &stubIndex{}, &stubEmbedder{}, &stubCompleter{}, 0.3, 3)

	processed, err := svc.EnsureIndexBuilt(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, processed)
}

func TestEnsureIndexBuiltAbortsOnEmbedFailure(t *testing.T) {
	catalog := &stubCatalog{products: []model.Product{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}}}
	index := &stubIndex{}
	embedder := &stubEmbedder{embedFn: func(text string) ([]float32, error) {
		if strings.Contains(text, "Product: B") {
			return nil, errors.New("quota exceeded")
		}
		return []float32{1, 0}, nil
	}}
	svc := newTestAssistant(catalog, index, embedder, &stubCompleter{}, 0.3, 3)

	processed, err := svc.EnsureIndexBuilt(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, processed)
	// The entry written before the failure stays behind.
	require.Len(t, index.entries, 1)
	assert.Equal(t, uint(1), index.entries[0].ProductID)
}

func TestRebuildIndexUpsertsWithoutDuplicates(t *testing.T) {
	catalog := &stubCatalog{products: []model.Product{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}}
	index := &stubIndex{}
	svc := newTestAssistant(catalog, index, &stubEmbedder{}, &stubCompleter{}, 0.3, 3)

	first, err := svc.RebuildIndex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first)
	firstStamp := index.entries[0].UpdatedAt

	second, err := svc.RebuildIndex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, second)

	// Still one entry per product, each with a fresh timestamp.
	require.Len(t, index.entries, 2)
	assert.Equal(t, 4, index.upserts)
	assert.True(t, index.entries[0].UpdatedAt.After(firstStamp) || index.entries[0].UpdatedAt.Equal(firstStamp))
}

func TestAnswerRanksAndTruncatesTopK(t *testing.T) {
	index := &stubIndex{}
	for i := 1; i <= 10; i++ {
		// Angles spread so every entry scores above 0.3 with distinct values.
		x := float32(10 + i)
		index.entries = append(index.entries, indexEntry(uint(i), fmt.Sprintf("item %d", i), []float32{x, 10}))
	}
	embedder := &stubEmbedder{embedFn: func(string) ([]float32, error) {
		return []float32{1, 0}, nil
	}}
	completer := &stubCompleter{reply: "here you go"}
	svc := newTestAssistant(&stubCatalog{}, index, embedder, completer, 0.3, 3)

	result := svc.Answer(context.Background(), "anything", 3)

	require.Len(t, result.Sources, 3)
	// Larger x means smaller angle to [1,0], so product 10 ranks first.
	assert.Equal(t, uint(10), result.Sources[0].ProductID)
	assert.Equal(t, uint(9), result.Sources[1].ProductID)
	assert.Equal(t, uint(8), result.Sources[2].ProductID)
	assert.True(t, result.Sources[0].Score >= result.Sources[1].Score)
	assert.True(t, result.Sources[1].Score >= result.Sources[2].Score)
	assert.Equal(t, 1, completer.calls)
	assert.Contains(t, completer.lastPrompt, "Option 1:\nitem 10")
	assert.Contains(t, completer.lastPrompt, "Option 3:\nitem 8")
	assert.NotContains(t, completer.lastPrompt, "Option 4:")
	assert.Equal(t, "here you go", result.Answer)
}

func TestAnswerThresholdIsExclusive(t *testing.T) {
	// With query [1,0]: [3,4] scores exactly 0.6, [4,3] scores 0.8. Both the
	// dot product and the norms are exact in float64, so 0.6 is not an
	// approximation here.
	index := &stubIndex{entries: []model.IndexEntry{
		indexEntry(1, "at threshold", []float32{3, 4}),
		indexEntry(2, "above threshold", []float32{4, 3}),
	}}
	embedder := &stubEmbedder{embedFn: func(string) ([]float32, error) {
		return []float32{1, 0}, nil
	}}
	completer := &stubCompleter{reply: "ok"}
	svc := newTestAssistant(&stubCatalog{}, index, embedder, completer, 0.6, 5)

	result := svc.Answer(context.Background(), "q", 5)

	require.Len(t, result.Sources, 1)
	assert.Equal(t, uint(2), result.Sources[0].ProductID)
	assert.InDelta(t, 0.8, result.Sources[0].Score, 1e-12)
}

func TestAnswerNoMatchSkipsCompletion(t *testing.T) {
	// Orthogonal entry scores 0, below any positive threshold.
	index := &stubIndex{entries: []model.IndexEntry{indexEntry(1, "unrelated", []float32{0, 1})}}
	embedder := &stubEmbedder{embedFn: func(string) ([]float32, error) {
		return []float32{1, 0}, nil
	}}
	completer := &stubCompleter{reply: "should not be used"}
	svc := newTestAssistant(&stubCatalog{}, index, embedder, completer, 0.3, 3)

	result := svc.Answer(context.Background(), "q", 3)

	assert.Equal(t, assistantNoMatchAnswer, result.Answer)
	assert.NotNil(t, result.Sources)
	assert.Empty(t, result.Sources)
	assert.Equal(t, 0, completer.calls)
}

func TestAnswerTopKZeroKeepsNoContext(t *testing.T) {
	index := &stubIndex{entries: []model.IndexEntry{indexEntry(1, "match", []float32{1, 0})}}
	embedder := &stubEmbedder{embedFn: func(string) ([]float32, error) {
		return []float32{1, 0}, nil
	}}
	completer := &stubCompleter{}
	svc := newTestAssistant(&stubCatalog{}, index, embedder, completer, 0.3, 3)

	result := svc.Answer(context.Background(), "q", 0)

	assert.Equal(t, assistantNoMatchAnswer, result.Answer)
	assert.Empty(t, result.Sources)
	assert.Equal(t, 0, completer.calls)
}

func TestAnswerContainsEmbedFailure(t *testing.T) {
	index := &stubIndex{entries: []model.IndexEntry{indexEntry(1, "x", []float32{1, 0})}}
	embedder := &stubEmbedder{embedFn: func(string) ([]float32, error) {
		return nil, errors.New("embedding provider down")
	}}
	completer := &stubCompleter{}
	svc := newTestAssistant(&stubCatalog{}, index, embedder, completer, 0.3, 3)

	result := svc.Answer(context.Background(), "q", 3)

	assert.Equal(t, assistantApology, result.Answer)
	assert.NotNil(t, result.Sources)
	assert.Empty(t, result.Sources)
	assert.Equal(t, 0, completer.calls)
}

func TestAnswerContainsIndexLoadFailure(t *testing.T) {
	index := &stubIndex{
		entries: []model.IndexEntry{indexEntry(1, "x", []float32{1, 0})},
		listErr: errors.New("store unavailable"),
	}
	svc := newTestAssistant(&stubCatalog{}, index, &stubEmbedder{}, &stubCompleter{}, 0.3, 3)

	result := svc.Answer(context.Background(), "q", 3)

	assert.Equal(t, assistantApology, result.Answer)
	assert.Empty(t, result.Sources)
}

func TestAnswerContainsCompletionFailure(t *testing.T) {
	index := &stubIndex{entries: []model.IndexEntry{indexEntry(1, "match", []float32{1, 0})}}
	embedder := &stubEmbedder{embedFn: func(string) ([]float32, error) {
		return []float32{1, 0}, nil
	}}
	completer := &stubCompleter{err: errors.New("model overloaded")}
	svc := newTestAssistant(&stubCatalog{}, index, embedder, completer, 0.3, 3)

	result := svc.Answer(context.Background(), "q", 3)

	assert.Equal(t, assistantApology, result.Answer)
	assert.Empty(t, result.Sources)
	assert.Equal(t, 1, completer.calls)
}

func TestAnswerSkipsDimensionMismatch(t *testing.T) {
	index := &stubIndex{entries: []model.IndexEntry{
		indexEntry(1, "bad dims", []float32{1, 0, 0}),
		indexEntry(2, "good", []float32{1, 0}),
	}}
	embedder := &stubEmbedder{embedFn: func(string) ([]float32, error) {
		return []float32{1, 0}, nil
	}}
	completer := &stubCompleter{reply: "ok"}
	svc := newTestAssistant(&stubCatalog{}, index, embedder, completer, 0.3, 3)

	result := svc.Answer(context.Background(), "q", 3)

	require.Len(t, result.Sources, 1)
	assert.Equal(t, uint(2), result.Sources[0].ProductID)
}

func TestAnswerBuildsIndexOnFirstQuery(t *testing.T) {
	catalog := &stubCatalog{products: []model.Product{
		{ID: 1, Name: "Red Sneaker", Category: "Footwear", Price: 59.99, Stock: "In Stock", Description: "Lightweight running shoe"},
	}}
	index := &stubIndex{}
	embedder := &stubEmbedder{embedFn: func(text string) ([]float32, error) {
		if strings.Contains(text, "Red Sneaker") {
			return []float32{1, 0}, nil
		}
		// Query vector close to, but not identical with, the product vector.
		return []float32{0.9, 0.1}, nil
	}}
	completer := &stubCompleter{reply: "Yes, the Red Sneaker is a great running shoe."}
	svc := newTestAssistant(catalog, index, embedder, completer, 0.3, 3)

	result := svc.Answer(context.Background(), "do you have running shoes", 3)

	// One embedding call for the product during the lazy build, one for the query.
	assert.Equal(t, 2, embedder.calls)
	require.Len(t, index.entries, 1)
	require.Len(t, result.Sources, 1)
	assert.Equal(t, uint(1), result.Sources[0].ProductID)
	assert.Greater(t, result.Sources[0].Score, 0.3)
	assert.Contains(t, completer.lastPrompt, "Red Sneaker")
	assert.Contains(t, completer.lastPrompt, "do you have running shoes")
	assert.Equal(t, "Yes, the Red Sneaker is a great running shoe.", result.Answer)
}

func TestSyncProductUpsertsAndRemoves(t *testing.T) {
	catalog := &stubCatalog{products: []model.Product{{ID: 1, Name: "A", Category: "C", Price: 1, Stock: "In Stock"}}}
	index := &stubIndex{entries: []model.IndexEntry{indexEntry(9, "stale", []float32{1, 0})}}
	svc := newTestAssistant(catalog, index, &stubEmbedder{}, &stubCompleter{}, 0.3, 3)

	require.NoError(t, svc.SyncProduct(context.Background(), 1))
	require.Len(t, index.entries, 2)

	// Product 9 no longer exists in the catalog: syncing drops its entry.
	require.NoError(t, svc.SyncProduct(context.Background(), 9))
	require.Len(t, index.entries, 1)
	assert.Equal(t, uint(1), index.entries[0].ProductID)

	require.NoError(t, svc.RemoveProduct(1))
	assert.Empty(t, index.entries)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{1, 0}), 1e-12)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-12)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-12)
	assert.InDelta(t, 0.6, cosineSimilarity([]float32{1, 0}, []float32{3, 4}), 1e-12)
}
