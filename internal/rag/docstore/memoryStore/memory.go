package memoryStore

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/akolanti/DocSearch/internal/domain/docmodel"
	"github.com/akolanti/DocSearch/internal/rag/docstore"
	"github.com/akolanti/DocSearch/internal/rag/embedding"
	"github.com/akolanti/DocSearch/pkg/logger_i"
)

// Store is a brute-force cosine-similarity document store. It backs
// tests and keeps the service answering (degraded) when the vector
// database is offline, the same way the job store falls back to its
// in-memory twin.
type Store struct {
	mu       sync.RWMutex
	records  map[string]docmodel.Record
	order    []string //insertion order of ids, stable iteration
	embedder embedding.Embedder
	logger   *logger_i.Logger
}

func InitMemoryStore(embedder embedding.Embedder) *Store {
	return &Store{
		records:  make(map[string]docmodel.Record),
		embedder: embedder,
		logger:   logger_i.NewLogger("InMem DocStore"),
	}
}

func (s *Store) Upsert(ctx context.Context, rec docmodel.Record) (docmodel.Record, error) {
	rec, err := docstore.PrepareForUpsert(ctx, rec, s.embedder)
	if err != nil {
		return docmodel.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.records[rec.ID]; ok {
		//replace semantics keep the original creation time
		if !existing.CreatedAt.IsZero() {
			rec.CreatedAt = existing.CreatedAt
		}
	} else {
		s.order = append(s.order, rec.ID)
	}
	s.records[rec.ID] = rec
	return rec, nil
}

func (s *Store) Find(ctx context.Context, filter docstore.Filter, limit int) ([]docmodel.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []docmodel.Record
	for _, id := range s.order {
		rec := s.records[id]
		if !docstore.Matches(rec, filter) {
			continue
		}
		out = append(out, rec)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *Store) VectorSearch(ctx context.Context, vector []float32, k int, filter docstore.Filter) ([]docstore.ScoredRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var scored []docstore.ScoredRecord
	for _, id := range s.order {
		rec := s.records[id]
		if !docstore.Matches(rec, filter) {
			continue
		}
		scored = append(scored, docstore.ScoredRecord{
			Record: rec,
			Score:  cosine(vector, rec.Embedding),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

func (s *Store) SetFlagByFolder(ctx context.Context, folder string, field string, value bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for id, rec := range s.records {
		if rec.FolderName != folder {
			continue
		}
		switch field {
		case docmodel.FieldIsException:
			rec.IsException = value
		case docmodel.FieldSuperseded:
			rec.Superseded = value
		default:
			if rec.Extra == nil {
				rec.Extra = make(map[string]any)
			}
			rec.Extra[field] = value
		}
		s.records[id] = rec
		count++
	}
	return count, nil
}

func (s *Store) DeleteByID(ctx context.Context, id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return 0, nil
	}
	delete(s.records, id)
	s.removeFromOrder(id)
	return 1, nil
}

func (s *Store) DeleteByFolder(ctx context.Context, folder string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for id, rec := range s.records {
		if rec.FolderName == folder {
			delete(s.records, id)
			s.removeFromOrder(id)
			count++
		}
	}
	return count, nil
}

func (s *Store) removeFromOrder(id string) {
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

func cosine(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
