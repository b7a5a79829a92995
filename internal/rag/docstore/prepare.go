package docstore

import (
	"context"
	"fmt"
	"time"

	"github.com/akolanti/DocSearch/internal/domain/docmodel"
	"github.com/akolanti/DocSearch/internal/rag/embedding"
)

// PrepareForUpsert normalizes a record before storage: a missing id is
// derived from the stable non-embedding fields, a missing embedding is
// generated from a synthesized text, and timestamps are stamped.
// created_at is only set when the caller didn't carry one over from a
// previous read, so replaces keep the original creation time.
func PrepareForUpsert(ctx context.Context, rec docmodel.Record, embedder embedding.Embedder) (docmodel.Record, error) {
	if rec.ID == "" {
		rec.ID = docmodel.ContentHash(rec)
	}

	if len(rec.Embedding) == 0 {
		text := fmt.Sprintf("folder: %s, page: %s, description: %s",
			rec.FolderName, rec.PageNumber, rec.Description)
		vector, err := embedder.GetEmbedding(ctx, text)
		if err != nil {
			vector = embedding.ZeroVector(embedder.Dimension())
		}
		rec.Embedding = vector
	}

	now := time.Now().UTC()
	rec.UpdatedAt = now
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	return rec, nil
}
