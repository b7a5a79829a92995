package docstore

import (
	"context"
	"errors"

	"github.com/akolanti/DocSearch/internal/domain/docmodel"
)

var (
	// ErrStorageUnavailable is returned by write paths when the store
	// connection was never established. Read paths degrade to empty
	// results instead.
	ErrStorageUnavailable = errors.New("document store unavailable")

	ErrNotFound = errors.New("document not found")
)

// Filter narrows a find/search/delete to matching records only. Nil
// pointer fields mean "don't care".
type Filter struct {
	FolderName        *string
	IsConsolidated    *bool
	ContentType       *string
	ExcludeExceptions bool
	ExcludeSuperseded bool
}

// ScoredRecord is a stored record augmented with the similarity score
// of a vector search. The score is provider-opaque but strictly
// monotonic with similarity.
type ScoredRecord struct {
	docmodel.Record
	Score float32
}

// Store is the persistence contract for page records and consolidated
// documents.
type Store interface {
	// Upsert assigns a deterministic id and a fresh embedding when
	// either is missing, stamps timestamps, and replaces any record
	// with the same id. It returns the record as stored.
	Upsert(ctx context.Context, rec docmodel.Record) (docmodel.Record, error)

	// Find returns up to limit records matching the filter. An empty
	// store yields an empty slice, never an error.
	Find(ctx context.Context, filter Filter, limit int) ([]docmodel.Record, error)

	// VectorSearch returns up to k nearest records by similarity. No
	// record violating the filter is ever returned, even when the
	// implementation over-fetches internally.
	VectorSearch(ctx context.Context, vector []float32, k int, filter Filter) ([]ScoredRecord, error)

	// SetFlagByFolder sets a boolean payload field on every record of
	// a folder and returns how many records were touched.
	SetFlagByFolder(ctx context.Context, folder string, field string, value bool) (int, error)

	// DeleteByID and DeleteByFolder return the number of removed
	// records; zero means not-found and is not an error.
	DeleteByID(ctx context.Context, id string) (int, error)
	DeleteByFolder(ctx context.Context, folder string) (int, error)
}

// Matches reports whether a record satisfies the filter. Vector-store
// implementations use it to enforce filter exactness after the ranked
// retrieval step.
func Matches(rec docmodel.Record, f Filter) bool {
	if f.FolderName != nil && rec.FolderName != *f.FolderName {
		return false
	}
	if f.IsConsolidated != nil && rec.IsConsolidated != *f.IsConsolidated {
		return false
	}
	if f.ContentType != nil && rec.ContentType != *f.ContentType {
		return false
	}
	if f.ExcludeExceptions && rec.IsException {
		return false
	}
	if f.ExcludeSuperseded && rec.Superseded {
		return false
	}
	return true
}
