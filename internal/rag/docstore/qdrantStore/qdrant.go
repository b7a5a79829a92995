package qdrantStore

import (
	"context"
	"errors"
	"os"
	"strconv"
	"sync"

	"github.com/akolanti/DocSearch/internal/config"
	"github.com/akolanti/DocSearch/internal/domain/docmodel"
	"github.com/akolanti/DocSearch/internal/rag/docstore"
	"github.com/akolanti/DocSearch/internal/rag/embedding"
	"github.com/akolanti/DocSearch/pkg/logger_i"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

var logger *logger_i.Logger
var qdrantInstance *qdrant.Client
var once sync.Once
var dimension = uint64(config.EmbeddingOutputDimensionality)
var collectionName = config.CollectionName

type ClientHolder struct {
	QObj     *qdrant.Client
	embedder embedding.Embedder
}

// GetQdrantStore returns the shared qdrant-backed store, or nil when
// the connection could not be established. Callers fall back to the
// in-memory store in that case.
func GetQdrantStore(ctx context.Context, embedder embedding.Embedder) *ClientHolder {
	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient()
		if res != nil {
			qdrantInstance = res
			go closeQdrant(ctx, qdrantInstance)
		}
	})

	if qdrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj:     qdrantInstance,
		embedder: embedder,
	}
}

func newClient() *qdrant.Client {
	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))

	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil
	}

	err = createCollection(context.Background(), client, collectionName)
	if err != nil {
		logger.Error("could not create collection: ", "collectionName", collectionName, "error:", err)
		return nil
	}

	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	err := qi.Close()
	if err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
	logger.Info("Closed Qdrant")
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	return err
}

// pointID maps a logical record id (e.g. "doc_handbook") onto the UUID
// space qdrant point ids live in. Deterministic, so re-upserts replace.
func pointID(recordID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(recordID)).String()
}

func (db *ClientHolder) Upsert(ctx context.Context, rec docmodel.Record) (docmodel.Record, error) {
	if db == nil || db.QObj == nil {
		return docmodel.Record{}, docstore.ErrStorageUnavailable
	}

	rec, err := docstore.PrepareForUpsert(ctx, rec, db.embedder)
	if err != nil {
		return docmodel.Record{}, err
	}

	//replace semantics keep the original creation time
	if existing, ok := db.getByID(ctx, rec.ID); ok && !existing.CreatedAt.IsZero() {
		rec.CreatedAt = existing.CreatedAt
	}

	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(pointID(rec.ID)),
		Vectors: qdrant.NewVectors(rec.Embedding...),
		Payload: qdrant.NewValueMap(docmodel.ToPayload(rec)),
	}

	_, err = db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         []*qdrant.PointStruct{point},
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		logger.Error("Upsert failed", "id", rec.ID, "error", err)
		return docmodel.Record{}, err
	}
	return rec, nil
}

func (db *ClientHolder) getByID(ctx context.Context, id string) (docmodel.Record, bool) {
	points, err := db.QObj.Get(ctx, &qdrant.GetPoints{
		CollectionName: collectionName,
		Ids:            []*qdrant.PointId{qdrant.NewID(pointID(id))},
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil || len(points) == 0 {
		return docmodel.Record{}, false
	}
	return recordFromPayload(points[0].Payload, points[0].Vectors), true
}

func (db *ClientHolder) Find(ctx context.Context, filter docstore.Filter, limit int) ([]docmodel.Record, error) {
	if db == nil || db.QObj == nil {
		return nil, nil
	}

	scrollLimit := uint32(limit)
	if limit <= 0 {
		scrollLimit = uint32(config.ConsolidationScanLimit)
	}

	points, err := db.QObj.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: collectionName,
		Filter:         buildFilter(filter),
		Limit:          qdrant.PtrOf(scrollLimit),
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		logger.Error("Scroll failed", "error", err)
		return nil, err
	}

	var out []docmodel.Record
	for _, p := range points {
		rec := recordFromPayload(p.Payload, p.Vectors)
		if docstore.Matches(rec, filter) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (db *ClientHolder) VectorSearch(ctx context.Context, vector []float32, k int, filter docstore.Filter) ([]docstore.ScoredRecord, error) {
	if db == nil || db.QObj == nil {
		return nil, nil
	}

	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collectionName,
		Query:          qdrant.NewQuery(vector...),
		Filter:         buildFilter(filter),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		logger.Error("Error querying Qdrant: ", "error:", err)
		return nil, err
	}

	var out []docstore.ScoredRecord
	for _, hit := range result {
		rec := recordFromPayload(hit.Payload, nil)
		//filter exactness even though qdrant pre-filtered
		if !docstore.Matches(rec, filter) {
			continue
		}
		out = append(out, docstore.ScoredRecord{Record: rec, Score: hit.Score})
	}
	return out, nil
}

func (db *ClientHolder) SetFlagByFolder(ctx context.Context, folder string, field string, value bool) (int, error) {
	if db == nil || db.QObj == nil {
		return 0, docstore.ErrStorageUnavailable
	}

	f := &qdrant.Filter{
		Must: []*qdrant.Condition{qdrant.NewMatch(docmodel.FieldFolderName, folder)},
	}
	count, err := db.QObj.Count(ctx, &qdrant.CountPoints{
		CollectionName: collectionName,
		Filter:         f,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, err
	}

	_, err = db.QObj.SetPayload(ctx, &qdrant.SetPayloadPoints{
		CollectionName: collectionName,
		Payload:        qdrant.NewValueMap(map[string]any{field: value}),
		PointsSelector: qdrant.NewPointsSelectorFilter(f),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		logger.Error("SetPayload failed", "folder", folder, "field", field, "error", err)
		return 0, err
	}
	return int(count), nil
}

func (db *ClientHolder) DeleteByID(ctx context.Context, id string) (int, error) {
	if db == nil || db.QObj == nil {
		return 0, docstore.ErrStorageUnavailable
	}

	if _, ok := db.getByID(ctx, id); !ok {
		return 0, nil
	}

	_, err := db.QObj.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collectionName,
		Points:         qdrant.NewPointsSelector(qdrant.NewID(pointID(id))),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, err
	}
	return 1, nil
}

func (db *ClientHolder) DeleteByFolder(ctx context.Context, folder string) (int, error) {
	if db == nil || db.QObj == nil {
		return 0, docstore.ErrStorageUnavailable
	}

	f := &qdrant.Filter{
		Must: []*qdrant.Condition{qdrant.NewMatch(docmodel.FieldFolderName, folder)},
	}
	count, err := db.QObj.Count(ctx, &qdrant.CountPoints{
		CollectionName: collectionName,
		Filter:         f,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, nil
	}

	_, err = db.QObj.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collectionName,
		Points:         qdrant.NewPointsSelectorFilter(f),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func buildFilter(f docstore.Filter) *qdrant.Filter {
	var must []*qdrant.Condition
	var mustNot []*qdrant.Condition

	if f.FolderName != nil {
		must = append(must, qdrant.NewMatch(docmodel.FieldFolderName, *f.FolderName))
	}
	if f.IsConsolidated != nil {
		must = append(must, qdrant.NewMatchBool(docmodel.FieldIsConsolidated, *f.IsConsolidated))
	}
	if f.ContentType != nil {
		must = append(must, qdrant.NewMatch(docmodel.FieldContentType, *f.ContentType))
	}
	if f.ExcludeExceptions {
		mustNot = append(mustNot, qdrant.NewMatchBool(docmodel.FieldIsException, true))
	}
	if f.ExcludeSuperseded {
		mustNot = append(mustNot, qdrant.NewMatchBool(docmodel.FieldSuperseded, true))
	}

	if len(must) == 0 && len(mustNot) == 0 {
		return nil
	}
	return &qdrant.Filter{Must: must, MustNot: mustNot}
}
