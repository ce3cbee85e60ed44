package vectorstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"docqa/internal/contextutil"
)

// contentKey is the payload field holding chunk text.
const contentKey = "content"

// QdrantStore creates request-scoped indexes backed by temporary Qdrant collections.
type QdrantStore struct {
	client *qdrant.Client
	prefix string
}

// NewQdrantStore creates a new Qdrant vector store client.
// urlStr should be in the format "http://host:port" (e.g., "http://localhost:6333").
// The gRPC port (typically 6334) will be derived from the HTTP port.
func NewQdrantStore(urlStr string) (*QdrantStore, error) {
	host, port, err := grpcAddress(urlStr)
	if err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	return &QdrantStore{
		client: client,
		prefix: "qa_",
	}, nil
}

// grpcAddress derives the gRPC host and port from a Qdrant HTTP URL.
func grpcAddress(urlStr string) (string, int, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsedURL.Hostname()
	if host == "" {
		host = "localhost"
	}

	port := 6334 // Default gRPC port
	if parsedURL.Port() != "" {
		httpPort, err := strconv.Atoi(parsedURL.Port())
		if err == nil {
			// gRPC port is typically HTTP port + 1
			port = httpPort + 1
		}
	}
	return host, port, nil
}

// NewIndex creates a fresh cosine-distance collection sized for dimension.
// The collection is deleted when the returned index is closed.
func (s *QdrantStore) NewIndex(ctx context.Context, dimension int) (Index, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if dimension <= 0 {
		return nil, fmt.Errorf("invalid dimension %d", dimension)
	}

	collection := s.prefix + strings.ReplaceAll(uuid.NewString(), "-", "")
	err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to create collection", "collection", collection, "error", err)
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	logger.DebugContext(ctx, "collection created", "collection", collection, "vector_size", dimension)
	return &qdrantIndex{
		client:     s.client,
		collection: collection,
	}, nil
}

// HealthCheck reports whether the Qdrant server is reachable.
func (s *QdrantStore) HealthCheck(ctx context.Context) error {
	if _, err := s.client.HealthCheck(ctx); err != nil {
		return fmt.Errorf("qdrant health check failed: %w", err)
	}
	return nil
}

// Close closes the underlying gRPC connection.
func (s *QdrantStore) Close() error {
	return s.client.Close()
}

// qdrantIndex is an Index stored in one temporary collection.
type qdrantIndex struct {
	client     *qdrant.Client
	collection string
	closeOnce  sync.Once
	closeErr   error
}

// Add upserts points and waits until they are searchable.
func (idx *qdrantIndex) Add(ctx context.Context, points []Point) error {
	logger := contextutil.LoggerFromContext(ctx)

	if len(points) == 0 {
		return nil
	}

	qdrantPoints := make([]*qdrant.PointStruct, 0, len(points))
	for _, point := range points {
		payload := make(map[string]any, len(point.Meta)+1)
		for k, v := range point.Meta {
			payload[k] = v
		}
		payload[contentKey] = point.Content

		qdrantPoints = append(qdrantPoints, &qdrant.PointStruct{
			Id:      qdrant.NewID(point.ID),
			Vectors: qdrant.NewVectors(point.Vec...),
			Payload: qdrant.NewValueMap(payload),
		})
	}

	wait := true
	_, err := idx.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: idx.collection,
		Wait:           &wait,
		Points:         qdrantPoints,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to upsert points", "collection", idx.collection, "count", len(points), "error", err)
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	logger.DebugContext(ctx, "upserted points", "collection", idx.collection, "count", len(points))
	return nil
}

// Search performs a similarity search over the collection.
func (idx *qdrantIndex) Search(ctx context.Context, query []float32, k int) ([]SearchResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}

	limit := uint64(k)
	scoredPoints, err := idx.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: idx.collection,
		Query:          qdrant.NewQuery(query...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to search points", "collection", idx.collection, "k", k, "error", err)
		return nil, fmt.Errorf("failed to search points: %w", err)
	}

	results := make([]SearchResult, 0, len(scoredPoints))
	for _, result := range scoredPoints {
		pointID := ""
		if result.Id != nil {
			pointID = result.Id.GetUuid()
		}

		meta := convertPayloadToMap(result.Payload)
		content, _ := meta[contentKey].(string)
		delete(meta, contentKey)

		results = append(results, SearchResult{
			PointID: pointID,
			Score:   result.Score,
			Content: content,
			Meta:    meta,
		})
	}

	logger.DebugContext(ctx, "search completed", "collection", idx.collection, "k", k, "results", len(results))
	return results, nil
}

// Close deletes the collection. Later calls return the first result.
func (idx *qdrantIndex) Close(ctx context.Context) error {
	idx.closeOnce.Do(func() {
		if err := idx.client.DeleteCollection(ctx, idx.collection); err != nil {
			contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to delete collection", "collection", idx.collection, "error", err)
			idx.closeErr = fmt.Errorf("failed to delete collection: %w", err)
		}
	})
	return idx.closeErr
}

// convertPayloadToMap converts Qdrant payload to map[string]any.
func convertPayloadToMap(payload map[string]*qdrant.Value) map[string]any {
	result := make(map[string]any, len(payload))
	for k, v := range payload {
		if v == nil {
			continue
		}
		result[k] = convertValue(v)
	}
	return result
}

// convertValue converts a Qdrant Value to Go any type.
func convertValue(v *qdrant.Value) any {
	switch val := v.Kind.(type) {
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_ListValue:
		list := make([]any, len(val.ListValue.Values))
		for i, item := range val.ListValue.Values {
			list[i] = convertValue(item)
		}
		return list
	case *qdrant.Value_StructValue:
		return convertPayloadToMap(val.StructValue.Fields)
	default:
		return nil
	}
}
