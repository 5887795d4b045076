package docstore

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// Store is the remote document store contract the rest of the system
// depends on. Documents are flat JSON objects; the store assigns the "_id"
// field on create and maintains "createdAt"/"updatedAt" timestamps.
type Store interface {
	ListDocuments(ctx context.Context, collection string, filter, sort map[string]any) ([]map[string]any, error)
	GetDocument(ctx context.Context, collection, id string) (map[string]any, error)
	CreateDocument(ctx context.Context, collection string, fields map[string]any) (map[string]any, error)
	UpdateDocument(ctx context.Context, collection, id string, fields map[string]any) error
	DeleteDocument(ctx context.Context, collection, id string) error
	CountDocuments(ctx context.Context, collection string, filter map[string]any) (int, error)
	SearchDocuments(ctx context.Context, collection, query string, limit int) ([]map[string]any, error)
	EnsureIndex(ctx context.Context, collection, field string, unique bool) error
	EnsureTextIndex(ctx context.Context, collection string, fields []string) error
	Ping(ctx context.Context) error
}

// TCPStore implements Store over the pooled TCP client.
type TCPStore struct {
	pool *Pool
	now  func() time.Time
}

// NewTCPStore wraps a connection pool in the Store contract.
func NewTCPStore(pool *Pool) *TCPStore {
	return &TCPStore{pool: pool, now: time.Now}
}

func (s *TCPStore) ListDocuments(ctx context.Context, collection string, filter, sort map[string]any) ([]map[string]any, error) {
	if filter == nil {
		filter = map[string]any{}
	}
	var opts *FindOptions
	if sort != nil {
		opts = &FindOptions{Sort: sort}
	}
	docs, err := s.pool.Get().Find(ctx, collection, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	for _, d := range docs {
		normalizeID(d)
	}
	return docs, nil
}

func (s *TCPStore) GetDocument(ctx context.Context, collection, id string) (map[string]any, error) {
	doc, err := s.pool.Get().FindOne(ctx, collection, map[string]any{"_id": toNumericID(id)})
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	normalizeID(doc)
	return doc, nil
}

func (s *TCPStore) CreateDocument(ctx context.Context, collection string, fields map[string]any) (map[string]any, error) {
	doc := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		doc[k] = v
	}
	now := s.now().UTC().Format(time.RFC3339)
	doc["createdAt"] = now
	doc["updatedAt"] = now

	result, err := s.pool.Get().Insert(ctx, collection, doc)
	if err != nil {
		return nil, fmt.Errorf("create in %s: %w", collection, err)
	}
	doc["_id"] = extractID(result)
	return doc, nil
}

func (s *TCPStore) UpdateDocument(ctx context.Context, collection, id string, fields map[string]any) error {
	set := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		set[k] = v
	}
	set["updatedAt"] = s.now().UTC().Format(time.RFC3339)

	_, err := s.pool.Get().UpdateOne(ctx, collection,
		map[string]any{"_id": toNumericID(id)},
		map[string]any{"$set": set})
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *TCPStore) DeleteDocument(ctx context.Context, collection, id string) error {
	_, err := s.pool.Get().DeleteOne(ctx, collection, map[string]any{"_id": toNumericID(id)})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *TCPStore) CountDocuments(ctx context.Context, collection string, filter map[string]any) (int, error) {
	if filter == nil {
		filter = map[string]any{}
	}
	n, err := s.pool.Get().Count(ctx, collection, filter)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return n, nil
}

func (s *TCPStore) SearchDocuments(ctx context.Context, collection, query string, limit int) ([]map[string]any, error) {
	docs, err := s.pool.Get().TextSearch(ctx, collection, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", collection, err)
	}
	for _, d := range docs {
		normalizeID(d)
	}
	return docs, nil
}

func (s *TCPStore) EnsureIndex(ctx context.Context, collection, field string, unique bool) error {
	if unique {
		return s.pool.Get().CreateUniqueIndex(ctx, collection, field)
	}
	return s.pool.Get().CreateIndex(ctx, collection, field)
}

func (s *TCPStore) EnsureTextIndex(ctx context.Context, collection string, fields []string) error {
	return s.pool.Get().CreateTextIndex(ctx, collection, fields)
}

func (s *TCPStore) Ping(ctx context.Context) error {
	_, err := s.pool.Get().Ping(ctx)
	return err
}

// normalizeID converts the _id field from numeric (float64) to string
// since the server returns auto-increment numeric IDs.
func normalizeID(doc map[string]any) {
	if id, ok := doc["_id"]; ok {
		switch v := id.(type) {
		case float64:
			doc["_id"] = strconv.FormatFloat(v, 'f', 0, 64)
		case int:
			doc["_id"] = strconv.Itoa(v)
		}
	}
}

// extractID gets the inserted document ID from an insert response.
func extractID(result map[string]any) string {
	if id, ok := result["id"]; ok {
		switch v := id.(type) {
		case string:
			return v
		case float64:
			return strconv.FormatFloat(v, 'f', 0, 64)
		}
	}
	return ""
}

// toNumericID converts a string ID to float64 for server-side queries.
func toNumericID(id string) any {
	if n, err := strconv.ParseFloat(id, 64); err == nil {
		return n
	}
	return id
}
