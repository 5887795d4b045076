package docstore

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MemStore is an in-memory Store used in dev mode and in tests. It mimics
// the server's behavior: auto-increment numeric ids exposed as strings,
// equality filters, single-field sorts, and unique index enforcement.
type MemStore struct {
	mu     sync.Mutex
	data   map[string]map[string]map[string]any
	unique map[string][]string
	nextID int64
	now    func() time.Time
}

func NewMemStore() *MemStore {
	return &MemStore{
		data:   make(map[string]map[string]map[string]any),
		unique: make(map[string][]string),
		nextID: 1,
		now:    time.Now,
	}
}

func (s *MemStore) collection(name string) map[string]map[string]any {
	col, ok := s.data[name]
	if !ok {
		col = make(map[string]map[string]any)
		s.data[name] = col
	}
	return col
}

func matches(doc, filter map[string]any) bool {
	for k, want := range filter {
		got, ok := doc[k]
		if !ok {
			return false
		}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}

func clone(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

func (s *MemStore) ListDocuments(ctx context.Context, collection string, filter, sortSpec map[string]any) ([]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []map[string]any
	for _, doc := range s.collection(collection) {
		if filter == nil || matches(doc, filter) {
			out = append(out, clone(doc))
		}
	}
	sortDocs(out, sortSpec)
	return out, nil
}

func sortDocs(docs []map[string]any, order map[string]any) {
	field, desc := "_id", false
	for k, dir := range order {
		field = k
		if d, ok := dir.(int); ok && d < 0 {
			desc = true
		}
		if d, ok := dir.(float64); ok && d < 0 {
			desc = true
		}
		break
	}
	sort.SliceStable(docs, func(i, j int) bool {
		a, b := fmt.Sprint(docs[i][field]), fmt.Sprint(docs[j][field])
		if field == "_id" {
			ai, _ := strconv.ParseInt(a, 10, 64)
			bi, _ := strconv.ParseInt(b, 10, 64)
			if desc {
				return ai > bi
			}
			return ai < bi
		}
		if desc {
			return a > b
		}
		return a < b
	})
}

func (s *MemStore) GetDocument(ctx context.Context, collection, id string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collection(collection)[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(doc), nil
}

func (s *MemStore) CreateDocument(ctx context.Context, collection string, fields map[string]any) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.collection(collection)
	for _, field := range s.unique[collection] {
		want, ok := fields[field]
		if !ok {
			continue
		}
		for _, existing := range col {
			if fmt.Sprint(existing[field]) == fmt.Sprint(want) {
				return nil, &Error{Msg: fmt.Sprintf("unique index violation on %s.%s", collection, field)}
			}
		}
	}

	doc := clone(fields)
	id := strconv.FormatInt(s.nextID, 10)
	s.nextID++
	now := s.now().UTC().Format(time.RFC3339)
	doc["_id"] = id
	doc["createdAt"] = now
	doc["updatedAt"] = now
	col[id] = doc
	return clone(doc), nil
}

func (s *MemStore) UpdateDocument(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collection(collection)[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		doc[k] = v
	}
	doc["updatedAt"] = s.now().UTC().Format(time.RFC3339)
	return nil
}

func (s *MemStore) DeleteDocument(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.collection(collection)
	if _, ok := col[id]; !ok {
		return ErrNotFound
	}
	delete(col, id)
	return nil
}

func (s *MemStore) CountDocuments(ctx context.Context, collection string, filter map[string]any) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, doc := range s.collection(collection) {
		if filter == nil || matches(doc, filter) {
			n++
		}
	}
	return n, nil
}

func (s *MemStore) SearchDocuments(ctx context.Context, collection, query string, limit int) ([]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(query)
	var out []map[string]any
	for _, doc := range s.collection(collection) {
		for _, v := range doc {
			sv, ok := v.(string)
			if !ok {
				continue
			}
			if strings.Contains(strings.ToLower(sv), needle) {
				out = append(out, clone(doc))
				break
			}
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	sortDocs(out, nil)
	return out, nil
}

func (s *MemStore) EnsureIndex(ctx context.Context, collection, field string, unique bool) error {
	if !unique {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.unique[collection] {
		if f == field {
			return nil
		}
	}
	s.unique[collection] = append(s.unique[collection], field)
	return nil
}

func (s *MemStore) EnsureTextIndex(ctx context.Context, collection string, fields []string) error {
	return nil
}

func (s *MemStore) Ping(ctx context.Context) error {
	return ctx.Err()
}
