package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Store used by tests and local development. It
// mirrors the backend's observable behavior: opaque ids, $createdAt stamps,
// equality filters with dotted paths, field ordering.
type Memory struct {
	mu   sync.RWMutex
	data map[string]map[string]map[string]any // collection -> id -> document
	ids  map[string][]string                  // insertion order per collection

	// Now is overridable so tests control document timestamps.
	Now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		data: make(map[string]map[string]map[string]any),
		ids:  make(map[string][]string),
		Now:  time.Now,
	}
}

var _ Store = (*Memory)(nil)

func (m *Memory) ListDocuments(_ context.Context, collection string, q Query) ([]json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]map[string]any, 0)
	for _, id := range m.ids[collection] {
		doc := m.data[collection][id]
		if matchesFilters(doc, q.Filters) {
			docs = append(docs, doc)
		}
	}
	applyOrder(docs, q.Order)

	out := make([]json.RawMessage, 0, len(docs))
	for _, doc := range docs {
		raw, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

func (m *Memory) CreateDocument(_ context.Context, collection, id string, data any) (json.RawMessage, error) {
	doc, err := toDocument(data)
	if err != nil {
		return nil, err
	}
	if id == "" {
		id = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data[collection] == nil {
		m.data[collection] = make(map[string]map[string]any)
	}
	if _, exists := m.data[collection][id]; exists {
		return nil, newAPIError(409, "document_already_exists", "document already exists")
	}

	now := m.Now().UTC().Format(time.RFC3339Nano)
	if _, ok := doc[FieldCreatedAt]; !ok {
		doc[FieldCreatedAt] = now
	}
	doc[FieldID] = id
	doc[FieldUpdatedAt] = now

	m.data[collection][id] = doc
	m.ids[collection] = append(m.ids[collection], id)
	return json.Marshal(doc)
}

func (m *Memory) UpdateDocument(_ context.Context, collection, id string, data any) (json.RawMessage, error) {
	patch, err := toDocument(data)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.data[collection][id]
	if !ok {
		return nil, newAPIError(404, "document_not_found", "document not found")
	}
	for k, v := range patch {
		if strings.HasPrefix(k, "$") {
			continue
		}
		doc[k] = v
	}
	doc[FieldUpdatedAt] = m.Now().UTC().Format(time.RFC3339Nano)
	return json.Marshal(doc)
}

func (m *Memory) DeleteDocument(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.data[collection][id]; !ok {
		return newAPIError(404, "document_not_found", "document not found")
	}
	delete(m.data[collection], id)
	order := m.ids[collection]
	for i, existing := range order {
		if existing == id {
			m.ids[collection] = append(order[:i], order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

// Count returns the number of documents in a collection.
func (m *Memory) Count(collection string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.ids[collection])
}

func toDocument(data any) (map[string]any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("store: encode document: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("store: document must be a JSON object: %w", err)
	}
	return doc, nil
}

// lookupField resolves a possibly dotted attribute path inside a document.
func lookupField(doc map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	var cur any = doc
	for _, part := range parts {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func matchesFilters(doc map[string]any, filters []Filter) bool {
	for _, f := range filters {
		val, ok := lookupField(doc, f.Field)
		if !ok {
			return false
		}
		if normalize(val) != normalize(f.Value) {
			return false
		}
	}
	return true
}

// normalize flattens JSON scalar representations so 3 == 3.0 and values
// survive a marshal round-trip.
func normalize(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(raw)
}

func applyOrder(docs []map[string]any, orders []Order) {
	if len(orders) == 0 {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, o := range orders {
			a, _ := lookupField(docs[i], o.Field)
			b, _ := lookupField(docs[j], o.Field)
			cmp := compareValues(a, b)
			if cmp == 0 {
				continue
			}
			if o.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func compareValues(a, b any) int {
	af, aok := a.(float64)
	bf, bok := b.(float64)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
