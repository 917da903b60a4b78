package repository

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/scoreboard/pkg/domain/interfaces"
	"github.com/secmon-lab/scoreboard/pkg/domain/model"
)

// Memory implements ScoreSource with in-memory storage
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]model.Document
	fetchErr    error
}

// NewMemory creates a new memory score source
func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string]map[string]model.Document),
	}
}

// Put stores a document in the collection and returns its key. A key is generated when
// the document has none.
func (m *Memory) Put(collection string, doc model.Document) string {
	id := doc.ID().String()
	if id == "" {
		id = uuid.New().String()
	}

	stored := maps.Clone(doc)
	if stored == nil {
		stored = model.Document{}
	}
	delete(stored, model.FieldID)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.collections[collection] == nil {
		m.collections[collection] = make(map[string]model.Document)
	}
	m.collections[collection][id] = stored
	return id
}

// Clear removes every document of the collection
func (m *Memory) Clear(collection string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collections, collection)
}

// SetError makes subsequent fetches fail with err until it is reset with nil
func (m *Memory) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchErr = err
}

// FetchCollection returns copies of every document, ordered by key
func (m *Memory) FetchCollection(ctx context.Context, name string) ([]model.Document, error) {
	if name == "" {
		return nil, goerr.New("collection name is empty", goerr.T(model.ErrTagDataSource))
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.fetchErr != nil {
		return nil, goerr.Wrap(m.fetchErr, "failed to fetch documents",
			goerr.V("collection", name),
			goerr.T(model.ErrTagDataSource))
	}

	stored := m.collections[name]
	ids := make([]string, 0, len(stored))
	for id := range stored {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	docs := make([]model.Document, 0, len(ids))
	for _, id := range ids {
		doc := maps.Clone(stored[id])
		doc[model.FieldID] = id
		docs = append(docs, doc)
	}

	return docs, nil
}

// Close is a no-op for memory storage
func (m *Memory) Close() error {
	return nil
}

var _ interfaces.ScoreSource = (*Memory)(nil) // Compile-time interface check
