package docstore

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	apperrors "lab-courier/pkg/errors"
)

// MemoryStore is a map-backed Store used by tests and local development.
// Documents are stored as encoded JSON so readers never share memory with
// writers.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
	subs map[string][]chan Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string][]byte),
		subs: make(map[string][]chan Event),
	}
}

func (s *MemoryStore) Get(ctx context.Context, path string) (map[string]interface{}, error) {
	s.mu.RLock()
	raw, ok := s.docs[path]
	s.mu.RUnlock()
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *MemoryStore) List(ctx context.Context, root string) ([]Document, error) {
	prefix := root + "/"

	s.mu.RLock()
	paths := make([]string, 0)
	for path := range s.docs {
		if strings.HasPrefix(path, prefix) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)

	docs := make([]Document, 0, len(paths))
	for _, path := range paths {
		var data map[string]interface{}
		if err := json.Unmarshal(s.docs[path], &data); err != nil {
			s.mu.RUnlock()
			return nil, err
		}
		docs = append(docs, Document{Path: path, Data: data})
	}
	s.mu.RUnlock()

	return docs, nil
}

func (s *MemoryStore) Set(ctx context.Context, path string, data map[string]interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.docs[path] = raw
	s.mu.Unlock()

	s.notify(RootOf(path))
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	delete(s.docs, path)
	s.mu.Unlock()

	s.notify(RootOf(path))
	return nil
}

func (s *MemoryStore) Subscribe(ctx context.Context, root string) (<-chan Event, error) {
	// Buffered so a slow subscriber coalesces notifications instead of
	// blocking writers; under the full-resnapshot contract a dropped event
	// is covered by the next one.
	ch := make(chan Event, 1)

	s.mu.Lock()
	s.subs[root] = append(s.subs[root], ch)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		subs := s.subs[root]
		for i, sub := range subs {
			if sub == ch {
				s.subs[root] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}

func (s *MemoryStore) Close() {}

func (s *MemoryStore) notify(root string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs[root] {
		select {
		case ch <- Event{Root: root}:
		default:
		}
	}
}
