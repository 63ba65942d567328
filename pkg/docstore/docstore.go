package docstore

import (
	"context"
	"strings"
)

// Store is a path-keyed document store: forward-slash-delimited keys into a
// tree of JSON documents, supporting whole-subtree read, single-key write,
// delete, and change subscription. It models the realtime database the
// mobile clients talk to.
//
// The subscription contract is "full resnapshot on any change": an Event
// carries only the root collection that changed, and subscribers are
// expected to re-read the whole subtree. This is a deliberate simplicity
// tradeoff, not an optimization target.
type Store interface {
	// Get returns the document at path, or apperrors.ErrNotFound.
	Get(ctx context.Context, path string) (map[string]interface{}, error)
	// List returns all documents directly under root, sorted by path.
	List(ctx context.Context, root string) ([]Document, error)
	// Set writes the whole document at path, replacing any previous value.
	Set(ctx context.Context, path string, data map[string]interface{}) error
	// Delete removes the document at path. Deleting a missing path is not
	// an error.
	Delete(ctx context.Context, path string) error
	// Subscribe delivers an Event whenever anything under root changes.
	// The channel is closed when ctx is done.
	Subscribe(ctx context.Context, root string) (<-chan Event, error)
	Close()
}

// Document is one stored record together with its full path.
type Document struct {
	Path string
	Data map[string]interface{}
}

// ID returns the last path segment.
func (d Document) ID() string {
	if i := strings.LastIndex(d.Path, "/"); i >= 0 {
		return d.Path[i+1:]
	}
	return d.Path
}

// Event signals that something under Root changed.
type Event struct {
	Root string
}

// RootOf returns the first segment of a path.
func RootOf(path string) string {
	if i := strings.Index(path, "/"); i >= 0 {
		return path[:i]
	}
	return path
}
