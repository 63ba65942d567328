package orderstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lab-courier/internal/entities"
	"lab-courier/pkg/docstore"
	apperrors "lab-courier/pkg/errors"
)

const collection = "orders"

// SnapshotFilter restricts a subscription to orders listing the given user
// as an assigned phlebotomist.
type SnapshotFilter struct {
	PhlebotomistID string
}

type subscriber struct {
	ch     chan []entities.Order
	filter *SnapshotFilter
}

// Store maintains an in-memory projection of the orders collection,
// synchronized from the document store, and performs all order writes.
// It replaces the shared-singleton manager of the mobile client with an
// injected instance: the projection is mutated only by the Run goroutine,
// preserving the original single-threaded-dispatch invariant.
type Store struct {
	docs   docstore.Store
	logger *zap.Logger

	mu     sync.RWMutex
	orders []entities.Order
	subs   map[*subscriber]struct{}
}

func New(docs docstore.Store, logger *zap.Logger) *Store {
	return &Store{
		docs:   docs,
		logger: logger,
		orders: make([]entities.Order, 0),
		subs:   make(map[*subscriber]struct{}),
	}
}

// Run loads the initial snapshot and then re-reads the whole collection on
// every change notification (full resnapshot, no incremental patching).
// Blocks until ctx is done.
func (s *Store) Run(ctx context.Context) error {
	events, err := s.docs.Subscribe(ctx, collection)
	if err != nil {
		return fmt.Errorf("orderstore: subscribe: %w", err)
	}

	s.reload(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-events:
			if !ok {
				return nil
			}
			s.reload(ctx)
		}
	}
}

func (s *Store) reload(ctx context.Context) {
	docs, err := s.docs.List(ctx, collection)
	if err != nil {
		// A failed refresh keeps the previous consistent snapshot.
		s.logger.Error("orderstore: collection read failed", zap.Error(err))
		return
	}

	orders := make([]entities.Order, 0, len(docs))
	for _, doc := range docs {
		order, err := entities.OrderFromDocument(doc.ID(), doc.Data)
		if err != nil {
			// A single malformed record never fails the collection fetch.
			s.logger.Warn("orderstore: dropping malformed order", zap.Error(err))
			continue
		}
		orders = append(orders, *order)
	}

	s.mu.Lock()
	s.orders = orders
	subs := make([]*subscriber, 0, len(s.subs))
	for sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub.publish(orders)
	}
}

func (sub *subscriber) publish(orders []entities.Order) {
	snapshot := filterOrders(orders, sub.filter)
	select {
	case sub.ch <- snapshot:
	default:
		// Drop in favor of the newer snapshot already pending.
		select {
		case <-sub.ch:
		default:
		}
		select {
		case sub.ch <- snapshot:
		default:
		}
	}
}

// Subscribe returns a channel that receives a complete replacement snapshot
// of the (optionally filtered) order list: once immediately, then on every
// collection change. Cancel releases the subscription.
func (s *Store) Subscribe(filter *SnapshotFilter) (snapshots <-chan []entities.Order, cancel func()) {
	sub := &subscriber{
		ch:     make(chan []entities.Order, 1),
		filter: filter,
	}

	s.mu.Lock()
	s.subs[sub] = struct{}{}
	current := s.orders
	s.mu.Unlock()

	sub.publish(current)

	return sub.ch, func() {
		s.mu.Lock()
		delete(s.subs, sub)
		s.mu.Unlock()
	}
}

// Snapshot returns the projection as of the last refresh.
func (s *Store) Snapshot(filter *SnapshotFilter) []entities.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterOrders(s.orders, filter)
}

// List performs a one-shot read of the whole collection, bypassing the
// projection. Malformed records are dropped, not surfaced.
func (s *Store) List(ctx context.Context) ([]entities.Order, error) {
	docs, err := s.docs.List(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("orderstore: list: %w", err)
	}
	orders := make([]entities.Order, 0, len(docs))
	for _, doc := range docs {
		order, err := entities.OrderFromDocument(doc.ID(), doc.Data)
		if err != nil {
			s.logger.Warn("orderstore: dropping malformed order", zap.Error(err))
			continue
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

// Create assigns a fresh identifier and writes the full record. No retry on
// write failure.
func (s *Store) Create(ctx context.Context, order *entities.Order) (string, error) {
	id := uuid.New().String()
	order.ID = id
	if err := s.docs.Set(ctx, collection+"/"+id, order.Document()); err != nil {
		return "", fmt.Errorf("orderstore: create: %w", err)
	}
	return id, nil
}

// Update overwrites the entire remote record. Concurrent updates race;
// last writer wins, there is no optimistic concurrency token.
func (s *Store) Update(ctx context.Context, order *entities.Order) error {
	if order.ID == "" {
		return apperrors.ErrInvalidState
	}
	if err := s.docs.Set(ctx, collection+"/"+order.ID, order.Document()); err != nil {
		return fmt.Errorf("orderstore: update: %w", err)
	}
	return nil
}

// Delete removes the remote record unconditionally. Hard delete, no undo.
func (s *Store) Delete(ctx context.Context, order *entities.Order) error {
	if order.ID == "" {
		return apperrors.ErrInvalidState
	}
	if err := s.docs.Delete(ctx, collection+"/"+order.ID); err != nil {
		return fmt.Errorf("orderstore: delete: %w", err)
	}
	return nil
}

// GetByID fetches one order. Absent or malformed records yield (nil, nil),
// not an error.
func (s *Store) GetByID(ctx context.Context, id string) (*entities.Order, error) {
	if id == "" {
		return nil, nil
	}
	data, err := s.docs.Get(ctx, collection+"/"+id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("orderstore: get %s: %w", id, err)
	}
	order, err := entities.OrderFromDocument(id, data)
	if err != nil {
		s.logger.Warn("orderstore: malformed order", zap.String("id", id), zap.Error(err))
		return nil, nil
	}
	return order, nil
}

func filterOrders(orders []entities.Order, filter *SnapshotFilter) []entities.Order {
	out := make([]entities.Order, 0, len(orders))
	for _, o := range orders {
		if filter != nil && filter.PhlebotomistID != "" && !o.IsAssignedTo(filter.PhlebotomistID) {
			continue
		}
		out = append(out, o)
	}
	return out
}
