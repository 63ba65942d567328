package services

import (
	"context"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"lab-courier/internal/entities"
	"lab-courier/internal/orderstore"
	"lab-courier/pkg/constants"
	apperrors "lab-courier/pkg/errors"
	"lab-courier/pkg/filestorage"
)

// Upload is one completion photo pending storage.
type Upload struct {
	FileName string
	Content  io.Reader
}

// CompleteInput carries everything collected on site at specimen pickup.
// CollectionDate and CollectionTime default to the completion time when
// the courier did not report them.
type CompleteInput struct {
	Note           string
	Tubes          []entities.CollectionTube
	Pictures       []Upload
	Attachment     *Upload
	CollectionDate time.Time
	CollectionTime time.Time
	CompletedAt    time.Time
}

// WorkflowServiceInterface drives the order lifecycle. Status history is
// append-only and permissive: any status may follow any other, including
// repeats; correcting a mistake means appending the right entry, not
// rewriting history.
type WorkflowServiceInterface interface {
	AppendStatus(ctx context.Context, orderID, status string, at time.Time) (*entities.Order, error)
	AddNote(ctx context.Context, orderID, note string, at time.Time) (*entities.Order, error)
	Complete(ctx context.Context, orderID string, input CompleteInput) (*entities.Order, error)
	Fail(ctx context.Context, orderID, note string, at time.Time) (*entities.Order, error)
}

type workflowService struct {
	orders  *orderstore.Store
	storage filestorage.FileStorageInterface
	logger  *zap.Logger
}

func NewWorkflowService(
	orders *orderstore.Store,
	storage filestorage.FileStorageInterface,
	logger *zap.Logger,
) WorkflowServiceInterface {
	return &workflowService{orders: orders, storage: storage, logger: logger}
}

func (s *workflowService) AppendStatus(ctx context.Context, orderID, status string, at time.Time) (*entities.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperrors.ErrNotFound
	}

	order.Status = append(order.Status, entities.OrderStatus{Status: status, Timestamp: at})
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *workflowService) AddNote(ctx context.Context, orderID, note string, at time.Time) (*entities.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperrors.ErrNotFound
	}

	order.Note = append(order.Note, entities.NewOrderNote(note, at))
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Complete uploads the collection photos concurrently, waits for all of
// them, then performs one merged record write. Uploads are best-effort: a
// failed upload is logged and its reference dropped, and completion
// proceeds with whatever succeeded. The final write is strictly additive on
// status, notes, tubes and pictures.
func (s *workflowService) Complete(ctx context.Context, orderID string, input CompleteInput) (*entities.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperrors.ErrNotFound
	}

	var (
		wg            sync.WaitGroup
		mu            sync.Mutex
		refs          []string
		attachmentRef string
	)
	if input.Attachment != nil {
		wg.Add(1)
		go func(a Upload) {
			defer wg.Done()
			ref, err := s.storage.Save(a.Content, a.FileName, "attachments")
			if err != nil {
				s.logger.Warn("completion attachment upload failed",
					zap.String("order_id", orderID),
					zap.Error(err),
				)
				return
			}
			mu.Lock()
			attachmentRef = ref
			mu.Unlock()
		}(*input.Attachment)
	}
	for _, picture := range input.Pictures {
		wg.Add(1)
		go func(p Upload) {
			defer wg.Done()
			ref, err := s.storage.Save(p.Content, p.FileName, "orders")
			if err != nil {
				s.logger.Warn("completion photo upload failed",
					zap.String("order_id", orderID),
					zap.String("file", p.FileName),
					zap.Error(err),
				)
				return
			}
			mu.Lock()
			refs = append(refs, ref)
			mu.Unlock()
		}(picture)
	}
	wg.Wait()

	completedAt := input.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now().UTC()
	}

	order.Status = append(order.Status, entities.OrderStatus{
		Status:    constants.StatusCompleted,
		Timestamp: completedAt,
	})
	if input.Note != "" {
		order.Note = append(order.Note, entities.NewOrderNote(input.Note, completedAt))
	}
	order.CollectionTubes = append(order.CollectionTubes, input.Tubes...)
	order.Picture = append(order.Picture, refs...)
	if attachmentRef != "" {
		order.Attachment = attachmentRef
	}
	// Completion always stamps the collection moment; a stored record never
	// reads back with a zero collection date, so checking the existing value
	// would keep whatever placeholder was saved at creation.
	order.CollectionDate = input.CollectionDate
	if order.CollectionDate.IsZero() {
		order.CollectionDate = completedAt
	}
	order.CollectionTime = input.CollectionTime
	if order.CollectionTime.IsZero() {
		order.CollectionTime = completedAt
	}

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *workflowService) Fail(ctx context.Context, orderID, note string, at time.Time) (*entities.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperrors.ErrNotFound
	}

	order.Status = append(order.Status, entities.OrderStatus{Status: constants.StatusFailed, Timestamp: at})
	if note != "" {
		order.Note = append(order.Note, entities.NewOrderNote(note, at))
	}
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}
