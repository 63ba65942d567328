package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lab-courier/internal/entities"
	"lab-courier/internal/orderstore"
	"lab-courier/pkg/constants"
	"lab-courier/pkg/docstore"
	apperrors "lab-courier/pkg/errors"
)

func testOrder(number string) *entities.Order {
	return &entities.Order{
		OrderNumber:            number,
		PatientID:              "P-1",
		PatientDOB:             time.Unix(315532800, 0).UTC(),
		SpecimenType:           "Blood",
		TestName:               []string{"CBC"},
		OrderDate:              time.Unix(1700000000, 0).UTC(),
		BillingCode:            "B-1",
		InsuranceProvider:      "Acme Health",
		ReferringPhysicianName: "Dr. Reyes",
		PhysicianAddress:       "12 Main St",
		PhysicianCity:          "Springfield",
		PhysicianState:         "IL",
		PhysicianZipcode:       "62701",
		PatientName:            "Jo Smith",
		PatientAddress:         "9 Oak Ave",
		PatientCity:            "Springfield",
		PatientState:           "IL",
		PatientZipcode:         "62702",
		Barcode:                "1234567890",
	}
}

// fakeStorage fails uploads whose file name contains "bad".
type fakeStorage struct {
	mu    sync.Mutex
	saved []string
}

func (f *fakeStorage) Save(file io.Reader, originalFileName string, prefix string) (string, error) {
	if strings.Contains(originalFileName, "bad") {
		return "", errors.New("disk full")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	ref := prefix + "/" + originalFileName
	f.saved = append(f.saved, ref)
	return ref, nil
}

func (f *fakeStorage) Delete(filePath string) error { return nil }

func newWorkflowFixture(t *testing.T) (*orderstore.Store, WorkflowServiceInterface, *fakeStorage) {
	t.Helper()
	orders := orderstore.New(docstore.NewMemoryStore(), zap.NewNop())
	storage := &fakeStorage{}
	return orders, NewWorkflowService(orders, storage, zap.NewNop()), storage
}

func TestAppendStatusIsPermissive(t *testing.T) {
	ctx := context.Background()
	orders, workflow, _ := newWorkflowFixture(t)

	id, err := orders.Create(ctx, testOrder("ORD-1"))
	require.NoError(t, err)

	// Completed first, then In-Progress: accepted, history keeps append order.
	_, err = workflow.AppendStatus(ctx, id, constants.StatusCompleted, time.Unix(300, 0).UTC())
	require.NoError(t, err)
	order, err := workflow.AppendStatus(ctx, id, constants.StatusInProgress, time.Unix(100, 0).UTC())
	require.NoError(t, err)

	require.Len(t, order.Status, 2)
	assert.Equal(t, constants.StatusInProgress, order.CurrentStatus())
	assert.True(t, order.IsCompleted())
}

func TestAppendStatusUnknownOrder(t *testing.T) {
	_, workflow, _ := newWorkflowFixture(t)

	_, err := workflow.AppendStatus(context.Background(), "missing", constants.StatusInProgress, time.Now())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCompleteMergesAdditively(t *testing.T) {
	ctx := context.Background()
	orders, workflow, _ := newWorkflowFixture(t)

	initial := testOrder("ORD-1")
	initial.Status = []entities.OrderStatus{
		{Status: constants.StatusInProgress, Timestamp: time.Unix(100, 0).UTC()},
	}
	initial.CollectionTubes = []entities.CollectionTube{{ID: "t0", Name: "SST", Quantity: 1}}
	id, err := orders.Create(ctx, initial)
	require.NoError(t, err)

	completedAt := time.Unix(7300, 0).UTC()
	order, err := workflow.Complete(ctx, id, CompleteInput{
		Note:        "patient fasting confirmed",
		Tubes:       []entities.CollectionTube{{ID: "t1", Name: "EDTA", Quantity: 2}},
		CompletedAt: completedAt,
	})
	require.NoError(t, err)

	// Nothing pre-existing is lost; the completion only appends.
	require.Len(t, order.Status, 2)
	assert.Equal(t, constants.StatusCompleted, order.CurrentStatus())
	assert.Equal(t, completedAt, order.Status[1].Timestamp)
	require.Len(t, order.CollectionTubes, 2)
	assert.Equal(t, "SST", order.CollectionTubes[0].Name)
	require.Len(t, order.Note, 1)
	assert.Equal(t, "patient fasting confirmed", order.Note[0].Note)
}

func TestCompleteStampsCollectionMoment(t *testing.T) {
	ctx := context.Background()
	orders, workflow, _ := newWorkflowFixture(t)

	// A stored record with no collection date reads back as the epoch, not
	// as a zero time, so completion must overwrite rather than fill in.
	id, err := orders.Create(ctx, testOrder("ORD-1"))
	require.NoError(t, err)
	stored, err := orders.GetByID(ctx, id)
	require.NoError(t, err)
	require.False(t, stored.CollectionDate.IsZero())

	completedAt := time.Unix(7300, 0).UTC()
	order, err := workflow.Complete(ctx, id, CompleteInput{CompletedAt: completedAt})
	require.NoError(t, err)

	assert.Equal(t, completedAt, order.CollectionDate)
	assert.Equal(t, completedAt, order.CollectionTime)
}

func TestCompleteHonorsReportedCollectionMoment(t *testing.T) {
	ctx := context.Background()
	orders, workflow, _ := newWorkflowFixture(t)

	id, err := orders.Create(ctx, testOrder("ORD-1"))
	require.NoError(t, err)

	collectionDate := time.Unix(3600, 0).UTC()
	collectionTime := time.Unix(3900, 0).UTC()
	order, err := workflow.Complete(ctx, id, CompleteInput{
		CollectionDate: collectionDate,
		CollectionTime: collectionTime,
		CompletedAt:    time.Unix(7300, 0).UTC(),
	})
	require.NoError(t, err)

	assert.Equal(t, collectionDate, order.CollectionDate)
	assert.Equal(t, collectionTime, order.CollectionTime)
}

func TestCompleteUploadsConcurrentlyAndDropsFailures(t *testing.T) {
	ctx := context.Background()
	orders, workflow, storage := newWorkflowFixture(t)

	id, err := orders.Create(ctx, testOrder("ORD-1"))
	require.NoError(t, err)

	order, err := workflow.Complete(ctx, id, CompleteInput{
		Pictures: []Upload{
			{FileName: "front.jpg", Content: strings.NewReader("a")},
			{FileName: "bad.jpg", Content: strings.NewReader("b")},
			{FileName: "label.jpg", Content: strings.NewReader("c")},
		},
	})
	require.NoError(t, err, "a failed upload must not fail the completion")

	assert.Len(t, storage.saved, 2)
	assert.Len(t, order.Picture, 2)
	assert.ElementsMatch(t, storage.saved, order.Picture)
	assert.Equal(t, constants.StatusCompleted, order.CurrentStatus())
}

func TestFailAppendsStatusAndNote(t *testing.T) {
	ctx := context.Background()
	orders, workflow, _ := newWorkflowFixture(t)

	id, err := orders.Create(ctx, testOrder("ORD-1"))
	require.NoError(t, err)

	at := time.Unix(500, 0).UTC()
	order, err := workflow.Fail(ctx, id, "patient not home", at)
	require.NoError(t, err)

	assert.Equal(t, constants.StatusFailed, order.CurrentStatus())
	require.Len(t, order.Note, 1)
	assert.Equal(t, "patient not home", order.Note[0].Note)
}
