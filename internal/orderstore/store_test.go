package orderstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lab-courier/internal/entities"
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

func TestStoreCreateAssignsID(t *testing.T) {
	ctx := context.Background()
	store := New(docstore.NewMemoryStore(), zap.NewNop())

	order := testOrder("ORD-1")
	id, err := store.Create(ctx, order)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, order.ID)

	loaded, err := store.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "ORD-1", loaded.OrderNumber)
}

func TestStoreUpdateAndDeleteRequireID(t *testing.T) {
	ctx := context.Background()
	store := New(docstore.NewMemoryStore(), zap.NewNop())

	err := store.Update(ctx, testOrder("ORD-1"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	err = store.Delete(ctx, testOrder("ORD-1"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestStoreGetByIDAbsentOrMalformed(t *testing.T) {
	ctx := context.Background()
	docs := docstore.NewMemoryStore()
	store := New(docs, zap.NewNop())

	order, err := store.GetByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, order)

	// A record missing required fields reads as absent, not as an error.
	require.NoError(t, docs.Set(ctx, "orders/bad", map[string]interface{}{"order_number": "X"}))
	order, err = store.GetByID(ctx, "bad")
	require.NoError(t, err)
	assert.Nil(t, order)
}

func TestStoreListDropsMalformedRecords(t *testing.T) {
	ctx := context.Background()
	docs := docstore.NewMemoryStore()
	store := New(docs, zap.NewNop())

	good := testOrder("ORD-1")
	_, err := store.Create(ctx, good)
	require.NoError(t, err)
	require.NoError(t, docs.Set(ctx, "orders/bad", map[string]interface{}{"order_number": "X"}))

	orders, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "ORD-1", orders[0].OrderNumber)
}

func TestStoreProjectionResnapshotsOnChange(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	docs := docstore.NewMemoryStore()
	store := New(docs, zap.NewNop())
	go store.Run(ctx)

	snapshots, unsubscribe := store.Subscribe(nil)
	defer unsubscribe()

	// First snapshot arrives immediately (possibly empty, before initial load).
	select {
	case <-snapshots:
	case <-time.After(time.Second):
		t.Fatal("no initial snapshot")
	}

	_, err := store.Create(ctx, testOrder("ORD-1"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(store.Snapshot(nil)) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// The subscriber sees a full replacement list, not a delta.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-snapshots:
			if len(snap) == 1 {
				assert.Equal(t, "ORD-1", snap[0].OrderNumber)
				return
			}
		case <-deadline:
			t.Fatal("subscriber never saw the new order")
		}
	}
}

func TestStoreSnapshotFilterByAssignment(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	docs := docstore.NewMemoryStore()
	store := New(docs, zap.NewNop())
	go store.Run(ctx)

	mine := testOrder("ORD-MINE")
	mine.Phlebotomist = []string{"u1"}
	_, err := store.Create(ctx, mine)
	require.NoError(t, err)

	other := testOrder("ORD-OTHER")
	other.Phlebotomist = []string{"u2"}
	other.Status = []entities.OrderStatus{
		{Status: constants.StatusInProgress, Timestamp: time.Unix(1700000100, 0).UTC()},
	}
	_, err = store.Create(ctx, other)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(store.Snapshot(nil)) == 2
	}, 2*time.Second, 10*time.Millisecond)

	filtered := store.Snapshot(&SnapshotFilter{PhlebotomistID: "u1"})
	require.Len(t, filtered, 1)
	assert.Equal(t, "ORD-MINE", filtered[0].OrderNumber)
}
