package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lab-courier/pkg/constants"
)

func minimalOrderDoc() map[string]interface{} {
	return map[string]interface{}{
		"order_number":             "ORD-1001",
		"patient_id":               "P-1",
		"patient_dob":              float64(315532800),
		"specimen_type":            "Blood",
		"test_name":                []interface{}{"CBC"},
		"order_date":               float64(1700000000),
		"billing_code":             "B-77",
		"insurance_provider":       "Acme Health",
		"referring_physician_name": "Dr. Reyes",
		"physician_address":        "12 Main St",
		"physician_city":           "Springfield",
		"physician_state":          "IL",
		"physician_zipcode":        "62701",
		"patient_name":             "Jo Smith",
		"patient_address":          "9 Oak Ave",
		"patient_city":             "Springfield",
		"patient_state":            "IL",
		"patient_zipcode":          "62702",
		"barcode":                  "1234567890",
	}
}

func TestOrderFromDocumentDefaults(t *testing.T) {
	order, err := OrderFromDocument("o1", minimalOrderDoc())
	require.NoError(t, err)

	assert.Equal(t, "o1", order.ID)
	assert.Equal(t, "ORD-1001", order.OrderNumber)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), order.OrderDate)

	// Optional fields come back as empty defaults, never nil.
	assert.Equal(t, "", order.PatientSSN)
	assert.NotNil(t, order.TestCode)
	assert.Empty(t, order.TestCode)
	assert.NotNil(t, order.Status)
	assert.Empty(t, order.Status)
	assert.False(t, order.PickupRequired)
	assert.Zero(t, order.Distance)
}

func TestOrderFromDocumentRejectsMissingRequired(t *testing.T) {
	for _, key := range []string{"order_number", "patient_dob", "test_name", "barcode"} {
		doc := minimalOrderDoc()
		delete(doc, key)

		_, err := OrderFromDocument("o1", doc)
		require.Error(t, err, "expected rejection without %s", key)
		assert.Contains(t, err.Error(), key)
	}
}

func TestOrderFromDocumentRejectsWrongType(t *testing.T) {
	doc := minimalOrderDoc()
	doc["order_number"] = float64(42)
	_, err := OrderFromDocument("o1", doc)
	require.Error(t, err)

	// A list with a single non-string element poisons the whole list.
	doc = minimalOrderDoc()
	doc["test_name"] = []interface{}{"CBC", float64(3)}
	_, err = OrderFromDocument("o1", doc)
	require.Error(t, err)
}

func TestOrderFromDocumentDropsMalformedSubEntries(t *testing.T) {
	doc := minimalOrderDoc()
	doc["status"] = []interface{}{
		map[string]interface{}{"status": constants.StatusInProgress, "timestamp": float64(1700000100)},
		map[string]interface{}{"status": constants.StatusCompleted}, // no timestamp
		map[string]interface{}{"timestamp": float64(1700000300)},    // no kind
		"not a map",
	}
	doc["collectionTubes"] = []interface{}{
		map[string]interface{}{"id": "t1", "name": "EDTA", "quantity": float64(2)},
		map[string]interface{}{"name": "SST", "quantity": float64(1)}, // no id
	}

	order, err := OrderFromDocument("o1", doc)
	require.NoError(t, err)
	require.Len(t, order.Status, 1)
	assert.Equal(t, constants.StatusInProgress, order.Status[0].Status)
	require.Len(t, order.CollectionTubes, 1)
	assert.Equal(t, "EDTA", order.CollectionTubes[0].Name)
}

func TestOrderDocumentRoundTrip(t *testing.T) {
	original := &Order{
		ID:                     "o1",
		OrderNumber:            "ORD-2002",
		PatientID:              "P-2",
		PatientDOB:             time.Unix(315532800, 0).UTC(),
		SpecimenType:           "Urine",
		TestName:               []string{"UA", "Culture"},
		OrderDate:              time.Unix(1700000000, 0).UTC(),
		BillingCode:            "B-1",
		InsuranceProvider:      "Acme Health",
		ReferringPhysicianName: "Dr. Chen",
		ReferringPhysicianID:   "doc-9",
		PhysicianAddress:       "1 Clinic Way",
		PhysicianCity:          "Dover",
		PhysicianState:         "DE",
		PhysicianZipcode:       "19901",
		PatientName:            "Sam Lee",
		PatientAddress:         "2 Pine Rd",
		PatientCity:            "Dover",
		PatientState:           "DE",
		PatientZipcode:         "19902",
		Barcode:                "987654",
		Phlebotomist:           []string{"u1"},
		Logistic:               []string{},
		Status: []OrderStatus{
			{Status: constants.StatusInProgress, Timestamp: time.Unix(1700000100, 0).UTC()},
			{Status: constants.StatusCompleted, Timestamp: time.Unix(1700007300, 0).UTC()},
		},
		Note: []OrderNote{
			NewOrderNote("gate code 4411", time.Unix(1700000200, 0).UTC()),
		},
		CollectionTubes: []CollectionTube{
			{ID: "t1", Name: "EDTA", Quantity: 2},
		},
		Distance: 3.25,
	}

	parsed, err := OrderFromDocument("o1", original.Document())
	require.NoError(t, err)

	assert.Equal(t, original.OrderNumber, parsed.OrderNumber)
	assert.Equal(t, original.PatientDOB, parsed.PatientDOB)
	assert.Equal(t, original.TestName, parsed.TestName)
	assert.Equal(t, original.ReferringPhysicianID, parsed.ReferringPhysicianID)
	assert.Equal(t, original.Phlebotomist, parsed.Phlebotomist)
	assert.Equal(t, original.Status, parsed.Status)
	assert.Equal(t, original.CollectionTubes, parsed.CollectionTubes)
	assert.Equal(t, original.Distance, parsed.Distance)

	// Note ids are local identity tokens regenerated on every parse; only
	// the content round-trips.
	require.Len(t, parsed.Note, 1)
	assert.Equal(t, original.Note[0].Note, parsed.Note[0].Note)
	assert.Equal(t, original.Note[0].Timestamp, parsed.Note[0].Timestamp)
	assert.NotEqual(t, original.Note[0].ID, parsed.Note[0].ID)

	// Optionals never serialized as null.
	assert.NotNil(t, parsed.TestCode)
	assert.NotNil(t, parsed.Requirements)
}

func TestCurrentStatusIsLastAppended(t *testing.T) {
	order := &Order{}
	assert.Equal(t, "", order.CurrentStatus())

	// An out-of-order timestamp does not matter; append order wins.
	order.Status = []OrderStatus{
		{Status: constants.StatusCompleted, Timestamp: time.Unix(1700007300, 0).UTC()},
		{Status: constants.StatusInProgress, Timestamp: time.Unix(1700000100, 0).UTC()},
	}
	assert.Equal(t, constants.StatusInProgress, order.CurrentStatus())
	assert.True(t, order.IsCompleted())
}

func TestFirstStatusTime(t *testing.T) {
	order := &Order{Status: []OrderStatus{
		{Status: constants.StatusInProgress, Timestamp: time.Unix(100, 0).UTC()},
		{Status: constants.StatusInProgress, Timestamp: time.Unix(200, 0).UTC()},
		{Status: constants.StatusCompleted, Timestamp: time.Unix(300, 0).UTC()},
	}}

	ts, ok := order.FirstStatusTime(constants.StatusInProgress)
	require.True(t, ok)
	assert.Equal(t, time.Unix(100, 0).UTC(), ts)

	_, ok = order.FirstStatusTime(constants.StatusFailed)
	assert.False(t, ok)
}
