package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"lab-courier/pkg/constants"
)

// Order is a single lab-test service request tracked from creation to
// completion or failure. Field names mirror the wire keys of the document
// store record.
type Order struct {
	ID string `json:"id"`

	OrderNumber string    `json:"order_number"`
	PatientID   string    `json:"patient_id"`
	PatientSSN  string    `json:"patient_ssn"`
	PatientDOB  time.Time `json:"patient_dob"`

	PatientPhone     string `json:"patient_phone"`
	PatientEmail     string `json:"patient_email"`
	SpecimenType     string `json:"specimen_type"`
	SpecimenSource   string `json:"specimen_source"`
	SpecimenComments string `json:"specimen_comments"`

	TestName []string `json:"test_name"`
	TestCode []string `json:"test_code"`

	OrderDate         time.Time `json:"order_date"`
	BillingCode       string    `json:"billing_code"`
	InsuranceProvider string    `json:"insurance_provider"`

	InsuranceCardPicture []string `json:"insurance_card_picture"`

	ReferringPhysicianName string `json:"referring_physician_name"`
	ReferringPhysicianID   string `json:"referring_physician_id"`
	ReferringPhysicianNPI  string `json:"referring_physician_npi"`
	PhysicianPhone         string `json:"physician_phone"`
	PhysicianEmail         string `json:"physician_email"`
	PhysicianAddress       string `json:"physician_address"`
	PhysicianAddress2      string `json:"physician_address2"`
	PhysicianCity          string `json:"physician_city"`
	PhysicianState         string `json:"physician_state"`
	PhysicianZipcode       string `json:"physician_zipcode"`

	PatientName      string `json:"patient_name"`
	PatientAddress   string `json:"patient_address"`
	PatientAddress2  string `json:"patient_address2"`
	PatientCity      string `json:"patient_city"`
	PatientState     string `json:"patient_state"`
	PatientZipcode   string `json:"patient_zipcode"`
	PatientGender    string `json:"patient_gender"`
	PatientEthnicity string `json:"patient_ethnicity"`

	CollectionDate time.Time `json:"collection_date"`
	CollectionTime time.Time `json:"collection_time"`

	Barcode string `json:"barcode"`

	// Assigned user ids. Reassignment replaces these lists wholesale,
	// unlike status/notes which only ever append.
	Phlebotomist []string `json:"phlebotomist"`
	Logistic     []string `json:"logistic"`

	// Append-only lifecycle history; the last entry is the current status.
	Status []OrderStatus `json:"status"`
	Note   []OrderNote   `json:"note"`

	PickupRequired bool     `json:"pickup_required"`
	Attachment     string   `json:"attachment"`
	Picture        []string `json:"picture"`

	TestPriority string   `json:"test_priority"`
	TestComments string   `json:"test_comments"`
	Requirements []string `json:"requirements"`

	SalesID    string `json:"sales_id"`
	SalesName  string `json:"sales_name"`
	SalesEmail string `json:"sales_email"`
	SalesPhone string `json:"sales_phone"`

	FacilityID   string `json:"facility_id"`
	FacilityNPI  string `json:"facility_npi"`
	FacilityName string `json:"facility_name"`

	ReferringPhysicianSignature string `json:"referring_physician_signature"`

	CollectionTubes []CollectionTube `json:"collectionTubes"`

	// Last computed travel distance in miles; overwritten whenever the
	// assigned phlebotomist's live coordinate and the geocoded physician
	// address are both available.
	Distance float64 `json:"distance"`
}

// OrderStatus is one immutable lifecycle entry.
type OrderStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderNote is a timestamped free-text note. The ID is a local identity
// token for list diffing; it is not serialized.
type OrderNote struct {
	ID        string    `json:"id"`
	Note      string    `json:"note"`
	Timestamp time.Time `json:"timestamp"`
}

func NewOrderNote(note string, ts time.Time) OrderNote {
	return OrderNote{ID: uuid.New().String(), Note: note, Timestamp: ts}
}

// CollectionTube is one inventory line: tube name plus quantity used.
type CollectionTube struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

func NewCollectionTube(name string, quantity int) CollectionTube {
	return CollectionTube{ID: uuid.New().String(), Name: name, Quantity: quantity}
}

// CurrentStatus is the kind of the last appended entry, never the
// max-timestamp entry; out-of-order appends keep their append order. Empty
// history means new/unassigned.
func (o *Order) CurrentStatus() string {
	if len(o.Status) == 0 {
		return ""
	}
	return o.Status[len(o.Status)-1].Status
}

// IsCompleted reports whether ANY history entry is Completed, regardless of
// what was appended afterwards.
func (o *Order) IsCompleted() bool {
	for _, s := range o.Status {
		if s.Status == constants.StatusCompleted {
			return true
		}
	}
	return false
}

// IsAssignedTo reports whether the user is on the phlebotomist list.
func (o *Order) IsAssignedTo(userID string) bool {
	for _, id := range o.Phlebotomist {
		if id == userID {
			return true
		}
	}
	return false
}

// FirstStatusTime returns the timestamp of the first entry of the given
// kind in append order.
func (o *Order) FirstStatusTime(kind string) (time.Time, bool) {
	for _, s := range o.Status {
		if s.Status == kind {
			return s.Timestamp, true
		}
	}
	return time.Time{}, false
}

// Document serializes the full record for the document store. Absent
// optional values are written as their empty defaults so a round trip
// always yields "" / [] / false / 0, never null.
func (o *Order) Document() map[string]interface{} {
	statusList := make([]interface{}, 0, len(o.Status))
	for _, s := range o.Status {
		statusList = append(statusList, map[string]interface{}{
			"status":    s.Status,
			"timestamp": timeToEpoch(s.Timestamp),
		})
	}

	noteList := make([]interface{}, 0, len(o.Note))
	for _, n := range o.Note {
		noteList = append(noteList, map[string]interface{}{
			"note":      n.Note,
			"timestamp": timeToEpoch(n.Timestamp),
		})
	}

	tubeList := make([]interface{}, 0, len(o.CollectionTubes))
	for _, t := range o.CollectionTubes {
		tubeList = append(tubeList, map[string]interface{}{
			"id":       t.ID,
			"name":     t.Name,
			"quantity": float64(t.Quantity),
		})
	}

	return map[string]interface{}{
		"order_number":                  o.OrderNumber,
		"patient_id":                    o.PatientID,
		"patient_ssn":                   o.PatientSSN,
		"patient_dob":                   timeToEpoch(o.PatientDOB),
		"patient_phone":                 o.PatientPhone,
		"patient_email":                 o.PatientEmail,
		"specimen_type":                 o.SpecimenType,
		"specimen_source":               o.SpecimenSource,
		"specimen_comments":             o.SpecimenComments,
		"test_name":                     stringsToList(o.TestName),
		"test_code":                     stringsToList(o.TestCode),
		"order_date":                    timeToEpoch(o.OrderDate),
		"billing_code":                  o.BillingCode,
		"insurance_provider":            o.InsuranceProvider,
		"insurance_card_picture":        stringsToList(o.InsuranceCardPicture),
		"referring_physician_name":      o.ReferringPhysicianName,
		"referring_physician_id":        o.ReferringPhysicianID,
		"referring_physician_npi":       o.ReferringPhysicianNPI,
		"physician_phone":               o.PhysicianPhone,
		"physician_email":               o.PhysicianEmail,
		"physician_address":             o.PhysicianAddress,
		"physician_address2":            o.PhysicianAddress2,
		"physician_city":                o.PhysicianCity,
		"physician_state":               o.PhysicianState,
		"physician_zipcode":             o.PhysicianZipcode,
		"patient_name":                  o.PatientName,
		"patient_address":               o.PatientAddress,
		"patient_address2":              o.PatientAddress2,
		"patient_city":                  o.PatientCity,
		"patient_state":                 o.PatientState,
		"patient_zipcode":               o.PatientZipcode,
		"patient_gender":                o.PatientGender,
		"patient_ethnicity":             o.PatientEthnicity,
		"collection_date":               timeToEpoch(o.CollectionDate),
		"collection_time":               timeToEpoch(o.CollectionTime),
		"barcode":                       o.Barcode,
		"phlebotomist":                  stringsToList(o.Phlebotomist),
		"logistic":                      stringsToList(o.Logistic),
		"status":                        statusList,
		"note":                          noteList,
		"pickup_required":               o.PickupRequired,
		"attachment":                    o.Attachment,
		"picture":                       stringsToList(o.Picture),
		"test_priority":                 o.TestPriority,
		"test_comments":                 o.TestComments,
		"requirements":                  stringsToList(o.Requirements),
		"sales_id":                      o.SalesID,
		"sales_name":                    o.SalesName,
		"sales_email":                   o.SalesEmail,
		"sales_phone":                   o.SalesPhone,
		"facility_id":                   o.FacilityID,
		"facility_npi":                  o.FacilityNPI,
		"facility_name":                 o.FacilityName,
		"referring_physician_signature": o.ReferringPhysicianSignature,
		"collectionTubes":               tubeList,
		"distance":                      o.Distance,
	}
}

// OrderFromDocument parses a raw record. Every required field must be
// present with the expected primitive type; otherwise the whole record is
// rejected and the caller decides to drop it (collection reads skip the
// record, they never abort).
func OrderFromDocument(id string, data map[string]interface{}) (*Order, error) {
	o := &Order{ID: id}

	var err error
	required := []struct {
		key string
		dst *string
	}{
		{"order_number", &o.OrderNumber},
		{"patient_id", &o.PatientID},
		{"specimen_type", &o.SpecimenType},
		{"billing_code", &o.BillingCode},
		{"insurance_provider", &o.InsuranceProvider},
		{"referring_physician_name", &o.ReferringPhysicianName},
		{"physician_address", &o.PhysicianAddress},
		{"physician_city", &o.PhysicianCity},
		{"physician_state", &o.PhysicianState},
		{"physician_zipcode", &o.PhysicianZipcode},
		{"patient_name", &o.PatientName},
		{"patient_address", &o.PatientAddress},
		{"patient_city", &o.PatientCity},
		{"patient_state", &o.PatientState},
		{"patient_zipcode", &o.PatientZipcode},
		{"barcode", &o.Barcode},
	}
	for _, f := range required {
		if *f.dst, err = reqString(data, f.key); err != nil {
			return nil, fmt.Errorf("order %s: %w", id, err)
		}
	}

	dob, err := reqNumber(data, "patient_dob")
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", id, err)
	}
	o.PatientDOB = epochToTime(dob)

	orderDate, err := reqNumber(data, "order_date")
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", id, err)
	}
	o.OrderDate = epochToTime(orderDate)

	if o.TestName, err = reqStringSlice(data, "test_name"); err != nil {
		return nil, fmt.Errorf("order %s: %w", id, err)
	}

	o.PatientSSN = optString(data, "patient_ssn")
	o.PatientPhone = optString(data, "patient_phone")
	o.PatientEmail = optString(data, "patient_email")
	o.SpecimenSource = optString(data, "specimen_source")
	o.SpecimenComments = optString(data, "specimen_comments")
	o.TestCode = optStringSlice(data, "test_code")
	o.InsuranceCardPicture = optStringSlice(data, "insurance_card_picture")
	o.ReferringPhysicianID = optString(data, "referring_physician_id")
	o.ReferringPhysicianNPI = optString(data, "referring_physician_npi")
	o.PhysicianPhone = optString(data, "physician_phone")
	o.PhysicianEmail = optString(data, "physician_email")
	o.PhysicianAddress2 = optString(data, "physician_address2")
	o.PatientAddress2 = optString(data, "patient_address2")
	o.PatientGender = optString(data, "patient_gender")
	o.PatientEthnicity = optString(data, "patient_ethnicity")
	o.CollectionDate = epochToTime(optNumber(data, "collection_date"))
	o.CollectionTime = epochToTime(optNumber(data, "collection_time"))
	o.Phlebotomist = optStringSlice(data, "phlebotomist")
	o.Logistic = optStringSlice(data, "logistic")
	o.PickupRequired = optBool(data, "pickup_required")
	o.Attachment = optString(data, "attachment")
	o.Picture = optStringSlice(data, "picture")
	o.TestPriority = optString(data, "test_priority")
	o.TestComments = optString(data, "test_comments")
	o.Requirements = optStringSlice(data, "requirements")
	o.SalesID = optString(data, "sales_id")
	o.SalesName = optString(data, "sales_name")
	o.SalesEmail = optString(data, "sales_email")
	o.SalesPhone = optString(data, "sales_phone")
	o.FacilityID = optString(data, "facility_id")
	o.FacilityNPI = optString(data, "facility_npi")
	o.FacilityName = optString(data, "facility_name")
	o.ReferringPhysicianSignature = optString(data, "referring_physician_signature")
	o.Distance = optNumber(data, "distance")

	// Malformed sub-entries are dropped individually; they never reject
	// the order itself.
	o.Status = make([]OrderStatus, 0)
	for _, raw := range mapSlice(data["status"]) {
		kind, ok := raw["status"].(string)
		if !ok {
			continue
		}
		ts, ok := raw["timestamp"].(float64)
		if !ok {
			continue
		}
		o.Status = append(o.Status, OrderStatus{Status: kind, Timestamp: epochToTime(ts)})
	}

	o.Note = make([]OrderNote, 0)
	for _, raw := range mapSlice(data["note"]) {
		text, ok := raw["note"].(string)
		if !ok {
			continue
		}
		ts, ok := raw["timestamp"].(float64)
		if !ok {
			continue
		}
		o.Note = append(o.Note, NewOrderNote(text, epochToTime(ts)))
	}

	o.CollectionTubes = make([]CollectionTube, 0)
	for _, raw := range mapSlice(data["collectionTubes"]) {
		tubeID, ok := raw["id"].(string)
		if !ok {
			continue
		}
		name, ok := raw["name"].(string)
		if !ok {
			continue
		}
		quantity, ok := raw["quantity"].(float64)
		if !ok {
			continue
		}
		o.CollectionTubes = append(o.CollectionTubes, CollectionTube{ID: tubeID, Name: name, Quantity: int(quantity)})
	}

	return o, nil
}

func stringsToList(values []string) []interface{} {
	out := make([]interface{}, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}
