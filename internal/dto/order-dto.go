package dto

import (
	"time"

	"lab-courier/internal/entities"
)

// Timestamps in requests travel as epoch seconds, matching the stored wire
// format.

type OrderRequest struct {
	OrderNumber string  `json:"order_number" validate:"required"`
	PatientID   string  `json:"patient_id" validate:"required"`
	PatientSSN  string  `json:"patient_ssn"`
	PatientDOB  float64 `json:"patient_dob" validate:"required"`

	PatientPhone     string `json:"patient_phone"`
	PatientEmail     string `json:"patient_email" validate:"omitempty,email"`
	SpecimenType     string `json:"specimen_type" validate:"required"`
	SpecimenSource   string `json:"specimen_source"`
	SpecimenComments string `json:"specimen_comments"`

	TestName []string `json:"test_name" validate:"required,min=1"`
	TestCode []string `json:"test_code"`

	OrderDate         float64 `json:"order_date" validate:"required"`
	BillingCode       string  `json:"billing_code" validate:"required"`
	InsuranceProvider string  `json:"insurance_provider" validate:"required"`

	InsuranceCardPicture []string `json:"insurance_card_picture"`

	ReferringPhysicianName string `json:"referring_physician_name" validate:"required"`
	ReferringPhysicianID   string `json:"referring_physician_id"`
	ReferringPhysicianNPI  string `json:"referring_physician_npi"`
	PhysicianPhone         string `json:"physician_phone"`
	PhysicianEmail         string `json:"physician_email" validate:"omitempty,email"`
	PhysicianAddress       string `json:"physician_address" validate:"required"`
	PhysicianAddress2      string `json:"physician_address2"`
	PhysicianCity          string `json:"physician_city" validate:"required"`
	PhysicianState         string `json:"physician_state" validate:"required"`
	PhysicianZipcode       string `json:"physician_zipcode" validate:"required"`

	PatientName      string `json:"patient_name" validate:"required"`
	PatientAddress   string `json:"patient_address" validate:"required"`
	PatientAddress2  string `json:"patient_address2"`
	PatientCity      string `json:"patient_city" validate:"required"`
	PatientState     string `json:"patient_state" validate:"required"`
	PatientZipcode   string `json:"patient_zipcode" validate:"required"`
	PatientGender    string `json:"patient_gender"`
	PatientEthnicity string `json:"patient_ethnicity"`

	CollectionDate float64 `json:"collection_date"`
	CollectionTime float64 `json:"collection_time"`

	Barcode string `json:"barcode" validate:"required"`

	Phlebotomist []string `json:"phlebotomist"`
	Logistic     []string `json:"logistic"`

	PickupRequired bool     `json:"pickup_required"`
	Attachment     string   `json:"attachment"`
	Picture        []string `json:"picture"`

	TestPriority string   `json:"test_priority"`
	TestComments string   `json:"test_comments"`
	Requirements []string `json:"requirements"`

	SalesID    string `json:"sales_id"`
	SalesName  string `json:"sales_name"`
	SalesEmail string `json:"sales_email" validate:"omitempty,email"`
	SalesPhone string `json:"sales_phone"`

	FacilityID   string `json:"facility_id"`
	FacilityNPI  string `json:"facility_npi"`
	FacilityName string `json:"facility_name"`

	ReferringPhysicianSignature string `json:"referring_physician_signature"`
}

func (r *OrderRequest) ToEntity() *entities.Order {
	return &entities.Order{
		OrderNumber:                 r.OrderNumber,
		PatientID:                   r.PatientID,
		PatientSSN:                  r.PatientSSN,
		PatientDOB:                  epochToTime(r.PatientDOB),
		PatientPhone:                r.PatientPhone,
		PatientEmail:                r.PatientEmail,
		SpecimenType:                r.SpecimenType,
		SpecimenSource:              r.SpecimenSource,
		SpecimenComments:            r.SpecimenComments,
		TestName:                    orEmpty(r.TestName),
		TestCode:                    orEmpty(r.TestCode),
		OrderDate:                   epochToTime(r.OrderDate),
		BillingCode:                 r.BillingCode,
		InsuranceProvider:           r.InsuranceProvider,
		InsuranceCardPicture:        orEmpty(r.InsuranceCardPicture),
		ReferringPhysicianName:      r.ReferringPhysicianName,
		ReferringPhysicianID:        r.ReferringPhysicianID,
		ReferringPhysicianNPI:       r.ReferringPhysicianNPI,
		PhysicianPhone:              r.PhysicianPhone,
		PhysicianEmail:              r.PhysicianEmail,
		PhysicianAddress:            r.PhysicianAddress,
		PhysicianAddress2:           r.PhysicianAddress2,
		PhysicianCity:               r.PhysicianCity,
		PhysicianState:              r.PhysicianState,
		PhysicianZipcode:            r.PhysicianZipcode,
		PatientName:                 r.PatientName,
		PatientAddress:              r.PatientAddress,
		PatientAddress2:             r.PatientAddress2,
		PatientCity:                 r.PatientCity,
		PatientState:                r.PatientState,
		PatientZipcode:              r.PatientZipcode,
		PatientGender:               r.PatientGender,
		PatientEthnicity:            r.PatientEthnicity,
		CollectionDate:              epochToTime(r.CollectionDate),
		CollectionTime:              epochToTime(r.CollectionTime),
		Barcode:                     r.Barcode,
		Phlebotomist:                orEmpty(r.Phlebotomist),
		Logistic:                    orEmpty(r.Logistic),
		Status:                      make([]entities.OrderStatus, 0),
		Note:                        make([]entities.OrderNote, 0),
		PickupRequired:              r.PickupRequired,
		Attachment:                  r.Attachment,
		Picture:                     orEmpty(r.Picture),
		TestPriority:                r.TestPriority,
		TestComments:                r.TestComments,
		Requirements:                orEmpty(r.Requirements),
		SalesID:                     r.SalesID,
		SalesName:                   r.SalesName,
		SalesEmail:                  r.SalesEmail,
		SalesPhone:                  r.SalesPhone,
		FacilityID:                  r.FacilityID,
		FacilityNPI:                 r.FacilityNPI,
		FacilityName:                r.FacilityName,
		ReferringPhysicianSignature: r.ReferringPhysicianSignature,
		CollectionTubes:             make([]entities.CollectionTube, 0),
	}
}

type AppendStatusRequest struct {
	Status    string  `json:"status" validate:"required"`
	Timestamp float64 `json:"timestamp"`
}

type AddNoteRequest struct {
	Note      string  `json:"note" validate:"required"`
	Timestamp float64 `json:"timestamp"`
}

type AssignOrderRequest struct {
	Phlebotomist []string `json:"phlebotomist" validate:"required"`
	Logistic     []string `json:"logistic"`
}

type FailOrderRequest struct {
	Note      string  `json:"note"`
	Timestamp float64 `json:"timestamp"`
}

// TubeRequest is one collection-tube line of a completion submission.
type TubeRequest struct {
	Name     string `json:"name" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

type CompleteOrderRequest struct {
	Note           string        `json:"note"`
	Tubes          []TubeRequest `json:"tubes" validate:"dive"`
	CollectionDate float64       `json:"collection_date"`
	CollectionTime float64       `json:"collection_time"`
	Timestamp      float64       `json:"timestamp"`
}

// RequestTime maps an optional epoch-seconds field to a time, defaulting to
// now.
func RequestTime(epoch float64) time.Time {
	if epoch == 0 {
		return time.Now().UTC()
	}
	return epochToTime(epoch)
}

// OptionalTime maps an optional epoch-seconds field to a time, zero when
// omitted.
func OptionalTime(epoch float64) time.Time {
	return epochToTime(epoch)
}

func epochToTime(seconds float64) time.Time {
	if seconds == 0 {
		return time.Time{}
	}
	return time.Unix(int64(seconds), 0).UTC()
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
