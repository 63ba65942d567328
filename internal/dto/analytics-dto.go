package dto

// ReportRangeRequest bounds an analytics query; dates are inclusive and use
// YYYY-MM-DD. The id/name filters are optional exact matches.
type ReportRangeRequest struct {
	From string `query:"from" validate:"required,datetime=2006-01-02"`
	To   string `query:"to" validate:"required,datetime=2006-01-02"`

	ReferringPhysicianID string `query:"referring_physician_id"`
	PhlebotomistID       string `query:"phlebotomist_id"`
	SalesName            string `query:"sales_name"`
}

type DayRequest struct {
	Date string `query:"date" validate:"omitempty,datetime=2006-01-02"`
}
