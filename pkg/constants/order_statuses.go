package constants

// Order status kinds as stored in the status history. These are the exact
// wire strings; an order with an empty history is implicitly new/unassigned.
const (
	StatusInProgress = "In-Progress"
	StatusCompleted  = "Completed"
	StatusFailed     = "Failed"
)

// Terminal statuses. Informational only: the status history is permissive
// and any kind may be appended from any prior state.
var FinalStatuses = []string{
	StatusCompleted,
	StatusFailed,
}

func IsFinalStatus(kind string) bool {
	for _, s := range FinalStatuses {
		if s == kind {
			return true
		}
	}
	return false
}
