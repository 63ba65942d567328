package entities

import "fmt"

// Rule maps referring physicians to a default phlebotomist assignment.
// A rule may list several physician ids but designates exactly one
// phlebotomist. Rules are independent of each other; matching is
// first-match-wins in store iteration order.
type Rule struct {
	ID                   string   `json:"id"`
	ReferringPhysicianID []string `json:"referring_physician_id"`
	PhlebotomistID       string   `json:"phlebotomistId"`
	IsActive             bool     `json:"isActive"`
}

// Matches reports whether the rule is active and covers the physician.
func (r *Rule) Matches(physicianID string) bool {
	if !r.IsActive {
		return false
	}
	for _, id := range r.ReferringPhysicianID {
		if id == physicianID {
			return true
		}
	}
	return false
}

func (r *Rule) Document() map[string]interface{} {
	return map[string]interface{}{
		"referring_physician_id": stringsToList(r.ReferringPhysicianID),
		"phlebotomistId":         r.PhlebotomistID,
		"isActive":               r.IsActive,
	}
}

// RuleFromDocument parses a raw rule record; all three fields are required.
func RuleFromDocument(id string, data map[string]interface{}) (*Rule, error) {
	physicians, ok := toStringSlice(data["referring_physician_id"])
	if !ok {
		return nil, fmt.Errorf("rule %s: missing or invalid field %q", id, "referring_physician_id")
	}
	phlebotomistID, ok := data["phlebotomistId"].(string)
	if !ok {
		return nil, fmt.Errorf("rule %s: missing or invalid field %q", id, "phlebotomistId")
	}
	isActive, ok := data["isActive"].(bool)
	if !ok {
		return nil, fmt.Errorf("rule %s: missing or invalid field %q", id, "isActive")
	}

	return &Rule{
		ID:                   id,
		ReferringPhysicianID: physicians,
		PhlebotomistID:       phlebotomistID,
		IsActive:             isActive,
	}, nil
}
