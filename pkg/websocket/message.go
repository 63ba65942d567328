package websocket

// Message is the envelope pushed to connected clients.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

const (
	TypeOrderAssigned = "order.assigned"
	TypeOrderUpdated  = "order.updated"
)
