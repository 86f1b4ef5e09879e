package main

// EventEnvelope is the wrapper EventBridge puts around each event when an
// SQS queue is the rule target.
type EventEnvelope struct {
	DetailType string      `json:"detail-type"`
	Source     string      `json:"source"`
	Detail     EventDetail `json:"detail"`
}

// EventDetail is the order lifecycle payload inside the envelope.
type EventDetail struct {
	OrderID   string `json:"order_id"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
