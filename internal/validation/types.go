package validation

// UpdateStatusRequest is the payload for PUT /orders/:order_id/status.
// Transitions are unconstrained; any non-empty string is a valid status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
