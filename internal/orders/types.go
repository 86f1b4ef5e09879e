package orders

// Key prefixes for the composite addressing scheme in the orders table.
const (
	PKPrefix = "ORDER#"
	SKPrefix = "METADATA#"
)

// StatusCreated is the status every new order starts with. Later transitions
// are free-form strings supplied by the caller.
const StatusCreated = "created"

// Item is a stored order record. Orders carry arbitrary caller-supplied
// fields on top of the reserved attributes, so the natural representation is
// a free-form map rather than a fixed struct.
type Item map[string]interface{}

// CreateResult is what Create hands back to the HTTP layer.
type CreateResult struct {
	OrderID   string `json:"order_id"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
