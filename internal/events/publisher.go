package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	ebtypes "github.com/aws/aws-sdk-go-v2/service/eventbridge/types"

	internalaws "github.com/drkae456/highScalableAWSArchitecture/internal/aws"
)

// Source identifies this service on the event bus.
const Source = "myapp.orders"

// Detail types for order lifecycle events.
const (
	DetailTypeOrderCreated  = "Order Created"
	DetailTypeStatusUpdated = "Order Status Updated"
)

// OrderEvent is the detail payload published for each lifecycle transition.
// Events are fire-and-forget; nothing in this service consumes them back.
type OrderEvent struct {
	OrderID   string `json:"order_id"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Publisher wraps an EventBridge client and a bus name.
type Publisher struct {
	client  internalaws.EventBridgeAPI
	busName string
}

// NewPublisher returns a Publisher bound to an event bus.
func NewPublisher(client internalaws.EventBridgeAPI, busName string) *Publisher {
	return &Publisher{
		client:  client,
		busName: busName,
	}
}

// PublishOrderEvent sends a single lifecycle event to the bus.
func (p *Publisher) PublishOrderEvent(ctx context.Context, detailType string, ev OrderEvent) error {
	detail, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event detail: %w", err)
	}

	input := &eventbridge.PutEventsInput{
		Entries: []ebtypes.PutEventsRequestEntry{
			{
				Source:       awsString(Source),
				DetailType:   &detailType,
				Detail:       awsString(string(detail)),
				EventBusName: &p.busName,
			},
		},
	}

	out, err := p.client.PutEvents(ctx, input)
	if err != nil {
		return fmt.Errorf("put events: %w", err)
	}
	// PutEvents reports per-entry failures without an error return.
	if out.FailedEntryCount > 0 {
		e := out.Entries[0]
		code, msg := "", ""
		if e.ErrorCode != nil {
			code = *e.ErrorCode
		}
		if e.ErrorMessage != nil {
			msg = *e.ErrorMessage
		}
		return fmt.Errorf("put events entry failed: %s: %s", code, msg)
	}
	return nil
}

// awsString helper
func awsString(s string) *string { return &s }
