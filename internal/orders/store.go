package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"github.com/drkae456/highScalableAWSArchitecture/internal/aws"
)

// ErrNotFound indicates no item exists for the requested order id.
var ErrNotFound = errors.New("order not found")

// Store encapsulates operations on the orders table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
	idFunc    func() string
}

// NewStore creates a new orders Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
		idFunc:    uuid.NewString,
	}
}

// Create persists a new order. Caller-supplied fields are merged on top of
// the reserved attributes, mirroring how the record is read back later.
func (s *Store) Create(ctx context.Context, fields map[string]interface{}) (*CreateResult, error) {
	orderID := s.idFunc()
	timestamp := s.nowFunc().UTC().Format(time.RFC3339)

	item := map[string]interface{}{
		"pk":         PKPrefix + orderID,
		"sk":         SKPrefix + timestamp,
		"order_id":   orderID,
		"status":     StatusCreated,
		"created_at": timestamp,
	}
	for k, v := range fields {
		item[k] = v
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, fmt.Errorf("marshal order item: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      av,
	})
	if err != nil {
		return nil, fmt.Errorf("put item: %w", err)
	}

	return &CreateResult{
		OrderID:   orderID,
		Status:    StatusCreated,
		Timestamp: timestamp,
	}, nil
}

// Get fetches an order by order id. Returns ErrNotFound when the partition
// holds no items.
func (s *Store) Get(ctx context.Context, orderID string) (Item, error) {
	out, err := s.queryPartition(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, ErrNotFound
	}

	var item Item
	if err := attributevalue.UnmarshalMap(out.Items[0], &item); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return item, nil
}

// UpdateStatus sets a new status on the stored order. The existing item's
// sort key is resolved first so the update mutates the record instead of
// creating a sibling under a fresh timestamp. Returns the update timestamp.
func (s *Store) UpdateStatus(ctx context.Context, orderID, newStatus string) (string, error) {
	out, err := s.queryPartition(ctx, orderID)
	if err != nil {
		return "", err
	}
	if len(out.Items) == 0 {
		return "", ErrNotFound
	}
	sk, ok := out.Items[0]["sk"].(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("order %s: stored item missing sort key", orderID)
	}

	timestamp := s.nowFunc().UTC().Format(time.RFC3339)
	input := &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: PKPrefix + orderID},
			"sk": &types.AttributeValueMemberS{Value: sk.Value},
		},
		UpdateExpression:         awsString("SET #s = :status, updated_at = :ts"),
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: newStatus},
			":ts":     &types.AttributeValueMemberS{Value: timestamp},
		},
		// guard against the item vanishing between the query and the update
		ConditionExpression: awsString("attribute_exists(pk)"),
	}

	_, err = s.client.UpdateItem(ctx, input)
	if err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("update item: %w", err)
	}
	return timestamp, nil
}

// List returns every item in the table via a full scan. No pagination; the
// scan result is returned as-is.
func (s *Store) List(ctx context.Context) ([]Item, error) {
	out, err := s.client.Scan(ctx, &dyn.ScanInput{
		TableName: &s.tableName,
	})
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	items := make([]Item, 0, len(out.Items))
	for _, raw := range out.Items {
		var item Item
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("unmarshal order: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

// Ping probes table reachability for health checks.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dyn.DescribeTableInput{
		TableName: &s.tableName,
	})
	if err != nil {
		// surface the AWS error code when there is one, e.g. ResourceNotFoundException
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("describe table %s: %s: %s", s.tableName, apiErr.ErrorCode(), apiErr.ErrorMessage())
		}
		return fmt.Errorf("describe table: %w", err)
	}
	return nil
}

func (s *Store) queryPartition(ctx context.Context, orderID string) (*dyn.QueryOutput, error) {
	out, err := s.client.Query(ctx, &dyn.QueryInput{
		TableName:              &s.tableName,
		KeyConditionExpression: awsString("pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: PKPrefix + orderID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return out, nil
}

func awsString(s string) *string { return &s }
