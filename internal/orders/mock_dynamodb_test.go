package orders

import (
	"context"
	"errors"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo is a small in-memory mock for the DynamoDB calls the orders
// store makes. Items are keyed pk -> sk -> attribute map.
// NOTE: intentionally minimal, not production-grade.
type mockDynamo struct {
	mu    sync.Mutex
	items map[string]map[string]map[string]types.AttributeValue

	describeErr error

	putCalls      int
	queryCalls    int
	updateCalls   int
	scanCalls     int
	describeCalls int
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{
		items: map[string]map[string]map[string]types.AttributeValue{},
	}
}

func (m *mockDynamo) insert(item map[string]types.AttributeValue) error {
	pkAttr, ok := item["pk"].(*types.AttributeValueMemberS)
	if !ok {
		return errors.New("missing pk")
	}
	skAttr, ok := item["sk"].(*types.AttributeValueMemberS)
	if !ok {
		return errors.New("missing sk")
	}
	if _, ok := m.items[pkAttr.Value]; !ok {
		m.items[pkAttr.Value] = map[string]map[string]types.AttributeValue{}
	}
	m.items[pkAttr.Value][skAttr.Value] = item
	return nil
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putCalls++
	if err := m.insert(params.Item); err != nil {
		return nil, err
	}
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryCalls++
	// only the "pk = :pk" shape is supported
	if params.KeyConditionExpression == nil || *params.KeyConditionExpression != "pk = :pk" {
		return nil, errors.New("unsupported key condition")
	}
	pkAttr, ok := params.ExpressionAttributeValues[":pk"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("missing :pk value")
	}
	out := &dyn.QueryOutput{}
	for _, item := range m.items[pkAttr.Value] {
		out.Items = append(out.Items, item)
	}
	out.Count = int32(len(out.Items))
	return out, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	pkAttr, ok := params.Key["pk"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("missing pk key")
	}
	skAttr, ok := params.Key["sk"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("missing sk key")
	}
	item, exists := m.items[pkAttr.Value][skAttr.Value]
	if !exists {
		if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_exists(pk)" {
			return nil, &types.ConditionalCheckFailedException{}
		}
		// without the guard DynamoDB would upsert a fresh item here
		item = map[string]types.AttributeValue{"pk": pkAttr, "sk": skAttr}
		if _, ok := m.items[pkAttr.Value]; !ok {
			m.items[pkAttr.Value] = map[string]map[string]types.AttributeValue{}
		}
		m.items[pkAttr.Value][skAttr.Value] = item
	}
	// naive apply for "SET #s = :status, updated_at = :ts"
	if v, ok := params.ExpressionAttributeValues[":status"]; ok {
		item["status"] = v
	}
	if v, ok := params.ExpressionAttributeValues[":ts"]; ok {
		item["updated_at"] = v
	}
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (m *mockDynamo) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scanCalls++
	out := &dyn.ScanOutput{}
	for _, partition := range m.items {
		for _, item := range partition {
			out.Items = append(out.Items, item)
		}
	}
	out.Count = int32(len(out.Items))
	return out, nil
}

func (m *mockDynamo) DescribeTable(ctx context.Context, params *dyn.DescribeTableInput, optFns ...func(*dyn.Options)) (*dyn.DescribeTableOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.describeCalls++
	if m.describeErr != nil {
		return nil, m.describeErr
	}
	return &dyn.DescribeTableOutput{
		Table: &types.TableDescription{TableName: params.TableName},
	}, nil
}
