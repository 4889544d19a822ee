package requests

import (
	"context"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamoDB is an in-memory stand-in for the requests table, including
// the id counter item and the cpf index. Just enough of the expression
// language for the store's queries.
type mockDynamoDB struct {
	items   map[int64]map[string]types.AttributeValue
	seq     int64
	failErr error // returned by every call when set
}

func newMockDynamoDB() *mockDynamoDB {
	return &mockDynamoDB{items: map[int64]map[string]types.AttributeValue{}}
}

func (m *mockDynamoDB) putRecord(rec Record) {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		panic(err)
	}
	m.items[rec.ID] = item
}

func (m *mockDynamoDB) record(id int64) Record {
	var rec Record
	if err := attributevalue.UnmarshalMap(m.items[id], &rec); err != nil {
		panic(err)
	}
	return rec
}

func keyID(key map[string]types.AttributeValue) int64 {
	n := key["request_id"].(*types.AttributeValueMemberN)
	id, _ := strconv.ParseInt(n.Value, 10, 64)
	return id
}

func (m *mockDynamoDB) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	id := keyID(params.Item)
	if params.ConditionExpression != nil && strings.Contains(*params.ConditionExpression, "attribute_not_exists") {
		if _, exists := m.items[id]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	m.items[id] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamoDB) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	item, ok := m.items[keyID(params.Key)]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamoDB) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	id := keyID(params.Key)

	// Counter item: ADD seq :inc
	if strings.HasPrefix(*params.UpdateExpression, "ADD seq") {
		m.seq++
		return &dyn.UpdateItemOutput{
			Attributes: map[string]types.AttributeValue{
				"seq": &types.AttributeValueMemberN{Value: strconv.FormatInt(m.seq, 10)},
			},
		}, nil
	}

	item, exists := m.items[id]
	if params.ConditionExpression != nil && strings.Contains(*params.ConditionExpression, "attribute_exists") && !exists {
		return nil, &types.ConditionalCheckFailedException{}
	}

	// Apply the SET expression clause by clause.
	expr := strings.TrimPrefix(*params.UpdateExpression, "SET ")
	for _, clause := range strings.Split(expr, ",") {
		parts := strings.Split(strings.TrimSpace(clause), " = ")
		attr := parts[0]
		if replaced, ok := params.ExpressionAttributeNames[attr]; ok {
			attr = replaced
		}
		item[attr] = params.ExpressionAttributeValues[parts[1]]
	}
	m.items[id] = item
	return &dyn.UpdateItemOutput{}, nil
}

func (m *mockDynamoDB) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	cpf := params.ExpressionAttributeValues[":cpf"].(*types.AttributeValueMemberS).Value

	var matched []map[string]types.AttributeValue
	for id, item := range m.items {
		if id == counterKey {
			continue
		}
		itemCPF, ok := item["cpf"].(*types.AttributeValueMemberS)
		if !ok || itemCPF.Value != cpf {
			continue
		}
		if params.FilterExpression != nil {
			status := item["status"].(*types.AttributeValueMemberS).Value
			approved := params.ExpressionAttributeValues[":approved"].(*types.AttributeValueMemberS).Value
			opened := params.ExpressionAttributeValues[":opened"].(*types.AttributeValueMemberS).Value
			if status != approved && status != opened {
				continue
			}
		}
		matched = append(matched, item)
	}
	if params.Limit != nil && len(matched) > int(*params.Limit) {
		matched = matched[:*params.Limit]
	}
	return &dyn.QueryOutput{Items: matched}, nil
}
