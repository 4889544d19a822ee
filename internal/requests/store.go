package requests

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/brbanco/go-account-opening/internal/aws"
)

// cpfIndexName is the GSI with hash key `cpf` and range key `created_at`.
// GetByCPF relies on the range key: ScanIndexForward=false returns the
// newest record first.
const cpfIndexName = "cpf-index"

// counterKey is the reserved item holding the id sequence. Real request
// ids start at 1.
const counterKey = 0

// ErrNotFound indicates the request id does not exist in the table.
var ErrNotFound = errors.New("request not found")

// Store encapsulates operations on the requests table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new requests Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// NextID allocates the next request id from the atomic counter item.
func (s *Store) NextID(ctx context.Context) (int64, error) {
	input := &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"request_id": &types.AttributeValueMemberN{Value: strconv.FormatInt(counterKey, 10)},
		},
		UpdateExpression: awsString("ADD seq :inc"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":inc": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	}
	out, err := s.client.UpdateItem(ctx, input)
	if err != nil {
		return 0, fmt.Errorf("increment id counter: %w", err)
	}
	seq, ok := out.Attributes["seq"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("id counter returned no seq attribute")
	}
	id, err := strconv.ParseInt(seq.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse id counter: %w", err)
	}
	return id, nil
}

// Create allocates an id and persists a new record with status INITIATED.
// The duplicate-cpf existence check belongs to the caller and runs before
// this; creation itself only guards against id collisions.
func (s *Store) Create(ctx context.Context, rec Record) (*Record, error) {
	id, err := s.NextID(ctx)
	if err != nil {
		return nil, err
	}

	now := s.nowFunc()
	rec.ID = id
	rec.Status = StatusInitiated
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if rec.Brand == "" {
		rec.Brand = DefaultBrand()
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}

	input := &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(request_id)"),
	}
	if _, err := s.client.PutItem(ctx, input); err != nil {
		return nil, fmt.Errorf("put record: %w", err)
	}
	return &rec, nil
}

// Get fetches a record by id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, id int64) (*Record, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"request_id": &types.AttributeValueMemberN{Value: strconv.FormatInt(id, 10)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var rec Record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return &rec, nil
}

// GetByCPF fetches the most recent record for a cpf via the cpf GSI.
// Returns (nil, nil) if none exists.
func (s *Store) GetByCPF(ctx context.Context, cpf string) (*Record, error) {
	limit := int32(1)
	forward := false
	out, err := s.client.Query(ctx, &dyn.QueryInput{
		TableName:              &s.tableName,
		IndexName:              awsString(cpfIndexName),
		KeyConditionExpression: awsString("cpf = :cpf"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cpf": &types.AttributeValueMemberS{Value: cpf},
		},
		ScanIndexForward: &forward,
		Limit:            &limit,
	})
	if err != nil {
		return nil, fmt.Errorf("query cpf index: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, nil
	}
	var rec Record
	if err := attributevalue.UnmarshalMap(out.Items[0], &rec); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return &rec, nil
}

// ExistsActiveByCPF reports whether the cpf already holds an account,
// i.e. any record in APPROVED or ACCOUNT_OPENED. This is the advisory
// check run before creation; a race window between check and create
// remains open.
func (s *Store) ExistsActiveByCPF(ctx context.Context, cpf string) (bool, error) {
	out, err := s.client.Query(ctx, &dyn.QueryInput{
		TableName:              &s.tableName,
		IndexName:              awsString(cpfIndexName),
		KeyConditionExpression: awsString("cpf = :cpf"),
		FilterExpression:       awsString("#s IN (:approved, :opened)"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cpf":      &types.AttributeValueMemberS{Value: cpf},
			":approved": &types.AttributeValueMemberS{Value: StatusApproved},
			":opened":   &types.AttributeValueMemberS{Value: StatusAccountOpened},
		},
	})
	if err != nil {
		return false, fmt.Errorf("query cpf index: %w", err)
	}
	return len(out.Items) > 0, nil
}

// UpdateStatus sets the record status unconditionally. The pipeline
// writes each stage's validating status before inspecting the verdict,
// so status reflects the last stage attempted, not the last one passed.
func (s *Store) UpdateStatus(ctx context.Context, id int64, status string) error {
	return s.update(ctx, id,
		"SET #s = :new, updated_at = :ua",
		map[string]string{"#s": "status"},
		map[string]types.AttributeValue{
			":new": &types.AttributeValueMemberS{Value: status},
		})
}

// Approve records the issued account number and moves the record to
// APPROVED. The ACCOUNT_OPENED transition follows as a separate write.
func (s *Store) Approve(ctx context.Context, id int64, accountNumber string) error {
	return s.update(ctx, id,
		"SET #s = :new, account_number = :an, updated_at = :ua",
		map[string]string{"#s": "status"},
		map[string]types.AttributeValue{
			":new": &types.AttributeValueMemberS{Value: StatusApproved},
			":an":  &types.AttributeValueMemberS{Value: accountNumber},
		})
}

// Reject writes the rejection reason and moves the record to REJECTED.
func (s *Store) Reject(ctx context.Context, id int64, reason string) error {
	return s.update(ctx, id,
		"SET #s = :new, rejection_reason = :rr, updated_at = :ua",
		map[string]string{"#s": "status"},
		map[string]types.AttributeValue{
			":new": &types.AttributeValueMemberS{Value: StatusRejected},
			":rr":  &types.AttributeValueMemberS{Value: reason},
		})
}

func (s *Store) update(ctx context.Context, id int64, expr string, names map[string]string, values map[string]types.AttributeValue) error {
	now := s.nowFunc()
	values[":ua"] = &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)}

	input := &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"request_id": &types.AttributeValueMemberN{Value: strconv.FormatInt(id, 10)},
		},
		UpdateExpression:          &expr,
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ConditionExpression:       awsString("attribute_exists(request_id)"),
	}
	if _, err := s.client.UpdateItem(ctx, input); err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ConditionalCheckFailedException" {
			return ErrNotFound
		}
		var cond *types.ConditionalCheckFailedException
		if errors.As(err, &cond) {
			return ErrNotFound
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
