package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/market-notify-api/internal/domain"
)

// AlertRepo provides typed DynamoDB operations for the price_alerts table.
type AlertRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewAlertRepo(client *dynamodb.Client, tableName string) *AlertRepo {
	return &AlertRepo{client: client, tableName: tableName}
}

func (r *AlertRepo) Put(ctx context.Context, a *domain.PriceAlert) error {
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *AlertRepo) Get(ctx context.Context, alertID string) (*domain.PriceAlert, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("alert_id", alertID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("alert not found: %w", domain.ErrNotFound)
	}
	var a domain.PriceAlert
	if err := attributevalue.UnmarshalMap(out.Item, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListPending queries the is_active GSI and filters for is_triggered=0.
// Only these alerts are ever fetched for evaluation.
func (r *AlertRepo) ListPending(ctx context.Context) ([]domain.PriceAlert, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("is_active-index"),
		KeyConditionExpression: aws.String("is_active = :one"),
		FilterExpression:       aws.String("is_triggered = :zero"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one":  &types.AttributeValueMemberN{Value: "1"},
			":zero": &types.AttributeValueMemberN{Value: "0"},
		},
	})
	if err != nil {
		return nil, err
	}
	var alerts []domain.PriceAlert
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// ListByUser queries the user_id GSI.
func (r *AlertRepo) ListByUser(ctx context.Context, userID string) ([]domain.PriceAlert, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("user_id-index"),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, err
	}
	var alerts []domain.PriceAlert
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// MarkTriggered flips is_triggered atomically. The conditional expression
// makes the transition at-most-once: when a concurrent run already won the
// race this returns domain.ErrConflict and the caller skips the alert.
func (r *AlertRepo) MarkTriggered(ctx context.Context, alertID string, at time.Time) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("alert_id", alertID),
		ConditionExpression: aws.String("is_triggered = :zero"),
		UpdateExpression:    aws.String("SET is_triggered = :one, triggered_at = :at, updated_at = :at"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":zero": &types.AttributeValueMemberN{Value: "0"},
			":one":  &types.AttributeValueMemberN{Value: "1"},
			":at":   &types.AttributeValueMemberS{Value: at.UTC().Format(time.RFC3339Nano)},
		},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return fmt.Errorf("alert already triggered: %w", domain.ErrConflict)
		}
		return fmt.Errorf("mark triggered: %w", err)
	}
	return nil
}

// SetActive toggles an alert. Reactivating clears is_triggered and
// triggered_at so the alert becomes eligible for evaluation again.
func (r *AlertRepo) SetActive(ctx context.Context, alertID string, active bool) error {
	updates := map[string]interface{}{
		fieldIsActive:  boolToInt(active),
		fieldUpdatedAt: time.Now().UTC(),
	}
	if active {
		updates[fieldIsTriggered] = 0
		updates[fieldTriggeredAt] = nil
	}
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("alert_id", alertID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

func (r *AlertRepo) Delete(ctx context.Context, alertID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("alert_id", alertID),
	})
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
