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
	"github.com/rs/zerolog/log"
)

// SentRepo is the dedup ledger: the persisted record of every notification
// already dispatched, keyed by (type, external_id).
// PK: type, SK: external_id.
//
// The conditional put in Record is the engine's sole mutual-exclusion
// mechanism. There is no lock service; when two runs race, the store rejects
// the second write and the loser skips.
type SentRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewSentRepo(client *dynamodb.Client, tableName string) *SentRepo {
	return &SentRepo{client: client, tableName: tableName}
}

// Record writes the ledger row exactly once. Returns domain.ErrDuplicate
// when the (type, external_id) pair already exists so callers can treat
// the race as a skip.
func (r *SentRepo) Record(ctx context.Context, s *domain.SentNotification) error {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal sent notification: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(external_id)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return fmt.Errorf("%s/%s: %w", s.Type, s.ExternalID, domain.ErrDuplicate)
		}
		return fmt.Errorf("record sent notification: %w", err)
	}
	return nil
}

// HasSent reports whether the logical event was already dispatched.
func (r *SentRepo) HasSent(ctx context.Context, typ domain.NotificationType, externalID string) (bool, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("type", string(typ), "external_id", externalID),
	})
	if err != nil {
		return false, err
	}
	return out.Item != nil, nil
}

// HasSentRecently reports whether any notification of the given type went
// out within the window. This is the blunt rate limiter: a burst of distinct
// qualifying events is still throttled to one dispatch per window.
func (r *SentRepo) HasSentRecently(ctx context.Context, typ domain.NotificationType, within time.Duration) (bool, error) {
	latest, err := r.latest(ctx, typ)
	if err != nil {
		return false, err
	}
	if latest == nil {
		return false, nil
	}
	return time.Since(latest.SentAt) < within, nil
}

// latest returns the most recent ledger row of the given type via the
// type-sent_at GSI, or nil when the type has no rows.
func (r *SentRepo) latest(ctx context.Context, typ domain.NotificationType) (*domain.SentNotification, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("type-sent_at-index"),
		KeyConditionExpression: aws.String("#t = :typ"),
		ExpressionAttributeNames: map[string]string{
			"#t": "type", // reserved word in DynamoDB expressions
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":typ": &types.AttributeValueMemberS{Value: string(typ)},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, nil
	}
	var s domain.SentNotification
	if err := attributevalue.UnmarshalMap(out.Items[0], &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// PurgeOlderThan deletes ledger rows of the given type older than the
// retention window. Best-effort: failures are logged and swallowed so a
// purge problem never fails the job run that triggered it.
func (r *SentRepo) PurgeOlderThan(ctx context.Context, typ domain.NotificationType, retention time.Duration) int {
	cutoff := time.Now().Add(-retention)
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("type-sent_at-index"),
		KeyConditionExpression: aws.String("#t = :typ"),
		ExpressionAttributeNames: map[string]string{
			"#t": "type",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":typ": &types.AttributeValueMemberS{Value: string(typ)},
		},
	})
	if err != nil {
		log.Warn().Err(err).Str("type", string(typ)).Msg("ledger purge query failed")
		return 0
	}
	var rows []domain.SentNotification
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &rows); err != nil {
		log.Warn().Err(err).Str("type", string(typ)).Msg("ledger purge unmarshal failed")
		return 0
	}
	purged := 0
	for _, row := range rows {
		if !row.SentAt.Before(cutoff) {
			continue
		}
		_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(r.tableName),
			Key:       compositeKey("type", string(row.Type), "external_id", row.ExternalID),
		})
		if err != nil {
			log.Warn().Err(err).Str("type", string(typ)).Str("external_id", row.ExternalID).
				Msg("ledger purge delete failed")
			continue
		}
		purged++
	}
	return purged
}
