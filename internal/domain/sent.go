package domain

import "time"

// NotificationType namespaces dedup keys in the sent-notifications table.
// Price alerts do not appear here: their idempotency lives on the
// PriceAlert row itself (is_triggered), not in the ledger.
type NotificationType string

const (
	TypeMarketMover NotificationType = "market_mover"
	TypeMarketNews  NotificationType = "market_news"
	TypeDailyRecap  NotificationType = "daily_recap"
)

// SentNotification records that one logical event has already been
// dispatched. The (type, external_id) pair is unique at the store level;
// rows are written exactly once and never updated.
type SentNotification struct {
	Type           NotificationType `json:"type" dynamodbav:"type"`
	ExternalID     string           `json:"external_id" dynamodbav:"external_id"`
	Title          string           `json:"title" dynamodbav:"title"`
	RecipientCount *int             `json:"recipient_count,omitempty" dynamodbav:"recipient_count"`
	DeliveryID     *string          `json:"delivery_id,omitempty" dynamodbav:"delivery_id"`
	SentAt         time.Time        `json:"sent_at" dynamodbav:"sent_at"`
}
