package domain

import "time"

// Alert direction values.
const (
	DirectionAbove = "above"
	DirectionBelow = "below"
)

// PriceAlert is a user's standing instruction "notify me when symbol crosses
// target_price in direction". Mutated only by the price-alert job (trigger)
// or by the owner toggling active state; never auto-deleted.
type PriceAlert struct {
	AlertID     string     `json:"id" dynamodbav:"alert_id"`
	UserID      string     `json:"user_id" dynamodbav:"user_id"`
	Symbol      string     `json:"symbol" dynamodbav:"symbol"`
	TargetPrice float64    `json:"target_price" dynamodbav:"target_price"`
	Direction   string     `json:"direction" dynamodbav:"direction"` // "above" | "below"
	IsActive    int        `json:"is_active" dynamodbav:"is_active"` // 1 = active, 0 = inactive
	IsTriggered int        `json:"is_triggered" dynamodbav:"is_triggered"`
	TriggeredAt *time.Time `json:"triggered_at,omitempty" dynamodbav:"triggered_at"`
	CreatedAt   time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// Pending reports whether the alert is eligible for evaluation.
// A triggered alert is never re-evaluated until its owner reactivates it.
func (a *PriceAlert) Pending() bool {
	return a.IsActive == 1 && a.IsTriggered == 0
}

type CreateAlertRequest struct {
	UserID      string  `json:"user_id" validate:"required"`
	Symbol      string  `json:"symbol" validate:"required"`
	TargetPrice float64 `json:"target_price" validate:"required,gt=0"`
	Direction   string  `json:"direction" validate:"required,oneof=above below"`
}
