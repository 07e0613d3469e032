package dynamo

// DynamoDB attribute names used in update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldIsActive    = "is_active"
	fieldIsTriggered = "is_triggered"
	fieldTriggeredAt = "triggered_at"
	fieldReaded      = "readed"
	fieldUpdatedAt   = "updated_at"
)
