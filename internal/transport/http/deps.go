package http

import (
	"github.com/market-notify-api/internal/infrastructure/dynamo"
	"github.com/market-notify-api/internal/infrastructure/marketdata"
	"github.com/market-notify-api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	AlertRepo        *dynamo.AlertRepo
	NotificationRepo *dynamo.NotificationRepo
	SentRepo         *dynamo.SentRepo
	MarketClient     *marketdata.Client
	Push             sns.PushSender
}
