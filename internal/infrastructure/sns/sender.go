package sns

import (
	"context"
	"fmt"
	"strconv"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/market-notify-api/internal/config"
)

// DeliveryResult is the push provider's acknowledgement of one broadcast.
type DeliveryResult struct {
	ID             string
	RecipientCount *int // nil when the provider does not report it
}

// PushSender broadcasts a notification to all subscribers.
// Delivery is best-effort, at-least-once to the provider.
type PushSender interface {
	Send(ctx context.Context, title, body string, payload map[string]string) (*DeliveryResult, error)
}

type sender struct {
	client   *sns.Client
	topicARN string
}

func NewSender(cfg *config.Config) (PushSender, error) {
	if cfg.SNSTopicARN == "" {
		return nil, fmt.Errorf("SNS_TOPIC_ARN not configured")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.SNSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &sender{client: sns.NewFromConfig(awsCfg), topicARN: cfg.SNSTopicARN}, nil
}

// Send publishes to the broadcast topic. The payload rides along as message
// attributes so the client application can deep-link without parsing the body.
func (s *sender) Send(ctx context.Context, title, body string, payload map[string]string) (*DeliveryResult, error) {
	attrs := make(map[string]types.MessageAttributeValue, len(payload))
	for k, v := range payload {
		attrs[k] = types.MessageAttributeValue{
			DataType:    strPtr("String"),
			StringValue: strPtr(v),
		}
	}
	out, err := s.client.Publish(ctx, &sns.PublishInput{
		TopicArn:          &s.topicARN,
		Subject:           &title,
		Message:           &body,
		MessageAttributes: attrs,
	})
	if err != nil {
		return nil, err
	}

	result := &DeliveryResult{}
	if out.MessageId != nil {
		result.ID = *out.MessageId
	}
	// Confirmed-subscription count is informational; a failure here must not
	// turn a successful publish into an error.
	if topicAttrs, err := s.client.GetTopicAttributes(ctx, &sns.GetTopicAttributesInput{TopicArn: &s.topicARN}); err == nil {
		if raw, ok := topicAttrs.Attributes["SubscriptionsConfirmed"]; ok {
			if n, err := strconv.Atoi(raw); err == nil {
				result.RecipientCount = &n
			}
		}
	}
	return result, nil
}

func strPtr(s string) *string { return &s }
