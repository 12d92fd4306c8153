package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSPublisher is the minimal surface services depend on for topic fan-out.
type SNSPublisher interface {
	Publish(ctx context.Context, topicArn, eventName string, message []byte) error
}

type SNSClient struct {
	client *sns.Client
}

func NewSNSClient(cfg sdkaws.Config) *SNSClient {
	return &SNSClient{client: sns.NewFromConfig(cfg)}
}

// Publish sends message to topicArn. eventName is attached as the "event_name" message
// attribute so subscriptions can filter on it.
func (s *SNSClient) Publish(ctx context.Context, topicArn, eventName string, message []byte) error {
	if topicArn == "" {
		return fmt.Errorf("empty topicArn")
	}

	input := &sns.PublishInput{
		TopicArn: sdkaws.String(topicArn),
		Message:  sdkaws.String(string(message)),
	}
	if eventName != "" {
		input.MessageAttributes = map[string]types.MessageAttributeValue{
			"event_name": {DataType: sdkaws.String("String"), StringValue: sdkaws.String(eventName)},
		}
	}

	if _, err := s.client.Publish(ctx, input); err != nil {
		return fmt.Errorf("sns publish failed for topic %s: %w", topicArn, err)
	}
	return nil
}
