package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ariefcatur/go-shop/internal/inventory"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/rs/zerolog/log"
)

const EventLowStock = "LowStock"

// snsAPI is the part of *sns.Client the notifier uses.
type snsAPI interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSNotifier struct {
	client   snsAPI
	topicARN string
}

func NewSNSNotifier(ctx context.Context, topicARN string) (*SNSNotifier, error) {
	if topicARN == "" {
		return nil, fmt.Errorf("empty topic arn")
	}
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SNSNotifier{client: sns.NewFromConfig(cfg), topicARN: topicARN}, nil
}

func (n *SNSNotifier) NotifyLowStock(ctx context.Context, s inventory.Summary) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal low stock message: %w", err)
	}
	_, err = n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(fmt.Sprintf("Restock %s", s.ProductName)),
		Message:  aws.String(string(b)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {DataType: aws.String("String"), StringValue: aws.String(EventLowStock)},
			"seller_id":  {DataType: aws.String("Number"), StringValue: aws.String(strconv.FormatInt(s.SellerID, 10))},
		},
	})
	if err != nil {
		return fmt.Errorf("sns publish to %s: %w", n.topicARN, err)
	}
	return nil
}

// LogNotifier only logs; used when no topic is configured.
type LogNotifier struct{}

func (LogNotifier) NotifyLowStock(_ context.Context, s inventory.Summary) error {
	log.Warn().Int64("seller_id", s.SellerID).Int64("product_id", s.ProductID).
		Int("quantity", s.CurrentQuantity).Int("threshold", s.Threshold).
		Int("restock", s.QuantityToRestock).Msg("low stock")
	return nil
}
