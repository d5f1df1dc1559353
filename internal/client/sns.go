package client

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// NotificationSubject is the fixed subject line of published reports.
const NotificationSubject = "Lambda Errors/Exceptions Notification"

// SNSAPI is the subset of the SNS API we use.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Notifier publishes aggregated reports to a single SNS topic.
type Notifier struct {
	client   SNSAPI
	topicARN string
}

// NewNotifier loads default AWS configuration and returns a Notifier
// bound to the given topic.
func NewNotifier(ctx context.Context, topicARN string) (*Notifier, error) {
	if topicARN == "" {
		return nil, fmt.Errorf("topic ARN required")
	}
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return &Notifier{client: sns.NewFromConfig(cfg), topicARN: topicARN}, nil
}

// NewNotifierWithAPI wires an explicit API implementation; used by tests.
func NewNotifierWithAPI(api SNSAPI, topicARN string) *Notifier {
	return &Notifier{client: api, topicARN: topicARN}
}

// Publish sends the report body to the topic. Failures propagate to the
// caller: a detected problem that fails to notify must not be hidden.
func (n *Notifier) Publish(ctx context.Context, report string) error {
	_, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(NotificationSubject),
		Message:  aws.String(report),
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", n.topicARN, err)
	}
	return nil
}
