package notify

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SMSSender publishes direct-to-phone SMS through Amazon SNS.
type SMSSender struct {
	Client SNSAPI
}

func NewSMSSender(cfg aws.Config) *SMSSender {
	return &SMSSender{Client: sns.NewFromConfig(cfg)}
}

func (s *SMSSender) Channel() string { return ChannelSMS }

// Send ignores the subject; SMS carries the body only.
func (s *SMSSender) Send(ctx context.Context, msg Message) error {
	_, err := s.Client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(msg.To),
		Message:     aws.String(msg.Body),
	})
	return err
}
