// Package aws wraps the SES and SNS clients used for confirmations.
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// Clients is built once at startup. A nil field means that channel is off.
type Clients struct {
	SES *SESClient
	SNS *SNSClient
}

// New resolves credentials the standard way (env, shared config, role) and
// builds only the clients that were asked for.
func New(ctx context.Context, region string, withSES, withSNS bool) (*Clients, error) {
	c := &Clients{}
	if !withSES && !withSNS {
		return c, nil
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if withSES {
		c.SES = NewSESClient(cfg)
	}
	if withSNS {
		c.SNS = NewSNSClient(cfg)
	}
	return c, nil
}

type SESClient struct {
	client *ses.Client
}

func NewSESClient(cfg aws.Config) *SESClient {
	return &SESClient{client: ses.NewFromConfig(cfg)}
}

func (s *SESClient) SendEmail(ctx context.Context, input *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return s.client.SendEmail(ctx, input, optFns...)
}

// SNSClient sends applicant SMS directly to phone numbers, not topics.
type SNSClient struct {
	client *sns.Client
}

func NewSNSClient(cfg aws.Config) *SNSClient {
	return &SNSClient{client: sns.NewFromConfig(cfg)}
}

func (s *SNSClient) Publish(ctx context.Context, input *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return s.client.Publish(ctx, input, optFns...)
}
