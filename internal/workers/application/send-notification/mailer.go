package sendnotification

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"recruitment-portal/internal/common/logger"
	"recruitment-portal/internal/models"
)

// Mailer delivers a rendered confirmation message.
type Mailer interface {
	Send(ctx context.Context, msg *models.ConfirmationMessage) error
}

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SESMailer struct {
	client SESService
}

func NewSESMailer(client SESService) *SESMailer {
	return &SESMailer{client: client}
}

func (m *SESMailer) Send(ctx context.Context, msg *models.ConfirmationMessage) error {
	dest := &types.Destination{ToAddresses: []string{msg.To}}
	if msg.CC != "" {
		dest.CcAddresses = []string{msg.CC}
	}

	_, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: dest,
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(msg.TextBody), Charset: aws.String("UTF-8")},
				Html: &types.Content{Data: aws.String(msg.HTMLBody), Charset: aws.String("UTF-8")},
			},
		},
		Source: aws.String(msg.From),
	})
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	return nil
}

// LogMailer writes the message to the log instead of sending it. Used in
// dev mode.
type LogMailer struct {
	logger logger.Logger
}

func NewLogMailer(log logger.Logger) *LogMailer {
	return &LogMailer{logger: log.WithFields(map[string]interface{}{"mailer": "log"})}
}

func (m *LogMailer) Send(_ context.Context, msg *models.ConfirmationMessage) error {
	m.logger.Info("confirmation email (not sent)", map[string]interface{}{
		"from":    msg.From,
		"to":      msg.To,
		"cc":      msg.CC,
		"subject": msg.Subject,
		"text":    msg.TextBody,
	})
	return nil
}
