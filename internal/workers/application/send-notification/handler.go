package sendnotification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/google/uuid"

	apperrors "recruitment-portal/internal/common/errors"
	"recruitment-portal/internal/common/logger"
	"recruitment-portal/internal/common/metrics"
	"recruitment-portal/internal/models"
)

const (
	TaskType = "send-notification"

	smsCountryCode = "+91"
)

var (
	ErrNotificationSendFailed = errors.New("NOTIFICATION_SEND_FAILED")
)

// Handler renders and sends the confirmation for one application. Delivery
// failures are reported in the Output, never as an error.
type Handler struct {
	config *Config
	mailer Mailer
	sms    SNSService
	logger logger.Logger
}

// NewHandler takes a nil sms client when SMS is not configured.
func NewHandler(config *Config, mailer Mailer, sms SNSService, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		mailer: mailer,
		sms:    sms,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.Application == nil {
		return nil, fmt.Errorf("%w: no application given", ErrNotificationSendFailed)
	}
	app := input.Application

	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	out := &Output{
		NotificationID: uuid.New().String(),
		Status:         h.sendEmail(ctx, app),
		SentAt:         time.Now().UTC().Format(time.RFC3339),
	}
	if h.config.SMSEnabled && h.sms != nil {
		out.SMSStatus = h.sendSMS(ctx, app)
	}

	h.logger.Info("notification processed", map[string]interface{}{
		"notificationId": out.NotificationID,
		"applicationId":  app.ApplicationID,
		"status":         out.Status,
		"smsStatus":      out.SMSStatus,
	})
	return out, nil
}

func (h *Handler) sendEmail(ctx context.Context, app *models.Application) string {
	if !h.config.EmailEnabled || h.mailer == nil {
		metrics.NotificationsTotal.WithLabelValues(ChannelEmail, StatusDisabled).Inc()
		return StatusDisabled
	}

	msg, err := h.config.Render(app)
	if err == nil {
		err = h.mailer.Send(ctx, msg)
	}
	if err != nil {
		h.logger.Error("email send failed", map[string]interface{}{
			"error":         apperrors.NewNotificationSendFailedError(ChannelEmail, err),
			"applicationId": app.ApplicationID,
			"email":         app.Email,
		})
		metrics.NotificationsTotal.WithLabelValues(ChannelEmail, StatusFailed).Inc()
		return StatusFailed
	}

	metrics.NotificationsTotal.WithLabelValues(ChannelEmail, StatusSent).Inc()
	return StatusSent
}

func (h *Handler) sendSMS(ctx context.Context, app *models.Application) string {
	message := fmt.Sprintf("Hi %s, your Standards Club application %s has been received. Details were sent to %s.",
		app.Name, app.ApplicationID, app.Email)

	input := &sns.PublishInput{
		PhoneNumber: aws.String(smsCountryCode + app.Mobile),
		Message:     aws.String(message),
	}
	if h.config.SMSSenderID != "" {
		input.MessageAttributes = map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {DataType: aws.String("String"), StringValue: aws.String(h.config.SMSSenderID)},
		}
	}
	_, err := h.sms.Publish(ctx, input)
	if err != nil {
		h.logger.Error("SMS send failed", map[string]interface{}{
			"error":         apperrors.NewNotificationSendFailedError(ChannelSMS, err),
			"applicationId": app.ApplicationID,
		})
		metrics.NotificationsTotal.WithLabelValues(ChannelSMS, StatusFailed).Inc()
		return StatusFailed
	}

	metrics.NotificationsTotal.WithLabelValues(ChannelSMS, StatusSent).Inc()
	return StatusSent
}
