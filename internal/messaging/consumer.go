package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"

	"recruitment-portal/internal/common/logger"
	sendnotification "recruitment-portal/internal/workers/application/send-notification"
)

// Consumer feeds events from the notification subject into the send handler.
// Consumers sharing a queue group split the work between them.
type Consumer struct {
	conn    *nats.Conn
	sub     *nats.Subscription
	subject string
	queue   string
	handler sendnotification.Executor
	timeout time.Duration
	logger  logger.Logger
}

func NewConsumer(conn *nats.Conn, subject, queue string, handler sendnotification.Executor, log logger.Logger) *Consumer {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Consumer{
		conn:    conn,
		subject: subject,
		queue:   queue,
		handler: handler,
		timeout: time.Minute,
		logger:  logger.ForComponent(log, "nats-consumer"),
	}
}

// Subscribe registers the queue subscription. Start calls it when needed.
func (c *Consumer) Subscribe() error {
	if c.sub != nil {
		return nil
	}
	sub, err := c.conn.QueueSubscribe(c.subject, c.queue, func(msg *nats.Msg) {
		c.handle(msg.Data)
	})
	if err != nil {
		return err
	}
	c.sub = sub
	c.logger.Info("NATS consumer started", map[string]interface{}{
		"subject": c.subject,
		"queue":   c.queue,
	})
	return nil
}

// Start subscribes and blocks until ctx is done.
func (c *Consumer) Start(ctx context.Context) error {
	if err := c.Subscribe(); err != nil {
		return err
	}

	<-ctx.Done()
	if err := c.sub.Drain(); err != nil {
		c.logger.Warn("drain subscription failed", map[string]interface{}{"error": err})
	}
	return nil
}

func (c *Consumer) handle(data []byte) {
	var event NotificationEvent
	if err := json.Unmarshal(data, &event); err != nil || event.Application == nil {
		c.logger.Error("failed to unmarshal notification event", map[string]interface{}{"error": err})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	out, err := c.handler.Execute(ctx, &sendnotification.Input{Application: event.Application})
	if err != nil {
		c.logger.Error("notification failed", map[string]interface{}{
			"error":         err,
			"applicationId": event.Application.ApplicationID,
		})
		return
	}
	c.logger.Debug("notification handled", map[string]interface{}{
		"applicationId": event.Application.ApplicationID,
		"status":        out.Status,
	})
}

// HealthCheck verifies the NATS connection is up.
func (c *Consumer) HealthCheck() error {
	if c.conn == nil {
		return nats.ErrConnectionClosed
	}
	if !c.conn.IsConnected() {
		return nats.ErrDisconnected
	}
	return nil
}

func (c *Consumer) Close() error {
	if c.sub != nil && c.sub.IsValid() {
		_ = c.sub.Unsubscribe()
	}
	return nil
}
