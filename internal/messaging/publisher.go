package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"recruitment-portal/internal/common/logger"
	"recruitment-portal/internal/common/metrics"
	"recruitment-portal/internal/models"
)

const DefaultSubject = "recruitment.applications.submitted"

// NotificationEvent is the payload published for each stored application.
type NotificationEvent struct {
	Application *models.Application `json:"application"`
	EnqueuedAt  time.Time           `json:"enqueuedAt"`
}

// Publisher sends stored applications to the notification subject. It
// satisfies the notification Dispatcher interface.
type Publisher struct {
	conn    *nats.Conn
	subject string
	logger  logger.Logger
}

func Connect(url string, log logger.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("recruitment-portal"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", map[string]interface{}{"error": err})
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("NATS reconnected", map[string]interface{}{"url": c.ConnectedUrl()})
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return nc, nil
}

func NewPublisher(conn *nats.Conn, subject string, log logger.Logger) *Publisher {
	if subject == "" {
		subject = DefaultSubject
	}
	log = logger.ForComponent(log, "nats-publisher")
	log.Info("NATS publisher initialized", map[string]interface{}{"subject": subject})
	return &Publisher{conn: conn, subject: subject, logger: log}
}

// Notify publishes without waiting for delivery. Marshal and publish errors
// are logged and counted as drops.
func (p *Publisher) Notify(app *models.Application) {
	data, err := json.Marshal(NotificationEvent{Application: app, EnqueuedAt: time.Now().UTC()})
	if err != nil {
		p.drop(app, err)
		return
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		p.drop(app, err)
		return
	}
	p.logger.Debug("notification published", map[string]interface{}{
		"subject":       p.subject,
		"applicationId": app.ApplicationID,
	})
}

func (p *Publisher) drop(app *models.Application, err error) {
	metrics.NotificationsDropped.Inc()
	p.logger.Error("failed to publish notification", map[string]interface{}{
		"error":         err,
		"applicationId": app.ApplicationID,
	})
}

func (p *Publisher) Close() error {
	return p.conn.Drain()
}
