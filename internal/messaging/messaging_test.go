package messaging

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitment-portal/internal/common/logger"
	"recruitment-portal/internal/models"
	sendnotification "recruitment-portal/internal/workers/application/send-notification"
)

type recordingExecutor struct {
	mu  sync.Mutex
	ids []string
}

func (r *recordingExecutor) Execute(_ context.Context, input *sendnotification.Input) (*sendnotification.Output, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, input.Application.ApplicationID)
	return &sendnotification.Output{Status: sendnotification.StatusSent}, nil
}

func (r *recordingExecutor) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ids...)
}

func TestConsumer_Handle(t *testing.T) {
	exec := &recordingExecutor{}
	c := NewConsumer(nil, "", "", exec, logger.NewTestLogger(t))
	assert.Equal(t, DefaultSubject, c.subject)

	data, err := json.Marshal(NotificationEvent{Application: &models.Application{ApplicationID: "SC250042"}})
	require.NoError(t, err)

	c.handle(data)
	c.handle([]byte("not json"))
	c.handle([]byte(`{"application":null}`))

	assert.Equal(t, []string{"SC250042"}, exec.seen())
	assert.Error(t, c.HealthCheck())
}

// Runs against a live server when NATS_URL is set.
func TestPublisherConsumer_Integration(t *testing.T) {
	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("NATS_URL not set")
	}
	log := logger.NewTestLogger(t)

	conn, err := Connect(url, log)
	require.NoError(t, err)
	defer conn.Close()

	subject := "test.portal.notifications"
	exec := &recordingExecutor{}
	consumer := NewConsumer(conn, subject, "test-workers", exec, log)

	require.NoError(t, consumer.Subscribe())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = consumer.Start(ctx)
		close(done)
	}()
	require.NoError(t, consumer.HealthCheck())

	pubConn, err := Connect(url, log)
	require.NoError(t, err)
	publisher := NewPublisher(pubConn, subject, log)
	publisher.Notify(&models.Application{ApplicationID: "SC250001", Email: "a@vitstudent.ac.in"})
	publisher.Notify(&models.Application{ApplicationID: "SC250002", Email: "b@vitstudent.ac.in"})
	require.NoError(t, publisher.Close())

	require.Eventually(t, func() bool { return len(exec.seen()) == 2 }, 5*time.Second, 20*time.Millisecond)
	assert.ElementsMatch(t, []string{"SC250001", "SC250002"}, exec.seen())

	cancel()
	<-done
}
