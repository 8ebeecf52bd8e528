package sendnotification

import (
	"context"
	"sync"
	"time"

	"recruitment-portal/internal/common/logger"
	"recruitment-portal/internal/common/metrics"
	"recruitment-portal/internal/models"
)

// Dispatcher hands a stored application to background delivery. Notify
// returns immediately and never reports failure.
type Dispatcher interface {
	Notify(app *models.Application)
}

// Executor is satisfied by Handler.
type Executor interface {
	Execute(ctx context.Context, input *Input) (*Output, error)
}

// LocalQueue feeds a fixed pool of workers from a buffered channel. Notify
// never blocks; when the buffer is full the notification is dropped.
type LocalQueue struct {
	handler Executor
	workers int
	jobs    chan *models.Application
	logger  logger.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewLocalQueue(handler Executor, workers, buffer int, log logger.Logger) *LocalQueue {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &LocalQueue{
		handler: handler,
		workers: workers,
		jobs:    make(chan *models.Application, buffer),
		logger:  logger.ForComponent(log, "notification-queue"),
	}
}

func (q *LocalQueue) Notify(app *models.Application) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.drop(app, "queue closed")
		return
	}
	select {
	case q.jobs <- app:
		metrics.NotificationQueueDepth.Inc()
	default:
		q.drop(app, "queue full")
	}
}

// Run starts the workers and blocks until ctx is done. Queued notifications
// are still delivered before Run returns.
func (q *LocalQueue) Run(ctx context.Context) error {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.work()
	}

	<-ctx.Done()

	q.mu.Lock()
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	q.wg.Wait()
	return nil
}

func (q *LocalQueue) work() {
	defer q.wg.Done()
	for app := range q.jobs {
		metrics.NotificationQueueDepth.Dec()
		q.process(app)
	}
}

func (q *LocalQueue) process(app *models.Application) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("notification worker panic", map[string]interface{}{
				"panic":         r,
				"applicationId": app.ApplicationID,
			})
		}
	}()

	// Detached from the request; the handler applies its own timeout.
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := q.handler.Execute(ctx, &Input{Application: app}); err != nil {
		q.logger.Error("notification failed", map[string]interface{}{
			"error":         err,
			"applicationId": app.ApplicationID,
		})
	}
}

func (q *LocalQueue) drop(app *models.Application, reason string) {
	metrics.NotificationsDropped.Inc()
	q.logger.Warn("notification dropped", map[string]interface{}{
		"reason":        reason,
		"applicationId": app.ApplicationID,
	})
}
