package sendnotification

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitment-portal/internal/common/logger"
	"recruitment-portal/internal/models"
)

type recordingExecutor struct {
	mu      sync.Mutex
	ids     []string
	block   chan struct{}
	handled atomic.Int32
}

func (r *recordingExecutor) Execute(ctx context.Context, input *Input) (*Output, error) {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	r.ids = append(r.ids, input.Application.ApplicationID)
	r.mu.Unlock()
	r.handled.Add(1)
	return &Output{Status: StatusSent}, nil
}

func TestLocalQueue_DeliversAndDrains(t *testing.T) {
	exec := &recordingExecutor{}
	q := NewLocalQueue(exec, 2, 8, logger.NewTestLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = q.Run(ctx)
		close(done)
	}()

	for _, id := range []string{"SC250001", "SC250002", "SC250003"} {
		q.Notify(&models.Application{ApplicationID: id})
	}

	require.Eventually(t, func() bool { return exec.handled.Load() == 3 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done

	exec.mu.Lock()
	defer exec.mu.Unlock()
	assert.ElementsMatch(t, []string{"SC250001", "SC250002", "SC250003"}, exec.ids)
}

func TestLocalQueue_NotifyNeverBlocks(t *testing.T) {
	exec := &recordingExecutor{block: make(chan struct{})}
	q := NewLocalQueue(exec, 1, 1, logger.NewTestLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = q.Run(ctx)
		close(done)
	}()

	start := time.Now()
	for i := 0; i < 10; i++ {
		q.Notify(&models.Application{ApplicationID: "SC25000" + string(rune('0'+i))})
	}
	assert.Less(t, time.Since(start), time.Second)

	close(exec.block)
	cancel()
	<-done

	// one in flight plus one buffered at most; the rest were dropped
	assert.LessOrEqual(t, exec.handled.Load(), int32(2))
	assert.GreaterOrEqual(t, exec.handled.Load(), int32(1))
}

func TestLocalQueue_NotifyAfterStop(t *testing.T) {
	exec := &recordingExecutor{}
	q := NewLocalQueue(exec, 1, 1, logger.NewTestLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, q.Run(ctx))

	assert.NotPanics(t, func() {
		q.Notify(&models.Application{ApplicationID: "SC250009"})
	})
	assert.Equal(t, int32(0), exec.handled.Load())
}
