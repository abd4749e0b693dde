package async

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/joseph-ayodele/geophoto-tracker/constants"
	"github.com/joseph-ayodele/geophoto-tracker/internal/core"
)

type recordingProcessor struct {
	mu    sync.Mutex
	paths []string
}

func (p *recordingProcessor) ProcessImage(_ context.Context, path string) (core.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paths = append(p.paths, path)
	if path == "bad.jpg" {
		return core.Result{Outcome: constants.OutcomeFailed}, errors.New("boom")
	}
	return core.Result{Outcome: constants.OutcomeAccepted}, nil
}

func TestProcessorQueueDrainsOnShutdown(t *testing.T) {
	proc := &recordingProcessor{}
	var mu sync.Mutex
	outcomes := map[string]constants.Outcome{}
	q := NewProcessorQueue(proc, nil,
		WithWorkers(3),
		WithQueueSize(2),
		WithOnDone(func(o Outcome) {
			mu.Lock()
			outcomes[o.Job.Path] = o.Result.Outcome
			mu.Unlock()
		}),
	)

	paths := []string{"a.jpg", "b.jpg", "c.jpg", "bad.jpg", "d.jpg", "e.jpg"}
	for _, p := range paths {
		if err := q.Enqueue(context.Background(), Job{Path: p}); err != nil {
			t.Fatalf("enqueue %s: %v", p, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	mu.Lock()
	defer mu.Unlock()
	if len(outcomes) != len(paths) {
		t.Fatalf("processed %d jobs, want %d", len(outcomes), len(paths))
	}
	if outcomes["bad.jpg"] != constants.OutcomeFailed || outcomes["a.jpg"] != constants.OutcomeAccepted {
		t.Errorf("outcomes = %v", outcomes)
	}
}

func TestProcessorQueueRejectsAfterShutdown(t *testing.T) {
	q := NewProcessorQueue(&recordingProcessor{}, nil, WithWorkers(1))
	q.Shutdown(context.Background())
	if err := q.Enqueue(context.Background(), Job{Path: "late.jpg"}); !errors.Is(err, ErrQueueClosed) {
		t.Errorf("err = %v, want ErrQueueClosed", err)
	}
	// A second shutdown is a no-op.
	q.Shutdown(context.Background())
}
