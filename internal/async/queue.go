package async

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Job is one image waiting to be processed.
type Job struct {
	ID          uuid.UUID
	Path        string
	SubmittedAt time.Time
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
