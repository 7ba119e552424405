package queue

import (
	"context"
	"dcms/backend/internal/models"

	"go.uber.org/zap"
)

const forwardBuffer = 64

// StatusForwarder publishes every status change it is told about. It plugs into
// complaint.Service as a listener; publishing happens on the Run goroutine.
type StatusForwarder struct {
	Publisher Publisher
	Queue     string
	Log       *zap.Logger

	pending chan models.StatusEvent
}

func NewStatusForwarder(p Publisher, queueName string, log *zap.Logger) *StatusForwarder {
	if log == nil {
		log = zap.NewNop()
	}
	return &StatusForwarder{
		Publisher: p,
		Queue:     queueName,
		Log:       log,
		pending:   make(chan models.StatusEvent, forwardBuffer),
	}
}

// StatusChanged never blocks. Events are dropped when the buffer is full.
func (f *StatusForwarder) StatusChanged(ev models.StatusEvent) {
	select {
	case f.pending <- ev:
	default:
		f.Log.Warn("status forward dropped, buffer full", zap.Uint("complaint_id", ev.ComplaintID))
	}
}

// Run publishes buffered events until ctx is cancelled, then closes the publisher.
func (f *StatusForwarder) Run(ctx context.Context) {
	defer f.Publisher.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-f.pending:
			if err := f.Publisher.Publish(ctx, f.Queue, ev); err != nil {
				f.Log.Error("status forward failed", zap.Uint("complaint_id", ev.ComplaintID), zap.Error(err))
			}
		}
	}
}
