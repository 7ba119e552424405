package storage

import (
	"context"
	"dcms/backend/internal/config"
	"dcms/backend/internal/models"
	"encoding/json"

	"go.uber.org/zap"
)

// PublishStatusEvent announces a committed status change on the events channel.
func (s *Service) PublishStatusEvent(ctx context.Context, ev models.StatusEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.Redis.Publish(ctx, config.StatusEventsChannel, b).Err()
}

// StatusEvents subscribes to the events channel and decodes each payload. The
// returned channel is closed once ctx is done.
func (s *Service) StatusEvents(ctx context.Context) <-chan models.StatusEvent {
	out := make(chan models.StatusEvent)
	pubsub := s.Redis.Subscribe(ctx, config.StatusEventsChannel)

	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev models.StatusEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					s.Log.Warn("dropping malformed status event", zap.Error(err))
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
