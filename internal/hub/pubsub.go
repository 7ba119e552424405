package hub

import (
	"context"

	"go.uber.org/zap"
)

// StartPubSubListener forwards events from the source into the hub loop.
func (m *ManagerService) StartPubSubListener(ctx context.Context) {
	events := m.Source.StatusEvents(ctx)
	go func() {
		for ev := range events {
			select {
			case m.EventsCh <- ev:
			case <-ctx.Done():
				return
			}
		}
		m.Log.Debug("status event source closed", zap.Error(ctx.Err()))
	}()
	m.Log.Info("listening for status events")
}

