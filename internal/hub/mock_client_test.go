package hub_test

import (
	"context"
	"dcms/backend/internal/complaint"
	"dcms/backend/internal/models"
	"sync"
)

type MockClient struct {
	id     string
	caller complaint.Caller
	Recv   chan models.StatusEvent

	mu     sync.Mutex
	closed bool
}

func newMockClient(id string, caller complaint.Caller, buffer int) *MockClient {
	return &MockClient{id: id, caller: caller, Recv: make(chan models.StatusEvent, buffer)}
}

func (c *MockClient) ID() string                             { return c.id }
func (c *MockClient) Caller() complaint.Caller               { return c.caller }
func (c *MockClient) SendChannel() chan<- models.StatusEvent { return c.Recv }
func (c *MockClient) Run()                                   {}

func (c *MockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *MockClient) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// fakeSource replays whatever is pushed into events.
type fakeSource struct {
	events chan models.StatusEvent
}

func newFakeSource() *fakeSource {
	return &fakeSource{events: make(chan models.StatusEvent)}
}

func (s *fakeSource) StatusEvents(ctx context.Context) <-chan models.StatusEvent {
	out := make(chan models.StatusEvent)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-s.events:
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
