// Package hub fans committed complaint status changes out to connected
// websocket clients, filtered by what each client is allowed to see.
package hub

import (
	"context"
	"dcms/backend/internal/complaint"
	"dcms/backend/internal/models"
	"sync"

	"go.uber.org/zap"
)

// EventSource yields status events until ctx is done. storage.Service implements
// it on top of redis pub/sub so every instance sees every change.
type EventSource interface {
	StatusEvents(ctx context.Context) <-chan models.StatusEvent
}

type ManagerService struct {
	mu      sync.RWMutex
	Clients map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client
	EventsCh     chan models.StatusEvent

	Source EventSource
	Log    *zap.Logger

	done chan struct{}
}

func NewManagerService(src EventSource, log *zap.Logger) *ManagerService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ManagerService{
		Clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		EventsCh:     make(chan models.StatusEvent, 16),
		Source:       src,
		Log:          log,
		done:         make(chan struct{}),
	}
}

// Run owns the client map until ctx is cancelled, then closes every client.
func (m *ManagerService) Run(ctx context.Context) {
	defer close(m.done)
	if m.Source != nil {
		m.StartPubSubListener(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			m.closeAll()
			return

		case c := <-m.RegisterCh:
			m.mu.Lock()
			m.Clients[c.ID()] = c
			m.mu.Unlock()
			m.Log.Debug("client registered", zap.String("client_id", c.ID()), zap.String("user_id", c.Caller().UserID))

		case c := <-m.UnregisterCh:
			m.remove(c)

		case ev := <-m.EventsCh:
			m.broadcast(ev)
		}
	}
}

// Register hands c to the running hub.
func (m *ManagerService) Register(c Client) {
	select {
	case m.RegisterCh <- c:
	case <-m.done:
	}
}

// Unregister is safe to call after the hub has stopped.
func (m *ManagerService) Unregister(c Client) {
	select {
	case m.UnregisterCh <- c:
	case <-m.done:
	}
}

func (m *ManagerService) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Clients)
}

func (m *ManagerService) HasClient(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.Clients[id]
	return ok
}

// broadcast delivers ev to every client that can see the complaint. A client
// whose buffer is full is dropped.
func (m *ManagerService) broadcast(ev models.StatusEvent) {
	target := ev.Complaint()

	m.mu.RLock()
	var slow []Client
	for _, c := range m.Clients {
		if !complaint.CanSee(c.Caller(), target) {
			continue
		}
		select {
		case c.SendChannel() <- ev:
		default:
			slow = append(slow, c)
		}
	}
	m.mu.RUnlock()

	for _, c := range slow {
		m.Log.Warn("dropping slow client", zap.String("client_id", c.ID()))
		m.remove(c)
	}
}

func (m *ManagerService) remove(c Client) {
	m.mu.Lock()
	_, ok := m.Clients[c.ID()]
	delete(m.Clients, c.ID())
	m.mu.Unlock()
	if ok {
		c.Close()
	}
}

func (m *ManagerService) closeAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, c := range m.Clients {
		c.Close()
		delete(m.Clients, id)
	}
}
