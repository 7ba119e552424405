package hub

import (
	"dcms/backend/internal/complaint"
	"dcms/backend/internal/models"
)

// Client is one live subscriber to the status feed.
type Client interface {
	// ID is unique per connection. One user may hold several connections.
	ID() string
	// Caller decides which events the client is allowed to receive.
	Caller() complaint.Caller
	// SendChannel is written by the hub only.
	SendChannel() chan<- models.StatusEvent

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts the send channel, which ends the write pump.
	Close()
}
