// Package notify delivers short messages to users over email, SMS and Telegram.
package notify

import (
	"context"
	"fmt"
)

const (
	ChannelEmail    = "email"
	ChannelSMS      = "sms"
	ChannelTelegram = "telegram"
	ChannelLog      = "log"
)

// Message is addressed per channel: an email address, an E.164 phone number or
// a telegram chat id.
type Message struct {
	To      string
	Subject string
	Body    string
}

type Sender interface {
	Channel() string
	Send(ctx context.Context, msg Message) error
}

// Dispatcher routes a message to the sender registered for its channel.
// Channels without a sender go to the fallback.
type Dispatcher struct {
	senders  map[string]Sender
	fallback Sender
}

func NewDispatcher(fallback Sender, senders ...Sender) *Dispatcher {
	d := &Dispatcher{senders: make(map[string]Sender), fallback: fallback}
	for _, s := range senders {
		d.Register(s)
	}
	return d
}

// Register adds s, replacing any sender already registered for its channel.
// A nil sender is ignored.
func (d *Dispatcher) Register(s Sender) {
	if s == nil {
		return
	}
	d.senders[s.Channel()] = s
}

// Has reports whether a real sender is configured for channel.
func (d *Dispatcher) Has(channel string) bool {
	_, ok := d.senders[channel]
	return ok
}

func (d *Dispatcher) Send(ctx context.Context, channel string, msg Message) error {
	s, ok := d.senders[channel]
	if !ok {
		s = d.fallback
	}
	if s == nil {
		return fmt.Errorf("no sender for channel %q", channel)
	}
	if err := s.Send(ctx, msg); err != nil {
		return fmt.Errorf("send via %s: %w", s.Channel(), err)
	}
	return nil
}
