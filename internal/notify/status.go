package notify

import (
	"context"
	"dcms/backend/internal/localization"
	"dcms/backend/internal/models"
	"errors"
	"strconv"

	"go.uber.org/zap"
)

const statusQueueSize = 64

type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// StatusNotifier tells complaint owners about status changes on every channel
// they opted into. Events are queued and delivered by Run.
type StatusNotifier struct {
	Users      UserLookup
	Dispatcher *Dispatcher
	Localizer  *localization.Localizer
	Lang       string
	Log        *zap.Logger

	queue chan models.StatusEvent
}

func NewStatusNotifier(users UserLookup, d *Dispatcher, l *localization.Localizer, lang string, log *zap.Logger) *StatusNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &StatusNotifier{
		Users:      users,
		Dispatcher: d,
		Localizer:  l,
		Lang:       lang,
		Log:        log,
		queue:      make(chan models.StatusEvent, statusQueueSize),
	}
}

// StatusChanged queues ev without blocking. Events are dropped when the queue is full.
func (n *StatusNotifier) StatusChanged(ev models.StatusEvent) {
	select {
	case n.queue <- ev:
	default:
		n.Log.Warn("status notification dropped, queue full", zap.Uint("complaint_id", ev.ComplaintID))
	}
}

// Run delivers queued events until ctx is cancelled.
func (n *StatusNotifier) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-n.queue:
			if err := n.Notify(ctx, ev); err != nil {
				n.Log.Error("status notification failed", zap.Uint("complaint_id", ev.ComplaintID), zap.Error(err))
			}
		}
	}
}

// Notify sends ev to the owner synchronously. Channels without an address on
// the user are skipped.
func (n *StatusNotifier) Notify(ctx context.Context, ev models.StatusEvent) error {
	u, err := n.Users.GetUserByID(ctx, ev.OwnerID)
	if err != nil {
		return err
	}

	msg := Message{
		Subject: n.Localizer.Format(n.Lang, "status_changed_subject", ev.ComplaintID, n.label(ev.To)),
		Body:    n.Localizer.Format(n.Lang, "status_changed_body", ev.Title, ev.ComplaintID, n.label(ev.From), n.label(ev.To)),
	}
	if ev.Remarks != "" {
		msg.Body += "\n" + n.Localizer.Format(n.Lang, "status_remarks", ev.Remarks)
	}

	var errs []error
	for _, ch := range channelsFor(u) {
		to := addressFor(u, ch)
		if to == "" {
			n.Log.Debug("no address for channel", zap.String("user_id", u.ID), zap.String("channel", ch))
			continue
		}
		m := msg
		m.To = to
		if err := n.Dispatcher.Send(ctx, ch, m); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (n *StatusNotifier) label(s models.Status) string {
	return n.Localizer.GetString(n.Lang, "status_"+string(s))
}

// channelsFor defaults to email when the user has not chosen any channel.
func channelsFor(u *models.User) []string {
	if u.Profile == nil || len(u.Profile.NotifyChannels) == 0 {
		return []string{ChannelEmail}
	}
	return u.Profile.NotifyChannels
}

func addressFor(u *models.User, channel string) string {
	switch channel {
	case ChannelEmail:
		return u.Email
	case ChannelSMS:
		if u.Profile != nil && u.Profile.Phone != nil {
			return *u.Profile.Phone
		}
	case ChannelTelegram:
		if u.Profile != nil && u.Profile.TelegramChatID != 0 {
			return strconv.FormatInt(u.Profile.TelegramChatID, 10)
		}
	}
	return ""
}
