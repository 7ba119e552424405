package telegram

import (
	"context"
	"crypto/rand"
	"dcms/backend/internal/config"
	"dcms/backend/internal/models"
	"dcms/backend/internal/notify"
	"dcms/backend/internal/storage"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"go.uber.org/zap"
)

// ErrInvalidLinkCode is returned for unknown, expired or already used codes.
var ErrInvalidLinkCode = errors.New("invalid or expired link code")

const linkAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Linker pairs a portal account with a telegram chat through a short-lived code.
type Linker struct {
	Cache storage.Cache
	Users storage.UserStore
	Log   *zap.Logger
}

func NewLinker(cache storage.Cache, users storage.UserStore, log *zap.Logger) *Linker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Linker{Cache: cache, Users: users, Log: log}
}

// IssueCode stores a fresh code for userID. The user sends it to the bot as /start <code>.
func (l *Linker) IssueCode(ctx context.Context, userID string) (string, error) {
	code, err := newLinkCode()
	if err != nil {
		return "", err
	}
	if err := l.Cache.Set(ctx, config.KeyTelegramLink+code, userID, config.LinkCodeTTL); err != nil {
		return "", fmt.Errorf("store link code: %w", err)
	}
	return code, nil
}

// Redeem binds chatID to the code's owner and turns on telegram delivery.
// The code is consumed before anything else, so it works once even under
// concurrent redemptions.
func (l *Linker) Redeem(ctx context.Context, code string, chatID int64) (*models.User, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrInvalidLinkCode
	}
	userID, ok, err := l.Cache.GetDel(ctx, config.KeyTelegramLink+code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidLinkCode
	}

	user, err := l.Users.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidLinkCode
	}
	if err != nil {
		return nil, err
	}

	if user.Profile == nil {
		user.Profile = &models.UserProfile{UserID: user.ID, Role: models.RoleUser}
	}
	user.Profile.TelegramChatID = chatID
	if !user.Profile.HasChannel(notify.ChannelTelegram) {
		user.Profile.NotifyChannels = append(user.Profile.NotifyChannels, notify.ChannelTelegram)
	}
	if err := l.Users.SaveProfile(ctx, user.Profile); err != nil {
		return nil, err
	}
	l.Log.Info("telegram linked", zap.String("user_id", user.ID), zap.Int64("chat_id", chatID))
	return user, nil
}

func newLinkCode() (string, error) {
	limit := big.NewInt(int64(len(linkAlphabet)))
	var b strings.Builder
	for i := 0; i < config.LinkCodeLength; i++ {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b.WriteByte(linkAlphabet[idx.Int64()])
	}
	return b.String(), nil
}
