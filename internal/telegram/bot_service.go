// Package telegram runs the bot that links portal accounts to telegram chats
// so complaint status updates can be delivered there.
package telegram

import (
	"context"
	"dcms/backend/internal/localization"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// BotAPI is the part of tgbotapi.BotAPI the bot loop uses.
type BotAPI interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// BotService answers /start commands. Everything else gets a short hint.
type BotService struct {
	BotAPI    BotAPI
	Linker    *Linker
	Localizer *localization.Localizer
	Lang      string
	Log       *zap.Logger
}

// NewBotAPI authorizes against telegram with token.
func NewBotAPI(token string, log *zap.Logger) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Info("telegram bot authorized", zap.String("account", bot.Self.UserName))
	return bot, nil
}

func NewBotService(bot BotAPI, linker *Linker, l *localization.Localizer, lang string, log *zap.Logger) *BotService {
	if log == nil {
		log = zap.NewNop()
	}
	return &BotService{BotAPI: bot, Linker: linker, Localizer: l, Lang: lang, Log: log}
}

// Run polls for updates until ctx is cancelled.
func (s *BotService) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := s.BotAPI.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		s.BotAPI.StopReceivingUpdates()
	}()

	for update := range updates {
		if update.Message == nil {
			continue
		}
		s.HandleText(ctx, update.Message.Chat.ID, update.Message.Text)
	}
	s.Log.Info("telegram bot stopped")
}

// HandleText processes one incoming chat message.
func (s *BotService) HandleText(ctx context.Context, chatID int64, text string) {
	cmd, arg := parseCommand(text)
	switch cmd {
	case "start":
		if arg == "" {
			s.reply(chatID, "tg_welcome")
			return
		}
		_, err := s.Linker.Redeem(ctx, arg, chatID)
		switch {
		case err == nil:
			s.reply(chatID, "tg_link_success")
		case errors.Is(err, ErrInvalidLinkCode):
			s.reply(chatID, "tg_link_invalid")
		default:
			s.Log.Error("telegram link failed", zap.Int64("chat_id", chatID), zap.Error(err))
			s.reply(chatID, "tg_link_invalid")
		}
	default:
		s.reply(chatID, "tg_unknown_command")
	}
}

func (s *BotService) reply(chatID int64, key string) {
	msg := tgbotapi.NewMessage(chatID, s.Localizer.GetString(s.Lang, key))
	if _, err := s.BotAPI.Send(msg); err != nil {
		s.Log.Warn("telegram reply failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// parseCommand splits "/start@bot CODE" into ("start", "CODE").
// Plain text yields an empty command.
func parseCommand(text string) (cmd, arg string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}
	head, rest, _ := strings.Cut(text[1:], " ")
	head, _, _ = strings.Cut(head, "@")
	return strings.ToLower(head), strings.TrimSpace(rest)
}
