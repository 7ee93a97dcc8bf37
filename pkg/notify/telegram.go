// Package notify pushes request status changes to the barangay staff chat.
// Delivery is best-effort: a send failure is logged and never propagated into
// the transition that triggered it.
package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"bgyadmin/pkg/lifecycle"
)

// Notifier posts to one Telegram chat. A nil Notifier is valid and silently
// drops everything, so callers never need to guard the disabled case.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

// New connects the bot. Returns (nil, nil) when token is empty, which is the
// disabled configuration, not an error.
func New(token string, chatID int64, logger *zap.Logger) (*Notifier, error) {
	if token == "" || chatID == 0 {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	logger.Info("telegram notifier enabled", zap.String("bot", bot.Self.UserName))
	return &Notifier{bot: bot, chatID: chatID, logger: logger}, nil
}

// StatusChanged announces a lifecycle transition to the staff chat.
func (n *Notifier) StatusChanged(referenceNo, docType string, from, to lifecycle.Status, actorName string) {
	if n == nil {
		return
	}
	text := fmt.Sprintf("📄 %s (%s): %s → %s by %s", referenceNo, docType, from, to, actorName)
	if to == lifecycle.StatusPaymentSubmitted {
		text = fmt.Sprintf("💸 %s (%s): payment proof submitted, awaiting confirmation", referenceNo, docType)
	}
	if _, err := n.bot.Send(tgbotapi.NewMessage(n.chatID, text)); err != nil {
		n.logger.Warn("telegram send failed", zap.Error(err), zap.String("reference", referenceNo))
	}
}

// NewRequest announces a fresh submission.
func (n *Notifier) NewRequest(referenceNo, docType, requester string) {
	if n == nil {
		return
	}
	text := fmt.Sprintf("🆕 %s: %s requested by %s", referenceNo, docType, requester)
	if _, err := n.bot.Send(tgbotapi.NewMessage(n.chatID, text)); err != nil {
		n.logger.Warn("telegram send failed", zap.Error(err), zap.String("reference", referenceNo))
	}
}
