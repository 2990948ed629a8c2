// Package notify sends sync outcome messages to an admin Telegram chat.
// Fully optional: without a token and chat id every call is a no-op.
package notify

import (
	"fmt"
	"time"

	"infosec-jobs/internal/pipeline"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

type Notifier struct {
	bot    *tele.Bot
	chat   *tele.Chat
	logger *zap.Logger
}

// New builds the notifier. Empty token or chat id yields a disabled notifier
// and no error; a broken token is an error the caller may treat as non-fatal.
func New(token string, chatID int64, logger *zap.Logger) (*Notifier, error) {
	if token == "" || chatID == 0 {
		return &Notifier{logger: logger}, nil
	}

	bot, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	logger.Info("telegram notifications enabled", zap.Int64("chat_id", chatID))

	return &Notifier{
		bot:    bot,
		chat:   &tele.Chat{ID: chatID},
		logger: logger,
	}, nil
}

func (n *Notifier) Enabled() bool {
	return n != nil && n.bot != nil
}

func (n *Notifier) SyncFinished(report *pipeline.Report) {
	if !n.Enabled() {
		return
	}

	text := fmt.Sprintf(
		"✅ Sync finished\nFetched: %d\nKept: %d\nUpserted: %d",
		report.Fetched, report.Filtered, report.Upserted,
	)
	n.send(text)
}

func (n *Notifier) SyncFailed(err error) {
	if !n.Enabled() {
		return
	}

	n.send(fmt.Sprintf("❌ Sync failed: %v", err))
}

func (n *Notifier) send(text string) {
	if _, err := n.bot.Send(n.chat, text); err != nil {
		n.logger.Warn("telegram notification failed", zap.Error(err))
	}
}
