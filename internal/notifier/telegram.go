package notifier

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Telegram struct {
	bot       *tgbotapi.BotAPI
	channelID int64
}

func NewTelegram(bot *tgbotapi.BotAPI, channelID int64) *Telegram {
	return &Telegram{bot: bot, channelID: channelID}
}

func (t *Telegram) Notify(_ context.Context, url, review string) error {
	msg := tgbotapi.NewMessage(t.channelID, FormatTelegram(url, review))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true

	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram message to %d: %w", t.channelID, err)
	}

	return nil
}

// Жирный заголовок, ссылка, ревью. Все аргументы экранируются под MarkdownV2
func FormatTelegram(url, review string) string {
	const msgFormat = "*%s*\n\n%s\n\n%s"

	return fmt.Sprintf(msgFormat,
		EscapeForMarkdown(headerText),
		EscapeForMarkdown(url),
		EscapeForMarkdown(review),
	)
}
