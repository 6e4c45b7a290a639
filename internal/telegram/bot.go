// Package telegram posts run summaries to a chat. It is optional: the
// pipeline treats a failed send as a warning.
package telegram

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-jobsift/internal/pipeline"
)

// Sender is the part of *tgbotapi.BotAPI the bot uses
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api     Sender
	chatID  int64
	maxJobs int
}

func NewBot(token string, chatID int64, maxJobs int) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return NewBotWithSender(api, chatID, maxJobs), nil
}

func NewBotWithSender(api Sender, chatID int64, maxJobs int) *Bot {
	return &Bot{api: api, chatID: chatID, maxJobs: maxJobs}
}

var markdownReplacer = strings.NewReplacer(
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
	")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
	"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
	"}", "\\}", ".", "\\.", "!", "\\!",
)

func escapeMarkdown(text string) string {
	return markdownReplacer.Replace(text)
}

// link urls only need ) and \ escaped in MarkdownV2
func escapeURL(url string) string {
	return strings.NewReplacer("\\", "\\\\", ")", "\\)").Replace(url)
}

// NotifyRun sends one message describing a finished run
func (b *Bot) NotifyRun(ctx context.Context, res *pipeline.Result) error {
	msg := tgbotapi.NewMessage(b.chatID, FormatSummary(res, b.maxJobs))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true

	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendError(err error) error {
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("❌ jobsift run failed: %v", err))
	_, sendErr := b.api.Send(msg)
	return sendErr
}

// FormatSummary renders res as MarkdownV2, listing at most maxJobs postings
func FormatSummary(res *pipeline.Result, maxJobs int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("📊 *%s*\n", escapeMarkdown("jobsift run finished")))
	for _, batch := range res.Batches {
		sb.WriteString(escapeMarkdown(fmt.Sprintf("📍 %s / %s: %d found, %d kept",
			batch.Term, batch.Location, batch.Found, batch.Kept)))
		sb.WriteString("\n")
	}
	sb.WriteString(escapeMarkdown(fmt.Sprintf("🔍 %d merged, %d already seen, %d exported",
		res.Merged, res.Dedup.Duplicates, len(res.Postings))))
	sb.WriteString("\n")
	if res.OutputPath != "" {
		sb.WriteString(fmt.Sprintf("💾 `%s`\n", escapeMarkdown(filepath.Base(res.OutputPath))))
	}

	shown := res.Postings
	if maxJobs >= 0 && len(shown) > maxJobs {
		shown = shown[:maxJobs]
	}
	if len(shown) > 0 {
		sb.WriteString("\n")
	}
	for _, p := range shown {
		sb.WriteString(fmt.Sprintf("🏢 *%s* %s\n", escapeMarkdown(p.Company), escapeMarkdown("- "+p.Title)))
		sb.WriteString(fmt.Sprintf("   %s [View Job](%s)\n", escapeMarkdown(p.Location), escapeURL(p.JobURL)))
	}
	if rest := len(res.Postings) - len(shown); rest > 0 {
		sb.WriteString(escapeMarkdown(fmt.Sprintf("…and %d more in the CSV", rest)))
		sb.WriteString("\n")
	}

	return sb.String()
}
