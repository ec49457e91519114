package telegram

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-gongkao-sync/internal/config"
)

// maxListedPostings caps the created postings linked in one summary.
const maxListedPostings = 10

// Bot sends run notifications. A nil *Bot is a disabled bot: every method
// is a no-op.
type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

// FromConfig returns nil when telegram is not configured.
func FromConfig(cfg config.TelegramConfig) (*Bot, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	return NewBot(cfg.Token, cfg.ChatID)
}

// CreatedPosting is one newly synced posting listed in the summary.
type CreatedPosting struct {
	Title string
	URL   string
}

// Summary is the end-of-run report.
type Summary struct {
	RunID    string
	Command  string
	Scraped  int
	Details  int
	Created  int
	Skipped  int
	Failed   int
	Duration time.Duration
	New      []CreatedPosting
}

func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
		")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
		"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
		"}", "\\}", ".", "\\.", "!", "\\!", "\\", "\\\\",
	)
	return replacer.Replace(text)
}

// escapeURL escapes what MarkdownV2 requires inside (...) of a link.
func escapeURL(u string) string {
	return strings.NewReplacer("\\", "\\\\", ")", "\\)").Replace(u)
}

func formatSummary(s Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 *%s*\n", escapeMarkdown("公考招聘同步 "+s.Command))
	fmt.Fprintf(&b, "🆔 %s\n", escapeMarkdown(s.RunID))
	if s.Scraped > 0 || s.Details > 0 {
		fmt.Fprintf(&b, "🔍 Scraped: %d, details: %d\n", s.Scraped, s.Details)
	}
	fmt.Fprintf(&b, "✅ Created: %d\n⏭️ Skipped: %d\n❌ Failed: %d\n", s.Created, s.Skipped, s.Failed)
	fmt.Fprintf(&b, "⏱️ %s\n", escapeMarkdown(s.Duration.Round(time.Second).String()))

	for i, p := range s.New {
		if i == maxListedPostings {
			fmt.Fprintf(&b, "%s\n", escapeMarkdown(fmt.Sprintf("... and %d more", len(s.New)-maxListedPostings)))
			break
		}
		fmt.Fprintf(&b, "🔗 [%s](%s)\n", escapeMarkdown(p.Title), escapeURL(p.URL))
	}
	return b.String()
}

func (b *Bot) SendSummary(s Summary) error {
	if b == nil {
		return nil
	}
	msg := tgbotapi.NewMessage(b.chatID, formatSummary(s))
	msg.ParseMode = "MarkdownV2"
	msg.DisableWebPagePreview = true
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendError(err error) error {
	if b == nil {
		return nil
	}
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("❌ Error: %v", err))
	_, sendErr := b.api.Send(msg)
	return sendErr
}

func (b *Bot) SendStatus(message string) error {
	if b == nil {
		return nil
	}
	msg := tgbotapi.NewMessage(b.chatID, "ℹ️ "+message)
	_, err := b.api.Send(msg)
	return err
}
