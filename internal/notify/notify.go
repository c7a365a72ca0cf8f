// Package notify posts event announcements to a Telegram chat.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/frostline/holidayquest/internal/games"
	"github.com/frostline/holidayquest/internal/progress"
	"github.com/frostline/holidayquest/internal/store"
)

// Config enables the Telegram notifier when both fields are set.
type Config struct {
	Token  string `mapstructure:"token"`
	ChatID int64  `mapstructure:"chat_id"`
}

// Enabled reports whether the notifier has somewhere to post.
func (c Config) Enabled() bool {
	return c.Token != "" && c.ChatID != 0
}

// Notifier announces certificates and posts the daily digest.
type Notifier interface {
	progress.Listener
	SendDigest(ctx context.Context, d store.Digest, stats []store.GameStat) error
	// Close delivers queued announcements and stops the notifier.
	Close() error
}

// New returns a Telegram notifier, or a no-op one when cfg is not enabled.
func New(cfg Config, logger *slog.Logger) (Notifier, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Enabled() {
		logger.Debug("telegram notifier disabled")
		return Noop{}, nil
	}
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	logger.Info("telegram notifier ready", "bot", bot.Self.UserName, "chat", cfg.ChatID)
	return NewTelegram(bot, cfg.ChatID, logger), nil
}

// Sender delivers one message. *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// outboxSize bounds queued announcements; more are dropped.
const outboxSize = 64

// Telegram posts to a single chat. Announcements are queued and sent from a
// background worker so a slow API never holds up a game submission.
type Telegram struct {
	bot    Sender
	chatID int64
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
	outbox chan string
	done   chan struct{}
}

// NewTelegram creates a notifier that posts through bot and starts its
// delivery worker. Call Close to stop it.
func NewTelegram(bot Sender, chatID int64, logger *slog.Logger) *Telegram {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Telegram{
		bot:    bot,
		chatID: chatID,
		logger: logger,
		outbox: make(chan string, outboxSize),
		done:   make(chan struct{}),
	}
	go t.deliver()
	return t
}

func (t *Telegram) deliver() {
	defer close(t.done)
	for text := range t.outbox {
		if err := t.send(text); err != nil {
			t.logger.Warn("telegram send failed", "kind", "certificate", "err", err)
		}
	}
}

func (t *Telegram) send(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.DisableWebPagePreview = true
	_, err := t.bot.Send(msg)
	return err
}

// GameCompleted queues an announcement for a newly issued certificate. Other
// completions are ignored. Delivery failures are logged and never reach the
// player.
func (t *Telegram) GameCompleted(_ context.Context, ev progress.Event) {
	if ev.Result.Certificate == nil {
		return
	}
	text := CertificateText(ev.Session, *ev.Result.Certificate)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	select {
	case t.outbox <- text:
	default:
		t.logger.Warn("telegram outbox full, dropping announcement", "user", ev.Session.UserID)
	}
}

// Close stops accepting announcements and waits until queued ones are sent.
func (t *Telegram) Close() error {
	t.mu.Lock()
	if !t.closed {
		t.closed = true
		close(t.outbox)
	}
	t.mu.Unlock()
	<-t.done
	return nil
}

// SendDigest posts the daily activity report.
func (t *Telegram) SendDigest(_ context.Context, d store.Digest, stats []store.GameStat) error {
	if err := t.send(DigestText(d, stats, time.Now())); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	return nil
}

// CertificateText is the announcement for a Holiday Hero certificate.
func CertificateText(sess progress.Session, cert store.Certificate) string {
	name := strings.TrimSpace(sess.Name)
	if name == "" {
		name = sess.Email
	}
	return fmt.Sprintf("🏆 %s finished all %d games and earned the Holiday Hero certificate!\nTotal score: %d",
		name, cert.GamesCompleted, cert.TotalScore)
}

// DigestText renders the daily digest.
func DigestText(d store.Digest, stats []store.GameStat, at time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎄 Daily digest for %s\n\n", at.Format("Jan 2"))
	fmt.Fprintf(&b, "New players: %d\n", d.Users)
	fmt.Fprintf(&b, "Games completed: %d\n", d.Completions)
	fmt.Fprintf(&b, "Certificates: %d\n", d.Certificates)
	fmt.Fprintf(&b, "Photos: %d, wishes: %d\n", d.Photos, d.Wishes)

	if len(stats) > 0 {
		b.WriteString("\nAll time:\n")
		for _, s := range stats {
			title := fmt.Sprintf("Game %d", s.GameNumber)
			if g, err := games.ByNumber(s.GameNumber); err == nil {
				title = g.Title
			}
			fmt.Fprintf(&b, "%s: %d completed, avg %.0f\n", title, s.Completions, s.AverageScore)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Noop discards every notification.
type Noop struct{}

func (Noop) GameCompleted(context.Context, progress.Event) {}

func (Noop) SendDigest(context.Context, store.Digest, []store.GameStat) error { return nil }

func (Noop) Close() error { return nil }
