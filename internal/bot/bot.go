// Package bot is the Telegram front door: free-text messages become parsed
// workouts, commands cover mode switching, edits, reports, and advice.
package bot

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/claude/ironquant/internal/council"
	"github.com/claude/ironquant/internal/models"
	"github.com/claude/ironquant/internal/ratelimit"
)

// Store is the persistence surface the bot needs. *storage.DB satisfies it.
type Store interface {
	InsertWorkout(ctx context.Context, w models.Workout) error
	LatestWorkout(ctx context.Context, userID string) (*models.Workout, error)
	QueryWorkouts(ctx context.Context, userID, start, end string) ([]models.Workout, error)
	AllWorkouts(ctx context.Context, userID string) ([]models.Workout, error)
	UpdateWorkout(ctx context.Context, w models.Workout) error
	DeleteWorkout(ctx context.Context, id uuid.UUID, userID string) error

	GetUser(ctx context.Context, id string) (*models.User, error)
	SetGoalMode(ctx context.Context, id string, mode models.GoalMode) error
	ApplyBig3(ctx context.Context, id string, squat, bench, dead float64) error
	BindTelegramChat(ctx context.Context, id string, chatID int64) error
	SetReminder(ctx context.Context, id string, enabled bool, hour int) error

	UpsertCondition(ctx context.Context, c models.DailyCondition) error

	FetchCouncilInput(ctx context.Context, userID string, now time.Time, loc *time.Location) (*council.Input, error)
	RecomputeStreak(ctx context.Context, userID string, now time.Time, loc *time.Location) (int, error)
}

// Bot wraps the Telegram API, the store, and the per-chat rate limiter.
type Bot struct {
	api     *tgbotapi.BotAPI
	store   Store
	log     *slog.Logger
	loc     *time.Location
	limiter *ratelimit.Limiter
	chatID  int64 // allowed chat; 0 means bind to the first chat that talks
	now     func() time.Time
}

// New creates a Bot. chatID restricts which chat may talk to it; pass 0 to
// adopt the first chat seen. limiter throttles message handling per chat;
// the caller owns it and is responsible for sweeping expired windows.
func New(api *tgbotapi.BotAPI, store Store, limiter *ratelimit.Limiter, chatID int64, loc *time.Location, log *slog.Logger) *Bot {
	return &Bot{
		api:     api,
		store:   store,
		log:     log,
		loc:     loc,
		limiter: limiter,
		chatID:  chatID,
		now:     time.Now,
	}
}

// Run long-polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	b.log.Info("telegram bot started", "username", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if !b.allowed(ctx, chatID) {
		b.log.Warn("message from unknown chat dropped", "chat_id", chatID)
		return
	}

	if ok, _, resetAt := b.limiter.Allow(chatKey(chatID)); !ok {
		b.send(chatID, "Slow down. Try again after "+resetAt.In(b.loc).Format("15:04:05")+".")
		return
	}

	var reply Reply
	if msg.IsCommand() {
		reply = b.handleCommand(ctx, msg.Command(), msg.CommandArguments())
	} else {
		reply = b.handleLogText(ctx, msg.Text)
	}

	if reply.Document != nil {
		doc := tgbotapi.NewDocument(chatID, *reply.Document)
		doc.Caption = reply.Text
		if _, err := b.api.Send(doc); err != nil {
			b.log.Error("sending document", "error", err)
		}
		return
	}
	if reply.Text != "" {
		b.send(chatID, reply.Text)
	}
}

// allowed checks the chat against the configured or stored binding; an unset
// binding adopts the first chat that talks.
func (b *Bot) allowed(ctx context.Context, chatID int64) bool {
	if b.chatID != 0 {
		return chatID == b.chatID
	}
	user, err := b.store.GetUser(ctx, models.DefaultUserID)
	if err != nil {
		b.log.Error("fetching user for chat check", "error", err)
		return false
	}
	if user.TelegramChatID == 0 {
		if err := b.store.BindTelegramChat(ctx, user.ID, chatID); err != nil {
			b.log.Error("binding telegram chat", "error", err)
			return false
		}
		b.log.Info("bound telegram chat", "chat_id", chatID)
		return true
	}
	return user.TelegramChatID == chatID
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		// Markdown can fail on user-echoed text; retry plain.
		msg.ParseMode = ""
		if _, err := b.api.Send(msg); err != nil {
			b.log.Error("sending message", "error", err)
		}
	}
}

// SendTo pushes a message to a specific chat, used by scheduled jobs.
func (b *Bot) SendTo(chatID int64, text string) {
	b.send(chatID, text)
}

func chatKey(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}
