package bot

import (
	"context"
	"time"

	"github.com/robfig/cron"

	"github.com/claude/ironquant/internal/models"
	"github.com/claude/ironquant/internal/reports"
)

// Scheduler owns the cron jobs that push messages without being asked:
// the daily workout nudge, the Sunday weekly report, and the monthly recap.
type Scheduler struct {
	bot  *Bot
	cron *cron.Cron
}

// NewScheduler wires the scheduled jobs onto a running bot. Jobs fire in the
// bot's home timezone.
func NewScheduler(b *Bot) *Scheduler {
	c := cron.NewWithLocation(b.loc)

	// Hourly check rather than a fixed job: the reminder hour lives in the
	// profile and can change at runtime via /remind.
	c.AddFunc("0 0 * * * *", func() { b.dailyNudge() })
	c.AddFunc("0 0 20 * * SUN", func() { b.pushWeekly() })
	c.AddFunc("0 0 9 1 * *", func() { b.pushMonthly() })

	return &Scheduler{bot: b, cron: c}
}

// Start begins running jobs in their own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler; running jobs finish.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (b *Bot) jobContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// dailyNudge fires once at the profile's reminder hour on days with no
// logged workout yet.
func (b *Bot) dailyNudge() {
	ctx, cancel := b.jobContext()
	defer cancel()

	user, err := b.store.GetUser(ctx, models.DefaultUserID)
	if err != nil {
		b.log.Error("nudge: fetching user", "error", err)
		return
	}
	if !user.RemindEnabled || user.TelegramChatID == 0 {
		return
	}
	local := b.now().In(b.loc)
	if local.Hour() != user.RemindHour {
		return
	}

	today := local.Format("2006-01-02")
	workouts, err := b.store.QueryWorkouts(ctx, user.ID, today, today)
	if err != nil {
		b.log.Error("nudge: querying workouts", "error", err)
		return
	}
	if len(workouts) > 0 {
		return
	}

	text := "No position opened today. Even a small session keeps the streak alive."
	if user.CurrentStreak > 1 {
		text = "No position opened today. Your " + formatNumber(float64(user.CurrentStreak)) + "-day streak is on the line."
	}
	b.SendTo(user.TelegramChatID, text)
}

func (b *Bot) pushWeekly() {
	ctx, cancel := b.jobContext()
	defer cancel()

	user, err := b.store.GetUser(ctx, models.DefaultUserID)
	if err != nil || user.TelegramChatID == 0 {
		return
	}
	today := b.now().In(b.loc)
	start := today.AddDate(0, 0, -6).Format("2006-01-02")
	end := today.Format("2006-01-02")
	workouts, err := b.store.QueryWorkouts(ctx, user.ID, start, end)
	if err != nil {
		b.log.Error("weekly push: querying workouts", "error", err)
		return
	}
	b.SendTo(user.TelegramChatID, reports.Weekly(b.now(), b.loc, workouts))
}

// pushMonthly recaps the month that just ended.
func (b *Bot) pushMonthly() {
	ctx, cancel := b.jobContext()
	defer cancel()

	user, err := b.store.GetUser(ctx, models.DefaultUserID)
	if err != nil || user.TelegramChatID == 0 {
		return
	}
	prev := b.now().In(b.loc).AddDate(0, -1, 0)
	first := time.Date(prev.Year(), prev.Month(), 1, 0, 0, 0, 0, b.loc)
	start := first.AddDate(0, -1, 0).Format("2006-01-02")
	end := first.AddDate(0, 1, -1).Format("2006-01-02")
	workouts, err := b.store.QueryWorkouts(ctx, user.ID, start, end)
	if err != nil {
		b.log.Error("monthly push: querying workouts", "error", err)
		return
	}
	b.SendTo(user.TelegramChatID, reports.Monthly(prev.Year(), prev.Month(), workouts, workouts))
}
