package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/claude/ironquant/internal/council"
	"github.com/claude/ironquant/internal/export"
	"github.com/claude/ironquant/internal/intake"
	"github.com/claude/ironquant/internal/models"
	"github.com/claude/ironquant/internal/prs"
	"github.com/claude/ironquant/internal/reports"
)

// Reply is what a handler wants sent back: text, optionally with a file.
type Reply struct {
	Text     string
	Document *tgbotapi.FileBytes
}

func textReply(format string, args ...any) Reply {
	return Reply{Text: fmt.Sprintf(format, args...)}
}

const helpText = `Send workout lines as plain text, one exercise per line:
  스쿼트 100 5 3 @8
  벤치프레스 80x5x3
  러닝머신 30분 8km/h

Commands:
/mode [fat_loss|muscle_gain] - show or switch goal mode
/last - show the last workout
/undo - delete the last workout (30 min window)
/edit <lines> - replace the last workout (30 min window)
/condition sleep=6.5 fatigue=7 - log today's condition
/rec - ask the advice council
/week - weekly report
/month - monthly report
/export - download all workouts as CSV
/recompute - rebuild streak and 1RM estimates
/remind [on|off] [hour] - daily reminder`

func (b *Bot) handleCommand(ctx context.Context, cmd, args string) Reply {
	switch cmd {
	case "start", "help":
		return Reply{Text: helpText}
	case "mode":
		return b.cmdMode(ctx, args)
	case "last":
		return b.cmdLast(ctx)
	case "undo":
		return b.cmdUndo(ctx)
	case "edit":
		return b.cmdEdit(ctx, args)
	case "condition":
		return b.cmdCondition(ctx, args)
	case "rec":
		return b.cmdCouncil(ctx)
	case "week":
		return b.cmdWeek(ctx)
	case "month":
		return b.cmdMonth(ctx)
	case "export":
		return b.cmdExport(ctx)
	case "recompute":
		return b.cmdRecompute(ctx)
	case "remind":
		return b.cmdRemind(ctx, args)
	default:
		return textReply("Unknown command /%s. Try /help.", cmd)
	}
}

// handleLogText is the default path: parse the message as workout lines.
func (b *Bot) handleLogText(ctx context.Context, text string) Reply {
	user, err := b.store.GetUser(ctx, models.DefaultUserID)
	if err != nil {
		b.log.Error("fetching user", "error", err)
		return Reply{Text: "Storage error, try again."}
	}

	workout, report := intake.Build(text, user.BodyWeightOrDefault(), b.now(), b.loc)
	if workout == nil {
		if report.Bad > 0 {
			return Reply{Text: report.Summary()}
		}
		return Reply{Text: "Nothing to log. Send lines like: 스쿼트 100 5 3"}
	}

	if err := b.store.InsertWorkout(ctx, *workout); err != nil {
		b.log.Error("inserting workout", "error", err)
		return Reply{Text: "Storage error, try again."}
	}
	if big3 := prs.EstimateBig3(workout.Logs); !big3.Empty() {
		if err := b.store.ApplyBig3(ctx, user.ID, big3.Squat, big3.Bench, big3.Dead); err != nil {
			b.log.Error("applying 1RM estimates", "error", err)
		}
	}
	streak, err := b.store.RecomputeStreak(ctx, user.ID, b.now(), b.loc)
	if err != nil {
		b.log.Error("recomputing streak", "error", err)
	}

	var sb strings.Builder
	sb.WriteString(report.Summary())
	fmt.Fprintf(&sb, "\nVolume %s kg", formatNumber(workout.TotalVolume))
	if workout.EstimatedCalories > 0 {
		fmt.Fprintf(&sb, ", ~%.0f kcal", workout.EstimatedCalories)
	}
	if streak > 1 {
		fmt.Fprintf(&sb, "\n%d-day streak 🔥", streak)
	}
	sb.WriteString("\n/undo or /edit within 30 minutes.")
	return Reply{Text: sb.String()}
}

func (b *Bot) cmdMode(ctx context.Context, args string) Reply {
	args = strings.TrimSpace(args)
	if args == "" {
		user, err := b.store.GetUser(ctx, models.DefaultUserID)
		if err != nil {
			return Reply{Text: "Storage error, try again."}
		}
		return textReply("Current mode: %s. Use /mode fat_loss or /mode muscle_gain to switch.", user.GoalMode)
	}
	mode := models.NormalizeGoalMode(args)
	if string(mode) != args {
		return Reply{Text: "Mode must be fat_loss or muscle_gain."}
	}
	if err := b.store.SetGoalMode(ctx, models.DefaultUserID, mode); err != nil {
		return Reply{Text: "Storage error, try again."}
	}
	return textReply("Mode switched to %s.", mode)
}

func (b *Bot) cmdLast(ctx context.Context) Reply {
	w, err := b.store.LatestWorkout(ctx, models.DefaultUserID)
	if err != nil {
		return Reply{Text: "No workouts logged yet."}
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "*%s* (%s)\n", w.Title, w.WorkoutDate)
	for _, l := range w.Logs {
		fmt.Fprintf(&sb, "  %s %s x%d x%d", l.Name, formatNumber(l.Weight), l.Reps, l.Sets)
		if l.RPE != nil {
			fmt.Fprintf(&sb, " @%s", formatNumber(*l.RPE))
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "Volume %s kg", formatNumber(w.TotalVolume))
	if w.EstimatedCalories > 0 {
		fmt.Fprintf(&sb, ", ~%.0f kcal", w.EstimatedCalories)
	}
	if w.Editable(b.now()) {
		sb.WriteString("\nStill editable: /undo, /edit.")
	}
	return Reply{Text: sb.String()}
}

func (b *Bot) cmdUndo(ctx context.Context) Reply {
	w, err := b.store.LatestWorkout(ctx, models.DefaultUserID)
	if err != nil {
		return Reply{Text: "No workouts logged yet."}
	}
	if !w.Editable(b.now()) {
		return Reply{Text: "The 30-minute window has closed; the last workout is locked."}
	}
	if err := b.store.DeleteWorkout(ctx, w.ID, w.UserID); err != nil {
		b.log.Error("deleting workout", "error", err)
		return Reply{Text: "Storage error, try again."}
	}
	if _, err := b.store.RecomputeStreak(ctx, w.UserID, b.now(), b.loc); err != nil {
		b.log.Error("recomputing streak", "error", err)
	}
	return textReply("Deleted %q (%s).", w.Title, w.WorkoutDate)
}

func (b *Bot) cmdEdit(ctx context.Context, args string) Reply {
	if strings.TrimSpace(args) == "" {
		return Reply{Text: "Usage: /edit <replacement lines>"}
	}
	existing, err := b.store.LatestWorkout(ctx, models.DefaultUserID)
	if err != nil {
		return Reply{Text: "No workouts logged yet."}
	}
	if !existing.Editable(b.now()) {
		return Reply{Text: "The 30-minute window has closed; the last workout is locked."}
	}

	user, err := b.store.GetUser(ctx, models.DefaultUserID)
	if err != nil {
		return Reply{Text: "Storage error, try again."}
	}
	replacement, report := intake.Build(args, user.BodyWeightOrDefault(), b.now(), b.loc)
	if replacement == nil {
		if report.Bad > 0 {
			return Reply{Text: report.Summary()}
		}
		return Reply{Text: "Nothing parseable in the replacement text."}
	}

	replacement.ID = existing.ID
	replacement.UserID = existing.UserID
	replacement.WorkoutDate = existing.WorkoutDate
	replacement.CreatedAt = existing.CreatedAt
	replacement.Mood = existing.Mood

	if err := b.store.UpdateWorkout(ctx, *replacement); err != nil {
		b.log.Error("updating workout", "error", err)
		return Reply{Text: "Storage error, try again."}
	}
	return textReply("%s\nReplaced; volume is now %s kg.", report.Summary(), formatNumber(replacement.TotalVolume))
}

// cmdCondition parses key=value pairs: sleep, fatigue, stress, soreness, hr.
func (b *Bot) cmdCondition(ctx context.Context, args string) Reply {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return Reply{Text: "Usage: /condition sleep=6.5 fatigue=7 stress=4 soreness=5 hr=58"}
	}
	c := models.DailyCondition{
		UserID:        models.DefaultUserID,
		ConditionDate: b.now().In(b.loc).Format("2006-01-02"),
	}
	for _, f := range fields {
		key, val, ok := strings.Cut(f, "=")
		if !ok {
			return textReply("Could not read %q; use key=value pairs.", f)
		}
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return textReply("Could not read %q as a number.", val)
		}
		switch strings.ToLower(key) {
		case "sleep":
			c.SleepHours = v
		case "fatigue":
			c.FatigueScore = v
		case "stress":
			c.StressScore = v
		case "soreness":
			c.SorenessScore = v
		case "hr":
			c.RestingHR = v
		default:
			return textReply("Unknown field %q; use sleep, fatigue, stress, soreness, hr.", key)
		}
	}
	if err := b.store.UpsertCondition(ctx, c); err != nil {
		b.log.Error("upserting condition", "error", err)
		return Reply{Text: "Storage error, try again."}
	}
	return textReply("Condition logged for %s.", c.ConditionDate)
}

func (b *Bot) cmdCouncil(ctx context.Context) Reply {
	in, err := b.store.FetchCouncilInput(ctx, models.DefaultUserID, b.now(), b.loc)
	if err != nil {
		b.log.Error("fetching council input", "error", err)
		return Reply{Text: "Storage error, try again."}
	}
	return Reply{Text: formatCouncil(council.Consult(*in))}
}

func (b *Bot) cmdWeek(ctx context.Context) Reply {
	today := b.now().In(b.loc)
	start := today.AddDate(0, 0, -6).Format("2006-01-02")
	end := today.Format("2006-01-02")
	workouts, err := b.store.QueryWorkouts(ctx, models.DefaultUserID, start, end)
	if err != nil {
		b.log.Error("querying workouts", "error", err)
		return Reply{Text: "Storage error, try again."}
	}
	return Reply{Text: reports.Weekly(b.now(), b.loc, workouts)}
}

func (b *Bot) cmdMonth(ctx context.Context) Reply {
	today := b.now().In(b.loc)
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, b.loc)
	start := first.AddDate(0, -1, 0).Format("2006-01-02")
	end := first.AddDate(0, 1, -1).Format("2006-01-02")
	workouts, err := b.store.QueryWorkouts(ctx, models.DefaultUserID, start, end)
	if err != nil {
		b.log.Error("querying workouts", "error", err)
		return Reply{Text: "Storage error, try again."}
	}
	return Reply{Text: reports.Monthly(today.Year(), today.Month(), workouts, workouts)}
}

func (b *Bot) cmdExport(ctx context.Context) Reply {
	workouts, err := b.store.AllWorkouts(ctx, models.DefaultUserID)
	if err != nil {
		b.log.Error("querying workouts", "error", err)
		return Reply{Text: "Storage error, try again."}
	}
	if len(workouts) == 0 {
		return Reply{Text: "No workouts to export yet."}
	}
	csv, err := export.CSV(workouts)
	if err != nil {
		b.log.Error("encoding export", "error", err)
		return Reply{Text: "Export failed, try again."}
	}
	return Reply{
		Text: fmt.Sprintf("%d workouts.", len(workouts)),
		Document: &tgbotapi.FileBytes{
			Name:  "workouts.csv",
			Bytes: []byte(csv),
		},
	}
}

func (b *Bot) cmdRecompute(ctx context.Context) Reply {
	workouts, err := b.store.AllWorkouts(ctx, models.DefaultUserID)
	if err != nil {
		b.log.Error("querying workouts", "error", err)
		return Reply{Text: "Storage error, try again."}
	}
	var best prs.Big3
	for _, w := range workouts {
		b3 := prs.EstimateBig3(w.Logs)
		if b3.Squat > best.Squat {
			best.Squat = b3.Squat
		}
		if b3.Bench > best.Bench {
			best.Bench = b3.Bench
		}
		if b3.Dead > best.Dead {
			best.Dead = b3.Dead
		}
	}
	if !best.Empty() {
		if err := b.store.ApplyBig3(ctx, models.DefaultUserID, best.Squat, best.Bench, best.Dead); err != nil {
			b.log.Error("applying 1RM estimates", "error", err)
		}
	}
	streak, err := b.store.RecomputeStreak(ctx, models.DefaultUserID, b.now(), b.loc)
	if err != nil {
		b.log.Error("recomputing streak", "error", err)
		return Reply{Text: "Storage error, try again."}
	}
	return textReply("Recomputed over %d workouts. Streak %d. 1RM S/B/D: %s/%s/%s kg.",
		len(workouts), streak,
		formatNumber(best.Squat), formatNumber(best.Bench), formatNumber(best.Dead))
}

func (b *Bot) cmdRemind(ctx context.Context, args string) Reply {
	fields := strings.Fields(args)
	user, err := b.store.GetUser(ctx, models.DefaultUserID)
	if err != nil {
		return Reply{Text: "Storage error, try again."}
	}
	if len(fields) == 0 {
		state := "off"
		if user.RemindEnabled {
			state = fmt.Sprintf("on at %02d:00", user.RemindHour)
		}
		return textReply("Reminder is %s. Use /remind on 21 or /remind off.", state)
	}

	enabled := user.RemindEnabled
	hour := user.RemindHour
	switch fields[0] {
	case "on":
		enabled = true
	case "off":
		enabled = false
	default:
		return Reply{Text: "Usage: /remind on|off [hour]"}
	}
	if len(fields) > 1 {
		h, err := strconv.Atoi(fields[1])
		if err != nil || h < 0 || h > 23 {
			return Reply{Text: "Hour must be 0-23."}
		}
		hour = h
	}
	if err := b.store.SetReminder(ctx, user.ID, enabled, hour); err != nil {
		return Reply{Text: "Storage error, try again."}
	}
	if enabled {
		return textReply("Reminder on at %02d:00.", hour)
	}
	return Reply{Text: "Reminder off."}
}

// formatCouncil renders the ensemble result for chat.
func formatCouncil(res council.Result) string {
	if len(res.Top) == 0 {
		return "The council has nothing to say."
	}
	var sb strings.Builder
	sb.WriteString("*Council verdict*\n")
	for i, a := range res.Top {
		marker := "·"
		if a.Risk == council.RiskHigh {
			marker = "⚠"
		}
		fmt.Fprintf(&sb, "%d. %s [%s/%d] %s\n", i+1, marker, a.Agent, a.Priority, a.Headline)
		fmt.Fprintf(&sb, "   %s\n", a.Action)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// formatNumber trims trailing zeros: 100 not 100.0, 7.5 stays 7.5.
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 1, 64)
	s = strings.TrimSuffix(s, ".0")
	return s
}
