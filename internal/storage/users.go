package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/claude/ironquant/internal/models"
)

// EnsureUser creates the profile row if it does not exist and returns it.
// The system is single-tenant, so this runs once at startup with the
// config-seeded name and body weight.
func (db *DB) EnsureUser(ctx context.Context, id, name string, weightKg float64, timezone string, remindHour int) (*models.User, error) {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO users (id, full_name, goal_mode, weight_kg, timezone, remind_hour)
		VALUES ($1, $2, 'fat_loss', $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`, id, name, weightKg, timezone, remindHour)
	if err != nil {
		return nil, fmt.Errorf("ensuring user: %w", err)
	}
	return db.GetUser(ctx, id)
}

// GetUser retrieves the profile row.
func (db *DB) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	var mode string
	err := db.Pool.QueryRow(ctx, `
		SELECT id, full_name, goal_mode, weight_kg,
		       estimated_1rm_squat, estimated_1rm_bench, estimated_1rm_dead,
		       current_streak, telegram_chat_id, remind_enabled, remind_hour, timezone
		FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.FullName, &mode, &u.WeightKg,
		&u.Squat1RM, &u.Bench1RM, &u.Dead1RM,
		&u.CurrentStreak, &u.TelegramChatID, &u.RemindEnabled, &u.RemindHour, &u.Timezone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}
	u.GoalMode = models.NormalizeGoalMode(mode)
	return &u, nil
}

// SetGoalMode switches between fat_loss and muscle_gain.
func (db *DB) SetGoalMode(ctx context.Context, id string, mode models.GoalMode) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE users SET goal_mode = $2 WHERE id = $1`, id, string(mode))
	if err != nil {
		return fmt.Errorf("setting goal mode: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateWeight sets the profile body weight used for calorie estimation.
func (db *DB) UpdateWeight(ctx context.Context, id string, weightKg float64) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE users SET weight_kg = $2 WHERE id = $1`, id, weightKg)
	if err != nil {
		return fmt.Errorf("updating weight: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyBig3 raises stored 1RM estimates to the given values, never lowering
// them. Zero-valued inputs leave the stored estimate alone.
func (db *DB) ApplyBig3(ctx context.Context, id string, squat, bench, dead float64) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE users SET
			estimated_1rm_squat = GREATEST(estimated_1rm_squat, $2),
			estimated_1rm_bench = GREATEST(estimated_1rm_bench, $3),
			estimated_1rm_dead  = GREATEST(estimated_1rm_dead, $4)
		WHERE id = $1
	`, id, squat, bench, dead)
	if err != nil {
		return fmt.Errorf("applying 1RM estimates: %w", err)
	}
	return nil
}

// SetStreak stores the recomputed consecutive-day streak.
func (db *DB) SetStreak(ctx context.Context, id string, streak int) error {
	_, err := db.Pool.Exec(ctx,
		`UPDATE users SET current_streak = $2 WHERE id = $1`, id, streak)
	if err != nil {
		return fmt.Errorf("setting streak: %w", err)
	}
	return nil
}

// BindTelegramChat records the chat the bot should talk to.
func (db *DB) BindTelegramChat(ctx context.Context, id string, chatID int64) error {
	_, err := db.Pool.Exec(ctx,
		`UPDATE users SET telegram_chat_id = $2 WHERE id = $1`, id, chatID)
	if err != nil {
		return fmt.Errorf("binding telegram chat: %w", err)
	}
	return nil
}

// SetReminder toggles the daily nudge and its local hour.
func (db *DB) SetReminder(ctx context.Context, id string, enabled bool, hour int) error {
	_, err := db.Pool.Exec(ctx,
		`UPDATE users SET remind_enabled = $2, remind_hour = $3 WHERE id = $1`,
		id, enabled, hour)
	if err != nil {
		return fmt.Errorf("setting reminder: %w", err)
	}
	return nil
}
