package models

// GoalMode is the single discriminator controlling which advice path runs.
type GoalMode string

const (
	GoalFatLoss    GoalMode = "fat_loss"
	GoalMuscleGain GoalMode = "muscle_gain"
)

// NormalizeGoalMode coerces arbitrary stored values to a valid mode.
// Anything that is not muscle_gain falls back to fat_loss.
func NormalizeGoalMode(v string) GoalMode {
	if v == string(GoalMuscleGain) {
		return GoalMuscleGain
	}
	return GoalFatLoss
}

// DefaultUserID identifies the single tenant. The system is explicitly
// single-user; every row hangs off this ID.
const DefaultUserID = "me"

// DefaultBodyWeightKg is used for calorie estimation when the profile has
// no body weight yet.
const DefaultBodyWeightKg = 75

// User is the single owner profile.
type User struct {
	ID             string   `json:"id"`
	FullName       string   `json:"full_name"`
	GoalMode       GoalMode `json:"goal_mode"`
	WeightKg       float64  `json:"weight"`
	Squat1RM       float64  `json:"estimated_1rm_squat"`
	Bench1RM       float64  `json:"estimated_1rm_bench"`
	Dead1RM        float64  `json:"estimated_1rm_dead"`
	CurrentStreak  int      `json:"current_streak"`
	TelegramChatID int64    `json:"telegram_chat_id,omitempty"`
	RemindEnabled  bool     `json:"remind_enabled"`
	RemindHour     int      `json:"remind_hour"`
	Timezone       string   `json:"timezone"`
}

// BodyWeightOrDefault returns the profile weight, or the default when unset.
func (u User) BodyWeightOrDefault() float64 {
	if u.WeightKg > 0 {
		return u.WeightKg
	}
	return DefaultBodyWeightKg
}
