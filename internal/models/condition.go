package models

// DailyCondition is an optional wellness signal, one row per calendar day.
// All scores are subjective 0-10 scales; sleep is hours and resting HR is bpm.
// Absence of a row for a day is valid.
type DailyCondition struct {
	UserID        string  `json:"user_id"`
	ConditionDate string  `json:"condition_date"` // YYYY-MM-DD
	SleepHours    float64 `json:"sleep_hours"`
	FatigueScore  float64 `json:"fatigue_score"`
	StressScore   float64 `json:"stress_score"`
	SorenessScore float64 `json:"soreness_score"`
	RestingHR     float64 `json:"resting_hr"`
}
