package council

import (
	"fmt"
	"time"
)

var weekdayNames = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// AnalyzeByPsych guards adherence: dropout after no history at all, growing
// gaps since the last session, and weekday-bias holes in the 28-day habit
// grid. Gap-based and weekday-bias items may co-occur, gap check first.
func AnalyzeByPsych(in Input) []Advice {
	today := dayKey(in.Now)

	var last *Workout
	for i := range in.Workouts {
		if last == nil || in.Workouts[i].Date > last.Date {
			last = &in.Workouts[i]
		}
	}

	if last == nil {
		return []Advice{{
			Agent:      AgentPsych,
			Mode:       in.User.Mode,
			Priority:   91,
			Confidence: 0.9,
			Risk:       RiskHigh,
			Horizon:    HorizonToday,
			Headline:   "Market dropout detected",
			Reason:     []string{"No recent records at all."},
			Action:     "Re-enter the market today with a minimal 10-minute loggable action (a walk, a light routine).",
			Tags:       []string{"adherence", "restart"},
		}}
	}

	var advices []Advice

	gap := daysBetween(last.Date, today)
	if gap < 0 {
		gap = 0
	}
	if gap >= 4 {
		advices = append(advices, Advice{
			Agent:      AgentPsych,
			Mode:       in.User.Mode,
			Priority:   89,
			Confidence: 0.88,
			Risk:       RiskHigh,
			Horizon:    HorizonToday,
			Headline:   "Three-day-resolution pattern warning",
			Reason:     []string{fmt.Sprintf("%d days since the last record", gap)},
			Action:     "Resumption beats intensity. Complete a very easy 12-20 minute session today.",
			Tags:       []string{"streak", "habit"},
		})
	} else if gap >= 2 {
		advices = append(advices, Advice{
			Agent:      AgentPsych,
			Mode:       in.User.Mode,
			Priority:   72,
			Confidence: 0.8,
			Risk:       RiskMedium,
			Horizon:    HorizonToday,
			Headline:   "Pre-dropout signal",
			Reason:     []string{fmt.Sprintf("Recent gap of %d days", gap)},
			Action:     "Defend the streak with a 15-minute routine today. Showing up matters more than length.",
			Tags:       []string{"streak", "consistency"},
		})
	}

	// Weekday dropout detection over the trailing 28 days.
	since := dayKey(in.Now.AddDate(0, 0, -27))
	var byDow [7]int
	for _, w := range in.Workouts {
		if w.Date < since {
			continue
		}
		t, err := time.Parse("2006-01-02", w.Date)
		if err != nil {
			continue
		}
		byDow[int(t.Weekday())]++
	}
	minCount, maxCount, missing := byDow[0], byDow[0], -1
	for d, c := range byDow {
		if c < minCount {
			minCount = c
		}
		if c > maxCount {
			maxCount = c
		}
		if c == 0 && missing < 0 {
			missing = d
		}
	}
	if maxCount >= 3 && minCount == 0 {
		day := weekdayNames[missing]
		advices = append(advices, Advice{
			Agent:      AgentPsych,
			Mode:       in.User.Mode,
			Priority:   64,
			Confidence: 0.72,
			Risk:       RiskLow,
			Horizon:    HorizonWeek,
			Headline:   "Weekday bias pattern",
			Reason:     []string{fmt.Sprintf("No %s records in the last 4 weeks.", day)},
			Action:     fmt.Sprintf("Pre-book a 10-minute mini session for next %s.", day),
			Tags:       []string{"weekday", "habit"},
		})
	}

	if len(advices) == 0 {
		advices = append(advices, Advice{
			Agent:      AgentPsych,
			Mode:       in.User.Mode,
			Priority:   50,
			Confidence: 0.7,
			Risk:       RiskLow,
			Horizon:    HorizonWeek,
			Headline:   "Adherence holding",
			Reason:     []string{fmt.Sprintf("Current streak: %d days", in.User.CurrentStreak)},
			Action:     "Don't leave the market. Start with a single set at the same time tomorrow.",
			Tags:       []string{"habit", "motivation"},
		})
	}

	return advices
}
