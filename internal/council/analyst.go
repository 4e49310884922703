package council

import (
	"fmt"

	"github.com/claude/ironquant/internal/models"
)

// AnalyzeByAnalyst compares the rolling 7-day window against the prior week
// and reads momentum like a chart. Fat-loss mode can stack several items
// (shortfall plus a declining trend); muscle-gain mode always returns exactly
// one.
func AnalyzeByAnalyst(in Input) []Advice {
	end := dayKey(in.Now)
	start := addDays(end, -6)
	prevStart := addDays(end, -13)
	prevEnd := addDays(end, -7)

	cur := inRange(in.Workouts, start, end)
	prev := inRange(in.Workouts, prevStart, prevEnd)

	if in.User.Mode == models.GoalFatLoss {
		return analyzeFatLoss(cur, prev)
	}
	return []Advice{analyzeMuscleGain(cur, prev)}
}

func analyzeFatLoss(cur, prev []Workout) []Advice {
	minutes := sumBy(cur, func(w Workout) float64 { return w.DurationMinutes })
	prevMinutes := sumBy(prev, func(w Workout) float64 { return w.DurationMinutes })
	distance := sumBy(cur, func(w Workout) float64 { return w.CardioDistanceKm })
	calories := sumBy(cur, func(w Workout) float64 { return w.EstimatedCalories })

	var advices []Advice

	if minutes < 120 {
		advices = append(advices, Advice{
			Agent:      AgentAnalyst,
			Mode:       models.GoalFatLoss,
			Priority:   88,
			Confidence: 0.9,
			Risk:       RiskMedium,
			Horizon:    HorizonWeek,
			Headline:   "Buying pressure (activity) shortfall",
			Reason: []string{
				fmt.Sprintf("Cardio over the last 7 days: %.0f min (target 150+)", minutes),
				fmt.Sprintf("Distance covered over the last 7 days: %.1f km", distance),
			},
			Action: "Add two Zone 2 cardio sessions of 25-35 minutes in what remains of this week.",
			Tags:   []string{"fat", "minutes", "distance"},
		})
	} else if minutes < 150 {
		advices = append(advices, Advice{
			Agent:      AgentAnalyst,
			Mode:       models.GoalFatLoss,
			Priority:   74,
			Confidence: 0.8,
			Risk:       RiskLow,
			Horizon:    HorizonWeek,
			Headline:   "Near the target line, close out the week",
			Reason: []string{
				fmt.Sprintf("Cardio over the last 7 days: %.0f min", minutes),
				fmt.Sprintf("Estimated burn: %.0f kcal", calories),
			},
			Action: "One more 20-30 minute cardio session reaches the 150-minute weekly target.",
			Tags:   []string{"fat", "target"},
		})
	}

	if prevMinutes > 0 && minutes < prevMinutes*0.75 {
		advices = append(advices, Advice{
			Agent:      AgentAnalyst,
			Mode:       models.GoalFatLoss,
			Priority:   79,
			Confidence: 0.84,
			Risk:       RiskMedium,
			Horizon:    HorizonWeek,
			Headline:   "Trend line turning down",
			Reason: []string{
				fmt.Sprintf("Prior week %.0f min, this week %.0f min", prevMinutes, minutes),
				"Activity momentum has slowed down.",
			},
			Action: "Split cardio into short frequent 15-20 minute sessions to recover frequency.",
			Tags:   []string{"fat", "trend"},
		})
	}

	if len(advices) == 0 {
		advices = append(advices, Advice{
			Agent:      AgentAnalyst,
			Mode:       models.GoalFatLoss,
			Priority:   58,
			Confidence: 0.75,
			Risk:       RiskLow,
			Horizon:    HorizonWeek,
			Headline:   "Fat-loss trend holding",
			Reason: []string{
				fmt.Sprintf("Cardio over the last 7 days: %.0f min", minutes),
				fmt.Sprintf("Distance covered over the last 7 days: %.1f km", distance),
			},
			Action: "Keep the current pace, and pin down your sleep and meal times.",
			Tags:   []string{"fat", "stable"},
		})
	}

	return advices
}

// analyzeMuscleGain selects exactly one fully-formed variant rather than
// mutating a base record per branch.
func analyzeMuscleGain(cur, prev []Workout) Advice {
	volume := sumBy(cur, func(w Workout) float64 { return w.TotalVolume })
	prevVolume := sumBy(prev, func(w Workout) float64 { return w.TotalVolume })
	sessions := len(cur)

	switch {
	case sessions < 3:
		return Advice{
			Agent:      AgentAnalyst,
			Mode:       models.GoalMuscleGain,
			Priority:   84,
			Confidence: 0.9,
			Risk:       RiskMedium,
			Horizon:    HorizonWeek,
			Headline:   "Trading volume too thin (session shortfall)",
			Reason: []string{
				fmt.Sprintf("Sessions over the last 7 days: %d", sessions),
				"Below 3 sessions a week, overload trend analysis loses reliability.",
			},
			Action: "Add at least one session this week to secure 3+ sessions per week.",
			Tags:   []string{"muscle", "sessions"},
		}
	case prevVolume > 0 && volume < prevVolume*0.9:
		return Advice{
			Agent:      AgentAnalyst,
			Mode:       models.GoalMuscleGain,
			Priority:   78,
			Confidence: 0.82,
			Risk:       RiskMedium,
			Horizon:    HorizonWeek,
			Headline:   "Volume momentum slowing",
			Reason: []string{
				fmt.Sprintf("Prior week %.0f kg, this week %.0f kg", prevVolume, volume),
			},
			Action: "Raise total reps or load on your main lifts by 5-8% next session.",
			Tags:   []string{"muscle", "momentum"},
		}
	case prevVolume > 0 && volume > prevVolume*1.05:
		return Advice{
			Agent:      AgentAnalyst,
			Mode:       models.GoalMuscleGain,
			Priority:   55,
			Confidence: 0.8,
			Risk:       RiskLow,
			Horizon:    HorizonWeek,
			Headline:   "Uptrend intact",
			Reason: []string{
				fmt.Sprintf("Volume growth %.1f%%", 100*(volume/prevVolume-1)),
			},
			Action: "Hold the current loading increments and keep an eye on fatigue markers.",
			Tags:   []string{"muscle", "uptrend"},
		}
	default:
		return Advice{
			Agent:      AgentAnalyst,
			Mode:       models.GoalMuscleGain,
			Priority:   62,
			Confidence: 0.74,
			Risk:       RiskLow,
			Horizon:    HorizonWeek,
			Headline:   "Sideways market",
			Reason: []string{
				fmt.Sprintf("Total volume over the last 7 days: %.0f kg", volume),
				fmt.Sprintf("Sessions: %d", sessions),
			},
			Action: "Nudge a single top set on a main lift upward to force a breakout signal.",
			Tags:   []string{"muscle", "volume"},
		}
	}
}
