package council

import (
	"fmt"
	"sort"
)

// How many of the most recent workouts the physio agent inspects.
const physioWindow = 8

// AnalyzeByPhysio watches for overheating: sustained or extreme RPE in the
// recent history, and acute recovery signals from the latest daily condition.
// Its high-risk items are the only ones eligible for the ensemble veto.
func AnalyzeByPhysio(in Input) []Advice {
	recent := append([]Workout(nil), in.Workouts...)
	sort.Slice(recent, func(i, j int) bool { return recent[i].Date > recent[j].Date })
	if len(recent) > physioWindow {
		recent = recent[:physioWindow]
	}

	var rpes []float64
	for _, w := range recent {
		if w.AverageRPE > 0 {
			rpes = append(rpes, w.AverageRPE)
		}
	}

	var maxRPE, sumRPE float64
	highRPEDays := 0
	for _, v := range rpes {
		if v > maxRPE {
			maxRPE = v
		}
		if v >= 8.5 {
			highRPEDays++
		}
		sumRPE += v
	}
	avgRPE := 0.0
	if len(rpes) > 0 {
		avgRPE = sumRPE / float64(len(rpes))
	}

	cond := latestCondition(in.Conditions)

	var advices []Advice

	if maxRPE >= 9.5 || highRPEDays >= 4 {
		advices = append(advices, Advice{
			Agent:      AgentPhysio,
			Mode:       in.User.Mode,
			Priority:   96,
			Confidence: 0.92,
			Risk:       RiskHigh,
			Horizon:    HorizonToday,
			Headline:   "High injury-risk zone",
			Reason: []string{
				fmt.Sprintf("Peak RPE %.1f", maxRPE),
				fmt.Sprintf("High-intensity days: %d", highRPEDays),
			},
			Action: "Halt trading today (rest), or deload to 60-70% intensity.",
			Tags:   []string{"recovery", "injury", "veto"},
		})
	} else if avgRPE >= 8.3 {
		advices = append(advices, Advice{
			Agent:      AgentPhysio,
			Mode:       in.User.Mode,
			Priority:   80,
			Confidence: 0.84,
			Risk:       RiskMedium,
			Horizon:    HorizonToday,
			Headline:   "Pre-overheat zone",
			Reason: []string{
				fmt.Sprintf("Recent average RPE %.1f", avgRPE),
			},
			Action: "Cap the next session at RPE 7-8 to bank some recovery margin.",
			Tags:   []string{"recovery", "rpe"},
		})
	}

	if cond != nil {
		sleepShort := cond.SleepHours > 0 && cond.SleepHours < 6
		if sleepShort || cond.FatigueScore >= 8 || cond.StressScore >= 8 || cond.SorenessScore >= 8 {
			sleepLine := "No sleep data"
			if cond.SleepHours > 0 {
				sleepLine = fmt.Sprintf("Sleep %.1fh", cond.SleepHours)
			}
			advices = append(advices, Advice{
				Agent:      AgentPhysio,
				Mode:       in.User.Mode,
				Priority:   90,
				Confidence: 0.88,
				Risk:       RiskHigh,
				Horizon:    HorizonToday,
				Headline:   "Recovery-signal warning",
				Reason: []string{
					sleepLine,
					fmt.Sprintf("Fatigue %.0f/10, stress %.0f/10, soreness %.0f/10",
						cond.FatigueScore, cond.StressScore, cond.SorenessScore),
				},
				Action: "Switch to a light recovery session (easy cardio/stretching) and push hard training a day out.",
				Tags:   []string{"sleep", "fatigue", "stress"},
			})
		}
	}

	if len(advices) == 0 {
		advices = append(advices, Advice{
			Agent:      AgentPhysio,
			Mode:       in.User.Mode,
			Priority:   52,
			Confidence: 0.7,
			Risk:       RiskLow,
			Horizon:    HorizonToday,
			Headline:   "Risk management adequate",
			Reason: []string{
				"No immediate warning from overheat or recovery indicators.",
			},
			Action: "Keep the planned intensity, and lock in a 10-minute cooldown after the session.",
			Tags:   []string{"recovery", "stable"},
		})
	}

	return advices
}

func latestCondition(conds []Condition) *Condition {
	var latest *Condition
	for i := range conds {
		if latest == nil || conds[i].Date > latest.Date {
			latest = &conds[i]
		}
	}
	return latest
}
