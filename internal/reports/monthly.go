package reports

import (
	"fmt"
	"strings"
	"time"

	"github.com/claude/ironquant/internal/models"
)

// Monthly builds a report for the given calendar month, comparing total
// volume against the previous month. Callers pass both months' rows;
// anything outside the two ranges is ignored.
func Monthly(year int, month time.Month, workouts, prevWorkouts []models.Workout) string {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	start := first.Format("2006-01-02")
	end := first.AddDate(0, 1, -1).Format("2006-01-02")

	var totalVolume, upperVolume, lowerVolume float64
	sessions := 0
	activeDays := map[string]bool{}
	// Volume per ISO week-of-month bucket (1..5) for the sparkline.
	weekVolumes := make([]float64, 5)

	for _, w := range workouts {
		if w.WorkoutDate < start || w.WorkoutDate > end {
			continue
		}
		sessions++
		activeDays[w.WorkoutDate] = true
		totalVolume += w.TotalVolume

		t, err := time.Parse("2006-01-02", w.WorkoutDate)
		if err == nil {
			week := (t.Day() - 1) / 7
			weekVolumes[week] += w.TotalVolume
		}

		for _, l := range w.Logs {
			switch classifyName(l.Name) {
			case "upper":
				upperVolume += l.Volume()
			case "lower":
				lowerVolume += l.Volume()
			}
		}
	}

	var prevVolume float64
	prevFirst := first.AddDate(0, -1, 0)
	prevStart := prevFirst.Format("2006-01-02")
	prevEnd := prevFirst.AddDate(0, 1, -1).Format("2006-01-02")
	for _, w := range prevWorkouts {
		if w.WorkoutDate >= prevStart && w.WorkoutDate <= prevEnd {
			prevVolume += w.TotalVolume
		}
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("*🗓 Monthly report* (%d-%02d)", year, int(month)))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("- Active: *%d days*", len(activeDays)))
	lines = append(lines, fmt.Sprintf("- Sessions: *%d*", sessions))
	lines = append(lines, fmt.Sprintf("- Total volume: *%.0fkg*", totalVolume))
	lines = append(lines, fmt.Sprintf("- Weekly spark: `%s`", sparkline(weekVolumes)))

	if prevVolume > 0 {
		delta := 100 * (totalVolume/prevVolume - 1)
		arrow := "📈"
		if delta < 0 {
			arrow = "📉"
		}
		lines = append(lines, fmt.Sprintf("- Month over month: %s *%+.1f%%*", arrow, delta))
	}

	switch {
	case upperVolume > lowerVolume*1.4:
		lines = append(lines, "- Sector balance: lower body is undervalued. Buy squats.")
	case lowerVolume > upperVolume*1.4:
		lines = append(lines, "- Sector balance: upper body allocation is light. Add bench or rows.")
	case upperVolume > 0 || lowerVolume > 0:
		lines = append(lines, "- Sector balance: portfolio well balanced.")
	}

	return strings.Join(lines, "\n")
}
