// Package reports builds Telegram-Markdown training reports over pre-fetched
// history. All builders are pure; callers fetch the rows first.
package reports

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/claude/ironquant/internal/models"
)

type dayBucket struct {
	count  int
	volume float64
	rpeSum float64
	rpeN   int
	names  []string
}

// Weekly builds the 7-day report ending today in the given location.
// Workouts outside the window are ignored, so callers can pass a superset.
func Weekly(now time.Time, loc *time.Location, workouts []models.Workout) string {
	end := now.In(loc).Format("2006-01-02")
	endT, _ := time.Parse("2006-01-02", end)

	days := make([]string, 7)
	for i := range days {
		days[i] = endT.AddDate(0, 0, i-6).Format("2006-01-02")
	}
	start := days[0]

	byDay := make(map[string]*dayBucket, 7)
	for _, d := range days {
		byDay[d] = &dayBucket{}
	}

	for _, w := range workouts {
		b, ok := byDay[w.WorkoutDate]
		if !ok {
			continue
		}
		b.count++
		b.volume += w.TotalVolume
		if w.AverageRPE > 0 {
			b.rpeSum += w.AverageRPE
			b.rpeN++
		}
		for _, l := range w.Logs {
			if n := strings.TrimSpace(l.Name); n != "" {
				b.names = append(b.names, n)
			}
		}
		if t := strings.TrimSpace(w.Title); t != "" {
			b.names = append(b.names, t)
		}
	}

	volumes := make([]float64, 7)
	sessions, activeDays := 0, 0
	var totalVolume, rpeSum float64
	rpeN := 0
	for i, d := range days {
		b := byDay[d]
		volumes[i] = b.volume
		sessions += b.count
		if b.count > 0 {
			activeDays++
		}
		totalVolume += b.volume
		rpeSum += b.rpeSum
		rpeN += b.rpeN
	}

	top := topNames(byDay, days, 3)

	var advice string
	switch {
	case activeDays == 0:
		advice = "No records this week. Getting even one session logged is the top priority for next week."
	case activeDays <= 2:
		advice = "Few trading days. Hitting three sessions next week (any split) brings the fastest gains."
	case rpeN > 0 && rpeSum/float64(rpeN) >= 8.7:
		advice = "Fatigue is running high. Mix in a rest day or a 90% deload next week."
	default:
		advice = "Solid. Next week, shore up just one lagging sector (upper or lower body)."
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("*📅 Weekly report* (%s ~ %s)", start, end))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("- Active: *%d days* / 7", activeDays))
	lines = append(lines, fmt.Sprintf("- Sessions: *%d*", sessions))
	lines = append(lines, fmt.Sprintf("- Total volume: *%.0fkg*", totalVolume))
	if rpeN > 0 {
		lines = append(lines, fmt.Sprintf("- Average RPE: *%.1f*", rpeSum/float64(rpeN)))
	}
	lines = append(lines, fmt.Sprintf("- Volume spark: `%s`", sparkline(volumes)))
	if len(top) > 0 {
		quoted := make([]string, len(top))
		for i, t := range top {
			quoted[i] = "`" + t + "`"
		}
		lines = append(lines, "- Top: "+strings.Join(quoted, ", "))
	}
	lines = append(lines, "")
	lines = append(lines, "💬 *Next action*: "+advice)

	return strings.Join(lines, "\n")
}

func topNames(byDay map[string]*dayBucket, days []string, n int) []string {
	freq := map[string]int{}
	for _, d := range days {
		for _, name := range byDay[d].names {
			freq[strings.ToLower(name)]++
		}
	}
	type kv struct {
		name  string
		count int
	}
	items := make([]kv, 0, len(freq))
	for k, c := range freq {
		items = append(items, kv{k, c})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].count != items[j].count {
			return items[i].count > items[j].count
		}
		return items[i].name < items[j].name
	})
	out := make([]string, 0, n)
	for _, it := range items {
		if len(out) == n {
			break
		}
		out = append(out, it.name)
	}
	return out
}
