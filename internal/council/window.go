package council

import "time"

// Dates compare lexically in YYYY-MM-DD form, so rolling windows are plain
// string-range filters.

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func addDays(ymd string, days int) string {
	t, err := time.Parse("2006-01-02", ymd)
	if err != nil {
		return ymd
	}
	return t.AddDate(0, 0, days).Format("2006-01-02")
}

func daysBetween(from, to string) int {
	a, errA := time.Parse("2006-01-02", from)
	b, errB := time.Parse("2006-01-02", to)
	if errA != nil || errB != nil {
		return 0
	}
	return int(b.Sub(a).Hours() / 24)
}

func inRange(rows []Workout, from, to string) []Workout {
	out := make([]Workout, 0, len(rows))
	for _, r := range rows {
		if r.Date >= from && r.Date <= to {
			out = append(out, r)
		}
	}
	return out
}

func sumBy(rows []Workout, f func(Workout) float64) float64 {
	var acc float64
	for _, r := range rows {
		acc += f(r)
	}
	return acc
}
