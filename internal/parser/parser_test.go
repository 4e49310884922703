package parser

import (
	"testing"

	"github.com/claude/ironquant/internal/energy"
)

// TestParseStrengthFull verifies the canonical weight/reps/sets line with an
// RPE suffix.
func TestParseStrengthFull(t *testing.T) {
	e := Parse("스쿼트 100 5 3 @8", 75)
	if e == nil {
		t.Fatal("expected entry")
	}
	if e.Name != "스쿼트" || e.Weight != 100 || e.Reps != 5 || e.Sets != 3 {
		t.Errorf("entry = %+v", e)
	}
	if e.Cardio {
		t.Error("squat classified as cardio")
	}
	if e.RPE == nil || *e.RPE != 8 {
		t.Errorf("rpe = %v, want 8", e.RPE)
	}
	if e.DurationMinutes != 14 {
		t.Errorf("duration = %v, want 3 sets x 3 + 5", e.DurationMinutes)
	}
	if e.Calories <= 0 || e.CalorieConfidence != energy.ConfidenceMedium {
		t.Errorf("calories = %d (%s)", e.Calories, e.CalorieConfidence)
	}
}

// TestParseSeparators verifies multiplication-style shorthand (60x10x5 and
// friends) splits into weight/reps/sets.
func TestParseSeparators(t *testing.T) {
	for _, line := range []string{"벤치프레스 80x5x3", "벤치프레스 80×5×3", "벤치프레스 80*5*3"} {
		e := Parse(line, 75)
		if e == nil {
			t.Fatalf("%q: expected entry", line)
		}
		if e.Weight != 80 || e.Reps != 5 || e.Sets != 3 {
			t.Errorf("%q: got %v/%d/%d, want 80/5/3", line, e.Weight, e.Reps, e.Sets)
		}
	}
}

// TestParseTwoNumbersDefaultsSets verifies that a weight+reps pair assumes
// three sets.
func TestParseTwoNumbersDefaultsSets(t *testing.T) {
	e := Parse("데드리프트 140 5", 75)
	if e == nil {
		t.Fatal("expected entry")
	}
	if e.Weight != 140 || e.Reps != 5 || e.Sets != 3 {
		t.Errorf("got %v/%d/%d, want 140/5/3", e.Weight, e.Reps, e.Sets)
	}
}

// TestParseSingleNumber verifies a bare weight yields a 1x1 entry.
func TestParseSingleNumber(t *testing.T) {
	e := Parse("스쿼트 100", 75)
	if e == nil {
		t.Fatal("expected entry")
	}
	if e.Weight != 100 || e.Reps != 1 || e.Sets != 1 {
		t.Errorf("got %v/%d/%d, want 100/1/1", e.Weight, e.Reps, e.Sets)
	}
}

// TestParseMultiWordName verifies numeric-tail splitting keeps multi-word
// exercise names intact.
func TestParseMultiWordName(t *testing.T) {
	e := Parse("인클라인 벤치프레스 60 10 5", 75)
	if e == nil {
		t.Fatal("expected entry")
	}
	if e.Name != "인클라인 벤치프레스" {
		t.Errorf("name = %q", e.Name)
	}
	if e.Weight != 60 || e.Reps != 10 || e.Sets != 5 {
		t.Errorf("got %v/%d/%d, want 60/10/5", e.Weight, e.Reps, e.Sets)
	}
}

// TestParseListMarker verifies bullet prefixes are ignored.
func TestParseListMarker(t *testing.T) {
	e := Parse("- 스쿼트 60 10", 75)
	if e == nil || e.Name != "스쿼트" || e.Weight != 60 {
		t.Fatalf("entry = %+v", e)
	}
}

// TestParseRPEForms verifies the @, fullwidth ＠, and spelled-out RPE forms.
func TestParseRPEForms(t *testing.T) {
	cases := map[string]float64{
		"스쿼트 100 5 3 @9":    9,
		"스쿼트 100 5 3 ＠8.5":  8.5,
		"스쿼트 100 5 3 rpe 7": 7,
		"스쿼트 100 5 3 RPE7":  7,
	}
	for line, want := range cases {
		e := Parse(line, 75)
		if e == nil {
			t.Fatalf("%q: expected entry", line)
		}
		if e.RPE == nil || *e.RPE != want {
			t.Errorf("%q: rpe = %v, want %v", line, e.RPE, want)
		}
	}
}

// TestParseCardioWithUnits verifies the "러닝머신 30분 8km/h" form: duration
// becomes the primary metric and distance is derived from speed.
func TestParseCardioWithUnits(t *testing.T) {
	e := Parse("러닝머신 30분 8km/h", 75)
	if e == nil {
		t.Fatal("expected entry")
	}
	if !e.Cardio {
		t.Fatal("treadmill not classified as cardio")
	}
	if e.Weight != 30 || e.DurationMinutes != 30 {
		t.Errorf("minutes = %v, duration = %v, want 30/30", e.Weight, e.DurationMinutes)
	}
	if e.SpeedKph == nil || *e.SpeedKph != 8 {
		t.Errorf("speed = %v, want 8", e.SpeedKph)
	}
	if e.DistanceKm == nil || *e.DistanceKm != 4 {
		t.Errorf("distance = %v, want 4", e.DistanceKm)
	}
	if e.Calories <= 0 || e.CalorieConfidence != energy.ConfidenceHigh {
		t.Errorf("calories = %d (%s)", e.Calories, e.CalorieConfidence)
	}
}

// TestParseCardioShorthand verifies the bare-number cardio form where the
// second number is read as a speed.
func TestParseCardioShorthand(t *testing.T) {
	e := Parse("러닝 30 10", 75)
	if e == nil {
		t.Fatal("expected entry")
	}
	if e.Weight != 30 || e.DurationMinutes != 30 {
		t.Errorf("minutes = %v, duration = %v", e.Weight, e.DurationMinutes)
	}
	if e.SpeedKph == nil || *e.SpeedKph != 10 {
		t.Errorf("speed = %v, want 10", e.SpeedKph)
	}
	if e.DistanceKm == nil || *e.DistanceKm != 5 {
		t.Errorf("distance = %v, want 5", e.DistanceKm)
	}
}

// TestParseCardioHours verifies 시간 converts to minutes.
func TestParseCardioHours(t *testing.T) {
	e := Parse("자전거 1시간", 75)
	if e == nil {
		t.Fatal("expected entry")
	}
	if !e.Cardio || e.DurationMinutes != 60 {
		t.Errorf("cardio = %v, duration = %v, want 60", e.Cardio, e.DurationMinutes)
	}
}

// TestParseCardioMinimumDuration verifies implausibly short sessions are
// floored.
func TestParseCardioMinimumDuration(t *testing.T) {
	e := Parse("러닝 2", 75)
	if e == nil {
		t.Fatal("expected entry")
	}
	if e.DurationMinutes != minCardioMinutes {
		t.Errorf("duration = %v, want %v", e.DurationMinutes, float64(minCardioMinutes))
	}
}

// TestParseHeartRate verifies hr/심박 tokens survive into the entry.
func TestParseHeartRate(t *testing.T) {
	e := Parse("걷기 30분 hr 150", 75)
	if e == nil {
		t.Fatal("expected entry")
	}
	if e.AvgHeartRate == nil || *e.AvgHeartRate != 150 {
		t.Errorf("hr = %v, want 150", e.AvgHeartRate)
	}

	e = Parse("걷기 30분 심박 140bpm", 75)
	if e == nil || e.AvgHeartRate == nil || *e.AvgHeartRate != 140 {
		t.Fatalf("korean hr not extracted: %+v", e)
	}
}

// TestParseIncline verifies incline extraction in both languages.
func TestParseIncline(t *testing.T) {
	e := Parse("treadmill 20min 6km/h incline 5", 75)
	if e == nil {
		t.Fatal("expected entry")
	}
	if e.InclinePct == nil || *e.InclinePct != 5 {
		t.Errorf("incline = %v, want 5", e.InclinePct)
	}
	if e.DistanceKm == nil || *e.DistanceKm != 2 {
		t.Errorf("distance = %v, want 2", e.DistanceKm)
	}

	e = Parse("걷기 20분 경사 -2%", 75)
	if e == nil || e.InclinePct == nil || *e.InclinePct != -2 {
		t.Fatalf("negative incline not extracted: %+v", e)
	}
}

// TestParseRejectsNonLines verifies unparseable input returns nil instead of
// a half-filled entry. "Run fast" carries a cardio keyword but no numbers, so
// it must not become a zero-duration cardio entry.
func TestParseRejectsNonLines(t *testing.T) {
	for _, line := range []string{"", "   ", "오늘은 쉬는 날", "great session", "123", "Run fast"} {
		if e := Parse(line, 75); e != nil {
			t.Errorf("%q: got %+v, want nil", line, e)
		}
	}
}

// TestParseZeroUserWeight verifies the body-weight default kicks in.
func TestParseZeroUserWeight(t *testing.T) {
	a := Parse("러닝 30", 0)
	b := Parse("러닝 30", 75)
	if a == nil || b == nil {
		t.Fatal("expected entries")
	}
	if a.Calories != b.Calories {
		t.Errorf("calories %d != %d with defaulted weight", a.Calories, b.Calories)
	}
}

// TestNumericTail verifies the tail scanner stops at the first non-number
// from the right.
func TestNumericTail(t *testing.T) {
	tail, nameEnd := numericTail([]string{"인클라인", "벤치프레스", "60", "10", "5"})
	if nameEnd != 2 {
		t.Errorf("nameEnd = %d, want 2", nameEnd)
	}
	if len(tail) != 3 || tail[0] != 60 || tail[1] != 10 || tail[2] != 5 {
		t.Errorf("tail = %v", tail)
	}

	tail, nameEnd = numericTail([]string{"스쿼트"})
	if len(tail) != 0 || nameEnd != 1 {
		t.Errorf("tail = %v, nameEnd = %d", tail, nameEnd)
	}
}

// TestIsCardioName covers both languages plus a compound form.
func TestIsCardioName(t *testing.T) {
	for _, name := range []string{"러닝머신", "달리기", "treadmill", "빠르게 걷기", "사이클"} {
		if !isCardioName(name) {
			t.Errorf("%q not classified as cardio", name)
		}
	}
	for _, name := range []string{"스쿼트", "bench press", "데드리프트"} {
		if isCardioName(name) {
			t.Errorf("%q wrongly classified as cardio", name)
		}
	}
}
