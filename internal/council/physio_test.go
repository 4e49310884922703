package council

import (
	"fmt"
	"testing"
)

// TestPhysioExtremeRPE verifies a single near-max session triggers the
// high-risk veto-eligible item.
func TestPhysioExtremeRPE(t *testing.T) {
	in := Input{
		Now:      testNow,
		Workouts: []Workout{{Date: day(-1), AverageRPE: 9.5}},
	}
	got := AnalyzeByPhysio(in)
	a := findPriority(got, 96)
	if a == nil {
		t.Fatalf("got %+v, want injury-risk item", got)
	}
	if a.Risk != RiskHigh || a.Horizon != HorizonToday {
		t.Errorf("item = %+v", a)
	}
}

// TestPhysioSustainedHighRPE verifies four 8.5+ days fire the same item even
// without an extreme peak.
func TestPhysioSustainedHighRPE(t *testing.T) {
	var ws []Workout
	for i := 1; i <= 4; i++ {
		ws = append(ws, Workout{Date: day(-i), AverageRPE: 8.5})
	}
	got := AnalyzeByPhysio(Input{Now: testNow, Workouts: ws})
	if findPriority(got, 96) == nil {
		t.Fatalf("got %+v, want injury-risk item", got)
	}
}

// TestPhysioElevatedAverage verifies the medium-risk pre-overheat band.
func TestPhysioElevatedAverage(t *testing.T) {
	got := AnalyzeByPhysio(Input{
		Now:      testNow,
		Workouts: []Workout{{Date: day(-1), AverageRPE: 8.4}, {Date: day(-2), AverageRPE: 8.4}},
	})
	a := findPriority(got, 80)
	if a == nil || a.Risk != RiskMedium {
		t.Fatalf("got %+v, want pre-overheat item", got)
	}
}

// TestPhysioRecoverySignals verifies short sleep or high wellness scores in
// the latest condition raise the high-risk recovery warning.
func TestPhysioRecoverySignals(t *testing.T) {
	cases := []Condition{
		{Date: day(0), SleepHours: 5},
		{Date: day(0), SleepHours: 7, FatigueScore: 8},
		{Date: day(0), SleepHours: 7, StressScore: 9},
		{Date: day(0), SleepHours: 7, SorenessScore: 8},
	}
	for i, cond := range cases {
		got := AnalyzeByPhysio(Input{Now: testNow, Conditions: []Condition{cond}})
		a := findPriority(got, 90)
		if a == nil || a.Risk != RiskHigh {
			t.Errorf("case %d: got %+v, want recovery warning", i, got)
		}
	}
}

// TestPhysioUsesLatestCondition verifies only the newest condition row is
// read.
func TestPhysioUsesLatestCondition(t *testing.T) {
	got := AnalyzeByPhysio(Input{
		Now: testNow,
		Conditions: []Condition{
			{Date: day(-3), SleepHours: 4},
			{Date: day(0), SleepHours: 8},
		},
	})
	if findPriority(got, 90) != nil {
		t.Fatalf("stale condition triggered warning: %+v", got)
	}
}

// TestPhysioWindowLimit verifies RPE older than the 8 most recent workouts is
// ignored.
func TestPhysioWindowLimit(t *testing.T) {
	ws := []Workout{{Date: day(-20), AverageRPE: 10}}
	for i := 1; i <= 8; i++ {
		ws = append(ws, Workout{Date: day(-i), AverageRPE: 6})
	}
	got := AnalyzeByPhysio(Input{Now: testNow, Workouts: ws})
	if findPriority(got, 96) != nil {
		t.Fatalf("old extreme RPE leaked into window: %+v", got)
	}
}

// TestPhysioAllClear verifies the agent never returns an empty list.
func TestPhysioAllClear(t *testing.T) {
	got := AnalyzeByPhysio(Input{Now: testNow})
	if len(got) != 1 || got[0].Priority != 52 || got[0].Risk != RiskLow {
		t.Fatalf("got %+v, want single all-clear item", got)
	}
}

// TestPhysioReasonFormatting spot-checks that numbers land in the reason
// strings.
func TestPhysioReasonFormatting(t *testing.T) {
	got := AnalyzeByPhysio(Input{
		Now:      testNow,
		Workouts: []Workout{{Date: day(-1), AverageRPE: 9.8}},
	})
	a := findPriority(got, 96)
	if a == nil {
		t.Fatal("expected injury-risk item")
	}
	want := fmt.Sprintf("Peak RPE %.1f", 9.8)
	if len(a.Reason) == 0 || a.Reason[0] != want {
		t.Errorf("reason = %v, want first line %q", a.Reason, want)
	}
}
