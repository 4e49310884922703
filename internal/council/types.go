// Package council is the three-agent advice ensemble: a trend/volume analyst,
// a recovery/physio safety agent, and an adherence/psychology agent, merged
// with a hard safety veto. Every function here is a pure computation over a
// read-only snapshot; agents never return an empty list and never fail.
package council

import (
	"time"

	"github.com/claude/ironquant/internal/models"
)

// Agent identifies which analyzer produced an advice item.
type Agent string

const (
	AgentAnalyst Agent = "analyst"
	AgentPhysio  Agent = "physio"
	AgentPsych   Agent = "psych"
)

// Risk tags how dangerous it is to ignore an advice item.
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// Horizon is the advice's intended time frame.
type Horizon string

const (
	HorizonToday Horizon = "today"
	HorizonWeek  Horizon = "week"
)

// Workout is the per-row history snapshot fed to agents: one persisted
// workout reduced to the aggregates the agents read.
type Workout struct {
	Date              string // YYYY-MM-DD
	TotalVolume       float64
	AverageRPE        float64
	DurationMinutes   float64
	EstimatedCalories float64
	CardioDistanceKm  float64
}

// Condition is the wellness-signal snapshot row.
type Condition struct {
	Date          string // YYYY-MM-DD
	SleepHours    float64
	FatigueScore  float64
	StressScore   float64
	SorenessScore float64
	RestingHR     float64
}

// User is the profile slice the agents need.
type User struct {
	ID            string
	Mode          models.GoalMode
	WeightKg      float64
	CurrentStreak int
}

// Input is the shared read-only snapshot every agent receives. Callers fetch
// at least 28 days of workouts and 14 days of conditions for full coverage.
type Input struct {
	Now        time.Time
	User       User
	Workouts   []Workout
	Conditions []Condition
}

// Advice is one prioritized, risk-tagged recommendation.
type Advice struct {
	Agent      Agent           `json:"agent"`
	Mode       models.GoalMode `json:"mode"`
	Priority   int             `json:"priority"`   // 0-100
	Confidence float64         `json:"confidence"` // 0-1
	Risk       Risk            `json:"risk"`
	Horizon    Horizon         `json:"horizon"`
	Headline   string          `json:"headline"`
	Reason     []string        `json:"reason"`
	Action     string          `json:"action"`
	Tags       []string        `json:"tags"`
}

// Result is the merged ensemble output. Primary mirrors top[0].
type Result struct {
	Top     []Advice `json:"top"`
	Primary *Advice  `json:"primary"`
}
