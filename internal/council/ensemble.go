package council

import (
	"math"
	"sort"
	"sync"
)

// Consult runs all three agents on the same snapshot and merges their output:
// clamp, dedupe, rank, safety-veto, truncate to three.
//
// Agents are pure functions over a read-only input, so they run concurrently;
// results land in fixed slots and are combined in agent order, keeping dedup
// tie-breaking deterministic.
func Consult(in Input) Result {
	var analystOut, physioOut, psychOut []Advice

	var wg sync.WaitGroup
	wg.Add(3)
	go func() { defer wg.Done(); analystOut = AnalyzeByAnalyst(in) }()
	go func() { defer wg.Done(); physioOut = AnalyzeByPhysio(in) }()
	go func() { defer wg.Done(); psychOut = AnalyzeByPsych(in) }()
	wg.Wait()

	all := make([]Advice, 0, len(analystOut)+len(physioOut)+len(psychOut))
	all = append(all, analystOut...)
	all = append(all, physioOut...)
	all = append(all, psychOut...)
	for i := range all {
		all[i] = normalize(all[i])
	}

	sorted := dedupe(all)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return a.Agent < b.Agent
	})

	// Safety veto: a high-risk physio warning must never be outranked, even
	// by a future agent emitting priority-100 motivational items. Dedup and
	// sort already ordered duplicates, so the first hit is the right one.
	if idx := vetoIndex(sorted); idx > 0 {
		veto := sorted[idx]
		sorted = append(sorted[:idx], sorted[idx+1:]...)
		sorted = append([]Advice{veto}, sorted...)
	}

	top := sorted
	if len(top) > 3 {
		top = top[:3]
	}

	var primary *Advice
	if len(top) > 0 {
		p := top[0]
		primary = &p
	}
	return Result{Top: top, Primary: primary}
}

func normalize(a Advice) Advice {
	p := int(math.Round(float64(a.Priority)))
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	a.Priority = p
	a.Confidence = math.Max(0, math.Min(1, a.Confidence))
	return a
}

// dedupe keeps the first occurrence per agent:headline:action key, preserving
// relative order for tie-breaking stability.
func dedupe(items []Advice) []Advice {
	seen := make(map[string]bool, len(items))
	out := make([]Advice, 0, len(items))
	for _, it := range items {
		key := string(it.Agent) + ":" + it.Headline + ":" + it.Action
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, it)
	}
	return out
}

func vetoIndex(sorted []Advice) int {
	for i, a := range sorted {
		if a.Agent == AgentPhysio && a.Risk == RiskHigh {
			return i
		}
	}
	return -1
}
