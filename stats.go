package crossing

// ApproachStats accumulates what one approach experienced during a run
type ApproachStats struct {
	Vehicles       int `json:"vehicles" yaml:"vehicles"`
	TotalWait      int `json:"total_wait" yaml:"total_wait"`
	MaxWait        int `json:"max_wait" yaml:"max_wait"`
	ClearanceTicks int `json:"clearance_ticks" yaml:"clearance_ticks"`
}

// AverageWait is TotalWait divided by Vehicles, or 0 when no vehicle arrived
func (s ApproachStats) AverageWait() float64 {
	if s.Vehicles == 0 {
		return 0
	}
	return float64(s.TotalWait) / float64(s.Vehicles)
}

// RunStats is the finalized result of a single run
type RunStats struct {
	RunID         string        `json:"run_id" yaml:"run_id"`
	Seed          int64         `json:"seed" yaml:"seed"`
	Left          ApproachStats `json:"left" yaml:"left"`
	Right         ApproachStats `json:"right" yaml:"right"`
	Ticks         int           `json:"ticks" yaml:"ticks"`
	PhaseSwitches int           `json:"phase_switches" yaml:"phase_switches"`
}

// Approach returns the statistics of approach a
func (r *RunStats) Approach(a Approach) *ApproachStats {
	switch a {
	case ApproachLeft:
		return &r.Left
	case ApproachRight:
		return &r.Right
	default:
		return nil
	}
}

// ApproachSummary holds per-field means over a set of runs
type ApproachSummary struct {
	Vehicles       float64 `json:"vehicles" yaml:"vehicles"`
	AverageWait    float64 `json:"average_wait" yaml:"average_wait"`
	MaxWait        float64 `json:"max_wait" yaml:"max_wait"`
	ClearanceTicks float64 `json:"clearance_ticks" yaml:"clearance_ticks"`
}

// approachTotals are running sums of ApproachStats fields
type approachTotals struct {
	vehicles    int
	averageWait float64
	maxWait     int
	clearance   int
}

func (t *approachTotals) add(s ApproachStats) {
	t.vehicles += s.Vehicles
	t.averageWait += s.AverageWait()
	t.maxWait += s.MaxWait
	t.clearance += s.ClearanceTicks
}

func (t approachTotals) mean(runs int) ApproachSummary {
	if runs == 0 {
		return ApproachSummary{}
	}
	n := float64(runs)
	return ApproachSummary{
		Vehicles:       float64(t.vehicles) / n,
		AverageWait:    t.averageWait / n,
		MaxWait:        float64(t.maxWait) / n,
		ClearanceTicks: float64(t.clearance) / n,
	}
}

// AggregateStats sums RunStats across repetitions
type AggregateStats struct {
	runs     int
	baseSeed int64
	left     approachTotals
	right    approachTotals
}

// Add folds one completed run into the totals
func (a *AggregateStats) Add(r RunStats) {
	a.runs++
	a.left.add(r.Left)
	a.right.add(r.Right)
}

// Runs returns the number of runs added so far
func (a *AggregateStats) Runs() int {
	return a.runs
}

// BaseSeed returns the seed the runs were derived from, 0 when built by hand
func (a *AggregateStats) BaseSeed() int64 {
	return a.baseSeed
}

// Summary is the per-approach mean of an aggregate
type Summary struct {
	Runs  int             `json:"runs" yaml:"runs"`
	Left  ApproachSummary `json:"left" yaml:"left"`
	Right ApproachSummary `json:"right" yaml:"right"`
}

// Mean divides every total by the number of runs
func (a *AggregateStats) Mean() Summary {
	return Summary{
		Runs:  a.runs,
		Left:  a.left.mean(a.runs),
		Right: a.right.mean(a.runs),
	}
}

// Approach returns the summary of approach a
func (s Summary) Approach(a Approach) ApproachSummary {
	if a == ApproachRight {
		return s.Right
	}
	return s.Left
}
