package crossing

import (
	"math"
	"strconv"
)

const (
	// DefaultHorizon is the number of ticks in the loading phase (ticks 0..500)
	DefaultHorizon = 501
	// DefaultRuns is the number of independent runs averaged per report
	DefaultRuns = 100
	// DepartureProbability is the chance that the green queue releases a vehicle on a service tick
	DepartureProbability = 0.5
)

// Params are the four model inputs of a simulation
type Params struct {
	// LeftRate is the per-tick arrival probability on the left approach
	LeftRate float64 `json:"left_rate" yaml:"left_rate"`
	// RightRate is the per-tick arrival probability on the right approach
	RightRate float64 `json:"right_rate" yaml:"right_rate"`
	// LeftGreen is the left green period in ticks
	LeftGreen int `json:"left_green" yaml:"left_green"`
	// RightGreen is the right green period in ticks
	RightGreen int `json:"right_green" yaml:"right_green"`
}

// Validate returns an InvalidArgumentError for the first unusable parameter.
// LeftGreen must be at least 2: a left phase opens on a switch tick that
// releases nobody.
func (p Params) Validate() error {
	if err := validateRate("leftRate", p.LeftRate); err != nil {
		return err
	}
	if err := validateRate("rightRate", p.RightRate); err != nil {
		return err
	}
	if p.LeftGreen < 2 {
		return NewInvalidArgumentError("leftGreenDuration", strconv.Itoa(p.LeftGreen), "must be at least 2 ticks")
	}
	if p.RightGreen < 1 {
		return NewInvalidArgumentError("rightGreenDuration", strconv.Itoa(p.RightGreen), "must be at least 1 tick")
	}
	return nil
}

func validateRate(name string, rate float64) error {
	if math.IsNaN(rate) || rate < 0 || rate > 1 {
		return NewInvalidArgumentError(name, strconv.FormatFloat(rate, 'g', -1, 64), "must be a probability in [0,1]")
	}
	return nil
}

// ValidateFor is Validate plus the limits of policy. Under DrainExclusive the
// right phase also opens on a tick that releases nobody.
func (p Params) ValidateFor(policy DrainPolicy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if policy == DrainExclusive && p.RightGreen < 2 {
		return NewInvalidArgumentError("rightGreenDuration", strconv.Itoa(p.RightGreen), "must be at least 2 ticks with the exclusive drain policy")
	}
	return nil
}
