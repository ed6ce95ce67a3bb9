package crossing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParams_Validate(t *testing.T) {
	valid := Params{LeftRate: 0.5, RightRate: 0.5, LeftGreen: 5, RightGreen: 5}
	assert.NoError(t, valid.Validate())
	assert.NoError(t, Params{LeftRate: 0, RightRate: 1, LeftGreen: 2, RightGreen: 1}.Validate())

	tests := []struct {
		name     string
		mutate   func(p *Params)
		argument string
	}{
		{"negative left rate", func(p *Params) { p.LeftRate = -0.1 }, "leftRate"},
		{"right rate above one", func(p *Params) { p.RightRate = 1.01 }, "rightRate"},
		{"NaN rate", func(p *Params) { p.LeftRate = math.NaN() }, "leftRate"},
		{"zero left green", func(p *Params) { p.LeftGreen = 0 }, "leftGreenDuration"},
		{"one tick left green", func(p *Params) { p.LeftGreen = 1 }, "leftGreenDuration"},
		{"zero right green", func(p *Params) { p.RightGreen = 0 }, "rightGreenDuration"},
		{"negative right green", func(p *Params) { p.RightGreen = -3 }, "rightGreenDuration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)

			err := p.Validate()
			var argErr *InvalidArgumentError
			if assert.ErrorAs(t, err, &argErr) {
				assert.Equal(t, tt.argument, argErr.Argument)
			}
		})
	}
}

func TestParams_ValidateFor(t *testing.T) {
	oneTickRight := Params{LeftRate: 0.5, RightRate: 0.5, LeftGreen: 5, RightGreen: 1}

	assert.NoError(t, oneTickRight.ValidateFor(DrainAsReference))

	err := oneTickRight.ValidateFor(DrainExclusive)
	var argErr *InvalidArgumentError
	if assert.ErrorAs(t, err, &argErr) {
		assert.Equal(t, "rightGreenDuration", argErr.Argument)
		assert.Contains(t, argErr.Reason, "exclusive")
	}

	oneTickLeft := Params{LeftRate: 0.5, RightRate: 0.5, LeftGreen: 1, RightGreen: 5}
	assert.True(t, IsInvalidArgumentError(oneTickLeft.ValidateFor(DrainAsReference)))
	assert.True(t, IsInvalidArgumentError(oneTickLeft.ValidateFor(DrainExclusive)))
}
