package engine

import (
	"math/bits"

	"github.com/chronick/duopulse-sub001/parameter"
)

// StepMask is a fixed-capacity bitset over step indices, one bit per
// step, bit 0 = step 0. Patterns never exceed 64 steps so the whole
// mask lives in a register.
type StepMask uint64

// LengthMask covers the first steps bits.
func LengthMask(steps int) StepMask {
	if steps <= 0 {
		return 0
	}
	if steps >= parameter.MaxSteps {
		return ^StepMask(0)
	}
	return StepMask(1)<<uint(steps) - 1
}

// Has reports whether the bit at step is set.
func (m StepMask) Has(step int) bool {
	if step < 0 || step >= parameter.MaxSteps {
		return false
	}
	return m&(StepMask(1)<<uint(step)) != 0
}

// With returns the mask with the bit at step set.
func (m StepMask) With(step int) StepMask {
	if step < 0 || step >= parameter.MaxSteps {
		return m
	}
	return m | StepMask(1)<<uint(step)
}

// Without returns the mask with the bit at step cleared.
func (m StepMask) Without(step int) StepMask {
	if step < 0 || step >= parameter.MaxSteps {
		return m
	}
	return m &^ (StepMask(1) << uint(step))
}

// Count returns the number of set bits.
func (m StepMask) Count() int {
	return bits.OnesCount64(uint64(m))
}

// FirstSet returns the lowest set step index, or -1 for the empty mask.
func (m StepMask) FirstSet() int {
	if m == 0 {
		return -1
	}
	return bits.TrailingZeros64(uint64(m))
}

// Steps lists the set step indices in ascending order.
func (m StepMask) Steps() []int {
	steps := make([]int, 0, m.Count())
	for v := uint64(m); v != 0; v &= v - 1 {
		steps = append(steps, bits.TrailingZeros64(v))
	}
	return steps
}

// RotateRight rotates the low steps bits right by offset, circularly.
// A hit at step i moves to step i-offset mod steps.
func (m StepMask) RotateRight(offset, steps int) StepMask {
	if steps <= 0 || steps > parameter.MaxSteps {
		return m
	}
	offset = ((offset % steps) + steps) % steps
	if offset == 0 {
		return m & LengthMask(steps)
	}
	m &= LengthMask(steps)
	return (m>>uint(offset) | m<<uint(steps-offset)) & LengthMask(steps)
}

// RotateLeft rotates the low steps bits left by offset, circularly.
// A hit at step i moves to step i+offset mod steps.
func (m StepMask) RotateLeft(offset, steps int) StepMask {
	if steps <= 0 || steps > parameter.MaxSteps {
		return m
	}
	offset = ((offset % steps) + steps) % steps
	return m.RotateRight(steps-offset, steps)
}
