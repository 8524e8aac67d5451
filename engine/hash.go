package engine

import "github.com/chronick/duopulse-sub001/parameter"

// Deterministic keyed hashing. Every stochastic decision in the engine
// derives from (seed, index) through one of these mixers, so results
// depend only on the inputs, never on call order. Distinct decision
// streams separate by offsetting the index or xoring the seed.

const (
	hashMul1 uint32 = 0x9E3779B9
	hashMul2 uint32 = 0x85EBCA6B
	hashMul3 uint32 = 0xC2B2AE35
)

// HashToFloat maps (seed, index) to [0,1) with 16-bit resolution.
func HashToFloat(seed uint32, index int) float64 {
	h := seed ^ (uint32(index) * hashMul1)
	h ^= h >> 16
	h *= hashMul2
	h ^= h >> 13
	return float64(h&0xFFFF) / 65535.0
}

// HashToInt maps (seed, index) to a full 32-bit hash.
func HashToInt(seed uint32, index int) uint32 {
	h := seed ^ (uint32(index) * hashMul1)
	h ^= h >> 16
	h *= hashMul2
	h ^= h >> 13
	return h
}

// hashUnit is the sampler variant: 24-bit resolution, clamped away from
// 0 and 1 so the double-log Gumbel transform stays finite.
func hashUnit(seed uint32, index int) float64 {
	h := seed
	h ^= uint32(index) * hashMul1
	h ^= h >> 16
	h *= hashMul2
	h ^= h >> 13
	h *= hashMul3
	h ^= h >> 16
	u := float64(h>>8) / 16777216.0
	if u < parameter.HashUnitEpsilon {
		u = parameter.HashUnitEpsilon
	}
	if u > 1-parameter.HashUnitEpsilon {
		u = 1 - parameter.HashUnitEpsilon
	}
	return u
}

// HashCombine folds a value into a seed, for deriving phrase seeds from
// the pattern seed and counter.
func HashCombine(seed, value uint32) uint32 {
	return seed ^ (value + hashMul1 + (seed << 6) + (seed >> 2))
}

// NextSeed produces a new pattern seed from the old one via a full
// avalanche mix keyed by the phrase counter. Never returns zero.
func NextSeed(seed, counter uint32) uint32 {
	seed ^= counter * hashMul1
	seed ^= seed >> 16
	seed *= hashMul2
	seed ^= seed >> 13
	seed *= hashMul3
	seed ^= seed >> 16
	if seed == 0 {
		seed = parameter.DefaultPatternSeed
	}
	return seed
}
