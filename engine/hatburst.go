package engine

import "github.com/chronick/duopulse-sub001/parameter"

const (
	hatPlaceSeedTag   uint32 = 0x48415431
	hatScatterSeedTag uint32 = 0x48415432
	hatVelSeedTag     uint32 = 0x48415433
)

// GenerateHatBurst lays a run of hat triggers across the fill zone.
// Energy sets the trigger count, shape morphs the placement from an
// even lattice through a jittered lattice to full scatter, and hats
// duck under nearby main hits instead of fighting them.
func GenerateHatBurst(energy, shape float64, seed uint32, fillStart, fillLength, patternLength int, mainHits StepMask) (StepMask, [parameter.MaxSteps]float64) {
	var velocities [parameter.MaxSteps]float64
	if fillLength <= 0 || patternLength <= 0 {
		return 0, velocities
	}
	energy = clamp01(energy)
	shape = clamp01(shape)

	count := parameter.HatBurstTriggersMin + int(energy*10)
	if count > parameter.HatBurstTriggersMax {
		count = parameter.HatBurstTriggersMax
	}
	if count > fillLength {
		count = fillLength
	}

	var burst StepMask
	for i := 0; i < count; i++ {
		var offset int
		switch {
		case shape < parameter.HatBurstEvenShapeMax:
			offset = (i * fillLength) / count
		case shape < parameter.HatBurstEuclidShapeMax:
			normalized := clamp01((shape - parameter.HatBurstEvenShapeMax) / (parameter.HatBurstEuclidShapeMax - parameter.HatBurstEvenShapeMax))
			jitter := int((HashToFloat(seed^hatPlaceSeedTag, i) - 0.5) * normalized * parameter.HatBurstJitterScale)
			offset = ((i*fillLength)/count + jitter + fillLength) % fillLength
		default:
			offset = int(HashToFloat(seed^hatScatterSeedTag, i)*float64(fillLength)) % fillLength
		}

		step, ok := findNearestEmpty(burst, (fillStart+offset)%patternLength, patternLength)
		if !ok {
			continue
		}

		velocity := parameter.HatBurstVelocityBase + parameter.HatBurstVelocityGain*energy
		if mainHitNearby(mainHits, step, patternLength) {
			velocity *= parameter.HatBurstDuckFactor
		}
		velocity *= parameter.HatBurstVariationBase + parameter.HatBurstVariationGain*HashToFloat(seed^hatVelSeedTag, step)

		burst = burst.With(step)
		velocities[step] = clamp01(velocity)
	}
	return burst, velocities
}

// findNearestEmpty walks outward from step, alternating right and left,
// until it finds a free slot. A full pattern yields no placement.
func findNearestEmpty(occupied StepMask, step, length int) (int, bool) {
	if !occupied.Has(step) {
		return step, true
	}
	for d := 1; d <= length/2; d++ {
		right := (step + d) % length
		if !occupied.Has(right) {
			return right, true
		}
		left := (step - d + length) % length
		if !occupied.Has(left) {
			return left, true
		}
	}
	return 0, false
}

func mainHitNearby(mainHits StepMask, step, length int) bool {
	if mainHits.Has(step) {
		return true
	}
	return mainHits.Has((step+1)%length) || mainHits.Has((step-1+length)%length)
}
