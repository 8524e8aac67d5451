package engine

import "github.com/chronick/duopulse-sub001/parameter"

// Weight field: per-step selection weights built from shape, the two
// axis controls and a seed. Three generator families (stable,
// syncopation, wild) cover the shape range in seven bands, with 4%-wide
// crossfades between them. Two distinct syncopation characters sit in
// the middle of the range so sweeping shape never feels static.

// syncAltSeedOffset derives the second syncopation character.
const syncAltSeedOffset uint32 = 0x12345678

// ClampWeight bounds a step weight to the selectable range. The floor
// keeps every step reachable under extreme bias.
func ClampWeight(w float64) float64 {
	return clampF(w, parameter.MinStepWeight, parameter.MaxStepWeight)
}

// ComputeShapeBlendedWeights produces the base weight array for one
// voice at the given shape position.
func ComputeShapeBlendedWeights(shape, energy float64, seed uint32, length int) WeightArray {
	shape = clamp01(shape)
	energy = clamp01(energy)
	length = clampI(length, 1, parameter.MaxSteps)

	var w WeightArray
	switch {
	case shape < parameter.ShapeZone1End:
		w = stableWeights(energy, length)
		// Humanize fades out as shape approaches the first crossfade
		humanize := 0.05 * (1.0 - shape/parameter.ShapeZone1End)
		for i := 0; i < length; i++ {
			jitter := (HashToFloat(seed, i+300) - 0.5) * humanize * 2.0
			w[i] = ClampWeight(w[i] + jitter)
		}

	case shape < parameter.ShapeCrossfade1End:
		t := (shape - parameter.ShapeZone1End) / (parameter.ShapeCrossfade1End - parameter.ShapeZone1End)
		a := stableWeights(energy, length)
		b := syncopationWeights(energy, seed, length)
		w = blendWeights(&a, &b, t, length)

	case shape < parameter.ShapeZone2aEnd:
		w = syncopationWeights(energy, seed, length)

	case shape < parameter.ShapeCrossfade2End:
		t := (shape - parameter.ShapeZone2aEnd) / (parameter.ShapeCrossfade2End - parameter.ShapeZone2aEnd)
		a := syncopationWeights(energy, seed, length)
		b := syncopationWeights(energy, seed+syncAltSeedOffset, length)
		w = blendWeights(&a, &b, t, length)

	case shape < parameter.ShapeZone2bEnd:
		w = syncopationWeights(energy, seed+syncAltSeedOffset, length)

	case shape < parameter.ShapeCrossfade3End:
		t := (shape - parameter.ShapeZone2bEnd) / (parameter.ShapeCrossfade3End - parameter.ShapeZone2bEnd)
		a := syncopationWeights(energy, seed+syncAltSeedOffset, length)
		b := wildWeights(energy, seed, length)
		w = blendWeights(&a, &b, t, length)

	default:
		w = wildWeights(energy, seed, length)
		// Chaos grows from zero at the band edge
		chaos := ((shape - parameter.ShapeCrossfade3End) / (1.0 - parameter.ShapeCrossfade3End)) * 0.15
		for i := 0; i < length; i++ {
			noise := (HashToFloat(seed, i+500) - 0.5) * chaos * 2.0
			w[i] = ClampWeight(w[i] + noise)
		}
	}
	return w
}

// stableWeights grades steps by metric class, scaled up with energy.
func stableWeights(energy float64, length int) WeightArray {
	var w WeightArray
	baseScale := 0.3 + energy*0.7
	for i := 0; i < length; i++ {
		var v float64
		switch {
		case i == 0 || i == length/2:
			v = 1.0
		case i%4 == 0:
			v = 0.85
		case i%2 == 0:
			v = 0.5
		default:
			v = 0.25
		}
		w[i] = ClampWeight(v * baseScale)
	}
	return w
}

// syncopationWeights suppresses downbeats and lifts anticipation steps
// (the step before each quarter), with seeded variation per bar.
func syncopationWeights(energy float64, seed uint32, length int) WeightArray {
	var w WeightArray
	baseScale := 0.4 + energy*0.6
	suppression := 0.5 + HashToFloat(seed, 0)*0.2
	for i := 0; i < length; i++ {
		var v float64
		switch {
		case i == 0 || i == length/2:
			v = suppression
		case i%4 == 3:
			v = 0.7 + (0.2 + HashToFloat(seed, i+100)*0.15)
		case i%4 == 0:
			v = 0.6
		case i%2 == 1:
			v = 0.5 + (0.1 + HashToFloat(seed, i+200)*0.2)
		default:
			v = 0.4
		}
		w[i] = ClampWeight(v * baseScale)
	}
	return w
}

// wildWeights is mostly noise around an energy-scaled base level, with
// a slight nod to the downbeat and quarters so the result still scans
// as a bar.
func wildWeights(energy float64, seed uint32, length int) WeightArray {
	var w WeightArray
	baseLevel := 0.3 + energy*0.3
	variation := 0.3 + energy*0.4
	for i := 0; i < length; i++ {
		v := baseLevel + (HashToFloat(seed, i)-0.5)*variation*2.0
		if i == 0 || i == length/2 {
			v += 0.15
		} else if i%4 == 0 {
			v += 0.08
		}
		w[i] = ClampWeight(v)
	}
	return w
}

func blendWeights(a, b *WeightArray, t float64, length int) WeightArray {
	var w WeightArray
	for i := 0; i < length; i++ {
		w[i] = ClampWeight(lerp(a[i], b[i], t))
	}
	return w
}

// ApplyAxisBias tilts the weight array along the two syncopation axes.
// X trades strong positions against weak ones; Y tilts overall density
// toward or away from the weak end. Pushing shape and X high together
// enters the broken regime, which knocks out a seeded subset of strong
// positions.
func ApplyAxisBias(w *WeightArray, axisX, axisY, shape float64, seed uint32, length int) {
	axisX = clamp01(axisX)
	axisY = clamp01(axisY)
	length = clampI(length, 1, parameter.MaxSteps)

	xBias := (axisX - 0.5) * 2.0
	yBias := (axisY - 0.5) * 2.0

	for i := 0; i < length; i++ {
		ps := PositionStrength(i, length)
		mw := MetricWeight(i, length)
		v := w[i]

		if xBias > 0 {
			if ps < 0 {
				v *= 1.0 - parameter.AxisXSuppress*xBias*(-ps)
			} else {
				v *= 1.0 + parameter.AxisXBoost*xBias*ps
			}
		} else if xBias < 0 {
			if ps < 0 {
				v *= 1.0 + parameter.AxisXBoost*(-xBias)*(-ps)
			} else {
				v *= 1.0 - parameter.AxisXSuppress*(-xBias)*ps
			}
		}

		if yBias > 0 {
			v *= 1.0 + parameter.AxisYDensity*yBias*(1.0-mw)
		} else if yBias < 0 {
			v *= 1.0 - parameter.AxisYDensity*(-yBias)*(1.0-mw)
		}

		w[i] = ClampWeight(v)
	}

	if shape > parameter.BrokenShapeMin && axisX > parameter.BrokenAxisXMin {
		applyBrokenRegime(w, shape, axisX, seed, length)
	}
}

func applyBrokenRegime(w *WeightArray, shape, axisX float64, seed uint32, length int) {
	intensity := (shape - parameter.BrokenShapeMin) * parameter.BrokenShapeScale *
		(axisX - parameter.BrokenAxisXMin) * parameter.BrokenAxisXScale
	if intensity > 1.0 {
		intensity = 1.0
	}
	brokenSeed := seed ^ parameter.PhraseSeedXor
	for i := 0; i < length; i++ {
		if MetricWeight(i, length) < parameter.BrokenStrongWeight {
			continue
		}
		if HashToFloat(brokenSeed, i) < parameter.BrokenStepChance {
			w[i] = ClampWeight(lerp(w[i], w[i]*parameter.BrokenDropFactor, intensity))
		}
	}
}

// ApplyWeightPerturbation adds bounded seeded noise on top of the
// blended field. The scale follows shape, so low-shape bars keep their
// structure and wild bars wander further. The downbeat is protected
// until shape clears its threshold.
func ApplyWeightPerturbation(w *WeightArray, shape float64, seed uint32, length int) {
	shape = clamp01(shape)
	length = clampI(length, 1, parameter.MaxSteps)
	noiseScale := parameter.PerturbScale * shape
	if noiseScale <= 0 {
		return
	}
	for i := 0; i < length; i++ {
		if i == 0 && shape < parameter.PerturbStepZeroShapeMin {
			continue
		}
		noise := (HashToFloat(seed, i+1000) - 0.5) * noiseScale
		w[i] = ClampWeight(w[i] + noise)
	}
}
