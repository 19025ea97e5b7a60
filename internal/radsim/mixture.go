package radsim

import "math/rand"

// MixturePart is one weighted component of a material mixture.
type MixturePart struct {
	Weight    float64
	Substance *Substance
}

// MaterialMixture is a weighted list of substances describing the
// composition of a volume or of the ambient medium. Weights are treated as
// a cumulative distribution when resolving; the editing layer is
// responsible for normalizing them to 1.0. A mixture must never be empty;
// the scene builder rejects empty mixtures.
type MaterialMixture struct {
	Parts []MixturePart
}

// Pick resolves the mixture to one concrete substance by weighted random
// choice using the given source of uniform draws.
func (m MaterialMixture) Pick(rng *rand.Rand) *Substance {
	return m.pick(rng.Float64())
}

// pick walks the weighted list accumulating weights and returns the first
// substance whose cumulative share exceeds the draw. Falls back to the
// last part when the weights sum below the draw.
func (m MaterialMixture) pick(draw float64) *Substance {
	acc := 0.0
	for i := range m.Parts {
		if m.Parts[i].Weight+acc > draw {
			return m.Parts[i].Substance
		}
		acc += m.Parts[i].Weight
	}
	return m.Parts[len(m.Parts)-1].Substance
}

// AverageDensity returns the weighted mean density in kg/m3, used for
// equivalent-dose mass estimates. Weights are assumed normalized.
func (m MaterialMixture) AverageDensity() float64 {
	sum := 0.0
	for i := range m.Parts {
		sum += m.Parts[i].Weight * m.Parts[i].Substance.Density()
	}
	return sum
}
