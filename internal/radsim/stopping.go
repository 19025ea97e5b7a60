package radsim

// StoppingSample is one tabulated point of a stopping-power or attenuation
// curve. Energy is in eV. Rate is in eV/m for charged particles (continuous
// slowing-down approximation) or 1/m for gammas (linear attenuation
// coefficient).
type StoppingSample struct {
	Energy float64
	Rate   float64
}

// StoppingPower is a curve of samples ordered ascending by energy.
// A registered substance/species pair never has an empty curve; the
// catalog builder rejects such data.
type StoppingPower []StoppingSample

// PickRate returns the rate of the first sample whose energy exceeds the
// query energy, or the last sample's rate when the query is at or beyond
// the end of the table. There is no interpolation between samples.
func (sp StoppingPower) PickRate(energy float64) float64 {
	for _, s := range sp {
		if s.Energy > energy {
			return s.Rate
		}
	}
	return sp[len(sp)-1].Rate
}
