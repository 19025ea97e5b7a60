package radsim

import (
	"math/rand"

	"github.com/go-hep/fmom"
)

// DecaySampler estimates decay counts per radioactive volume and emits the
// resulting particles. It runs serially on the tick goroutine.
type DecaySampler struct {
	rng *rand.Rand
}

// NewDecaySampler creates a sampler drawing from the given random source.
func NewDecaySampler(rng *rand.Rand) *DecaySampler {
	return &DecaySampler{rng: rng}
}

// decayCount converts an expected (possibly fractional) decay count into a
// concrete one by stochastic rounding, keeping the long-run rate unbiased
// even when the expectation is below 1.
func decayCount(expected float64, draw float64) int {
	n := int(expected)
	if expected-float64(n) > draw {
		n++
	}
	return n
}

// SampleVolume resolves the volume's substance once per tick, and if it is
// a usable radiation source runs the decay estimate over steps sub-steps
// of dt seconds each, so the emission rate stays consistent with the
// elapsed-time accounting. Each decay produces one charged particle with
// an isotropic random direction and a position uniform inside the volume's
// extents, plus one gamma quantum at the same position when the decay
// carries a correlated gamma energy.
func (s *DecaySampler) SampleVolume(v *Volume, dt float64, steps int, emit func(Particle)) {
	sub := v.Mixture.Pick(s.rng)
	iso := sub.Isotope()
	if iso == nil || !iso.Usable {
		return
	}

	// Validation guarantees a supported class on every usable isotope.
	kind, ok := iso.Decay.Class.EmittedKind()
	if !ok {
		return
	}

	mass := v.VolumeM3() * sub.Density()
	expected := iso.Activity * mass * dt

	for step := 0; step < steps; step++ {
		decays := decayCount(expected, s.rng.Float64())
		for i := 0; i < decays; i++ {
			dir := s.randomDirection()
			pos := vecAdd(v.Position, s.randomOffset(v.Extents))

			emit(Particle{
				Kind:     kind,
				Position: pos,
				Velocity: vecScale(dir, EnergyToVelocity(iso.Decay.Energy, kind)),
			})

			if iso.Decay.GammaEnergy > 0 {
				emit(Particle{
					Kind:     ParticleGamma,
					Energy:   iso.Decay.GammaEnergy,
					Position: pos,
					Velocity: vecScale(dir, LightSpeed),
				})
			}
		}
	}
}

// SampleEmitter emits the fixed-rate beam particles of a volume's linear
// emitter over steps sub-steps of dt seconds each, aimed along +x from
// random positions inside the volume.
func (s *DecaySampler) SampleEmitter(v *Volume, dt float64, steps int, emit func(Particle)) {
	em := v.Emitter
	if em == nil {
		return
	}

	beams := []struct {
		kind ParticleKind
		rate float64
	}{
		{ParticleAlpha, em.AlphaRate},
		{ParticleElectron, em.BetaRate},
		{ParticleGamma, em.GammaRate},
	}

	dir := fmom.Vec3{1, 0, 0}
	for _, beam := range beams {
		if beam.rate <= 0 {
			continue
		}
		count := 0
		for step := 0; step < steps; step++ {
			count += decayCount(beam.rate*dt, s.rng.Float64())
		}
		for i := 0; i < count; i++ {
			pos := vecAdd(v.Position, s.randomOffset(v.Extents))
			p := Particle{Kind: beam.kind, Position: pos}
			if beam.kind == ParticleGamma {
				p.Energy = em.ParticleEnergy
				p.Velocity = vecScale(dir, LightSpeed)
			} else {
				p.Velocity = vecScale(dir, EnergyToVelocity(em.ParticleEnergy, beam.kind))
			}
			emit(p)
		}
	}
}

// randomDirection samples an isotropic random unit vector by rejection
// sampling inside the unit sphere.
func (s *DecaySampler) randomDirection() fmom.Vec3 {
	for {
		v := fmom.Vec3{
			s.rng.Float64()*2 - 1,
			s.rng.Float64()*2 - 1,
			s.rng.Float64()*2 - 1,
		}
		if norm := vecLen(v); norm > 0 && norm <= 1 {
			return vecScale(v, 1/norm)
		}
	}
}

// randomOffset samples a position offset uniform inside centered extents.
func (s *DecaySampler) randomOffset(extents fmom.Vec3) fmom.Vec3 {
	return fmom.Vec3{
		extents[0] * (s.rng.Float64() - 0.5),
		extents[1] * (s.rng.Float64() - 0.5),
		extents[2] * (s.rng.Float64() - 0.5),
	}
}

// LinearEmitter is a fixed-rate particle source attached to a volume,
// emitting alpha, beta, and gamma beams along +x at a set energy.
type LinearEmitter struct {
	// Rates in particles per second.
	AlphaRate float64
	BetaRate  float64
	GammaRate float64
	// ParticleEnergy in eV.
	ParticleEnergy float64
}
