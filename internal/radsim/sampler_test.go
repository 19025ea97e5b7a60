package radsim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-hep/fmom"
)

func TestDecayCountWholePart(t *testing.T) {
	if got := decayCount(3.0, 0.5); got != 3 {
		t.Errorf("Expected 3 decays for expectation 3.0, got %d", got)
	}
	if got := decayCount(2.7, 0.5); got != 3 {
		t.Errorf("Expected 3 decays when draw 0.5 < frac 0.7, got %d", got)
	}
	if got := decayCount(2.7, 0.9); got != 2 {
		t.Errorf("Expected 2 decays when draw 0.9 >= frac 0.7, got %d", got)
	}
	if got := decayCount(0.0, 0.0); got != 0 {
		t.Errorf("Expected 0 decays for zero expectation, got %d", got)
	}
}

func TestDecayCountMeanConvergence(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	const trials = 100000
	const expected = 0.3

	total := 0
	for i := 0; i < trials; i++ {
		total += decayCount(expected, rng.Float64())
	}

	mean := float64(total) / trials
	if math.Abs(mean-expected) > 0.01 {
		t.Errorf("Expected empirical mean near %v, got %v", expected, mean)
	}
}

func radioactiveTestSubstance(t *testing.T, gammaEnergy float64) *Substance {
	t.Helper()
	sub := testSubstance("Src", 1000)
	sub.isotope = &Isotope{
		Z:          94,
		N:          145,
		HalfLife:   7.609e11,
		AtomicMass: 239.052,
		Decay: Decay{
			Class:       DecayAlpha,
			Energy:      5.2445e6,
			GammaEnergy: gammaEnergy,
		},
		Activity: 1e6,
		Usable:   true,
	}
	return sub
}

func TestSampleVolumeEmitsInsideExtents(t *testing.T) {
	sub := radioactiveTestSubstance(t, 0)
	vol := &Volume{
		Name:     "source",
		Position: fmom.Vec3{10, 0, 0},
		Extents:  fmom.Vec3{2, 2, 2},
		Mixture:  MaterialMixture{Parts: []MixturePart{{Weight: 1, Substance: sub}}},
	}

	sampler := NewDecaySampler(rand.New(rand.NewSource(1)))

	var emitted []Particle
	// 1e6 Bq/kg * 8 m3 * 1000 kg/m3 * 1e-9 s = 8 expected per sub-step.
	sampler.SampleVolume(vol, 1e-9, 4, func(p Particle) {
		emitted = append(emitted, p)
	})

	if len(emitted) < 16 || len(emitted) > 48 {
		t.Fatalf("Expected roughly 32 emitted particles, got %d", len(emitted))
	}

	for i, p := range emitted {
		if p.Kind != ParticleAlpha {
			t.Errorf("Particle %d: expected alpha, got %s", i, p.Kind)
		}
		if !vol.Contains(p.Position) {
			t.Errorf("Particle %d spawned outside the volume at %v", i, p.Position)
		}
		speed := vecLen(p.Velocity)
		want := EnergyToVelocity(5.2445e6, ParticleAlpha)
		if math.Abs(speed-want)/want > 1e-9 {
			t.Errorf("Particle %d: expected speed %v, got %v", i, want, speed)
		}
	}
}

func TestSampleVolumeCorrelatedGamma(t *testing.T) {
	sub := radioactiveTestSubstance(t, 5.16e4)
	vol := &Volume{
		Name:     "source",
		Position: fmom.Vec3{},
		Extents:  fmom.Vec3{2, 2, 2},
		Mixture:  MaterialMixture{Parts: []MixturePart{{Weight: 1, Substance: sub}}},
	}

	sampler := NewDecaySampler(rand.New(rand.NewSource(2)))

	var emitted []Particle
	sampler.SampleVolume(vol, 1e-9, 2, func(p Particle) {
		emitted = append(emitted, p)
	})

	if len(emitted) == 0 {
		t.Fatal("Expected emitted particles")
	}
	if len(emitted)%2 != 0 {
		t.Fatalf("Expected charged/gamma pairs, got %d particles", len(emitted))
	}

	for i := 0; i < len(emitted); i += 2 {
		charged, gamma := emitted[i], emitted[i+1]
		if charged.Kind != ParticleAlpha || gamma.Kind != ParticleGamma {
			t.Fatalf("Pair %d: expected alpha then gamma, got %s then %s", i/2, charged.Kind, gamma.Kind)
		}
		if charged.Position != gamma.Position {
			t.Errorf("Pair %d: gamma not emitted at the decay site", i/2)
		}
		if gamma.Energy != 5.16e4 {
			t.Errorf("Pair %d: expected gamma energy 5.16e4 eV, got %v", i/2, gamma.Energy)
		}
		if speed := vecLen(gamma.Velocity); math.Abs(speed-LightSpeed) > 1 {
			t.Errorf("Pair %d: expected gamma at light speed, got %v", i/2, speed)
		}
	}
}

func TestSampleVolumeInertSubstance(t *testing.T) {
	vol := &Volume{
		Name:    "inert",
		Extents: fmom.Vec3{1, 1, 1},
		Mixture: MaterialMixture{Parts: []MixturePart{{Weight: 1, Substance: testSubstance("Inert", 1000)}}},
	}

	sampler := NewDecaySampler(rand.New(rand.NewSource(3)))
	sampler.SampleVolume(vol, 1e-9, 16, func(p Particle) {
		t.Errorf("Expected no emission from an inert substance, got %s", p.Kind)
	})
}

func TestSampleEmitterBeams(t *testing.T) {
	vol := &Volume{
		Name:    "beam",
		Extents: fmom.Vec3{1, 1, 1},
		Emitter: &LinearEmitter{
			AlphaRate:      2e9,
			GammaRate:      1e9,
			ParticleEnergy: 1e5,
		},
	}

	sampler := NewDecaySampler(rand.New(rand.NewSource(4)))

	counts := make(map[ParticleKind]int)
	sampler.SampleEmitter(vol, 1e-9, 8, func(p Particle) {
		counts[p.Kind]++
		if p.Velocity[0] <= 0 || p.Velocity[1] != 0 || p.Velocity[2] != 0 {
			t.Errorf("Expected beam along +x, got velocity %v", p.Velocity)
		}
		if p.Kind == ParticleGamma && p.Energy != 1e5 {
			t.Errorf("Expected gamma energy 1e5 eV, got %v", p.Energy)
		}
	})

	// Expectations per sub-step are exactly 2.0 and 1.0, so counts are exact.
	if counts[ParticleAlpha] != 16 {
		t.Errorf("Expected 16 alphas, got %d", counts[ParticleAlpha])
	}
	if counts[ParticleGamma] != 8 {
		t.Errorf("Expected 8 gammas, got %d", counts[ParticleGamma])
	}
	if counts[ParticleElectron] != 0 {
		t.Errorf("Expected no electrons from a zero beta rate, got %d", counts[ParticleElectron])
	}
}

func TestSampleEmitterNil(t *testing.T) {
	vol := &Volume{Name: "plain", Extents: fmom.Vec3{1, 1, 1}}
	sampler := NewDecaySampler(rand.New(rand.NewSource(5)))
	sampler.SampleEmitter(vol, 1e-9, 16, func(p Particle) {
		t.Error("Expected no emission from a volume without an emitter")
	})
}

func TestRandomDirectionIsUnit(t *testing.T) {
	sampler := NewDecaySampler(rand.New(rand.NewSource(6)))
	for i := 0; i < 1000; i++ {
		dir := sampler.randomDirection()
		if norm := vecLen(dir); math.Abs(norm-1) > 1e-12 {
			t.Fatalf("Expected unit direction, got norm %v", norm)
		}
	}
}
