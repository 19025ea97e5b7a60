package radsim

import (
	"math"
	"math/rand"
	"runtime"
	"sync"
)

// Termination thresholds. A particle whose energy or speed falls below
// these after a sub-step is removed.
const (
	terminationEnergy = 0.1 // eV
	terminationSpeed  = 0.1 // m/s
)

// TransportStepper advances live particles through the scene. Within a
// tick the particle set is split into index ranges processed by worker
// goroutines; each particle's state is owned exclusively by its worker, so
// the only shared writes are the atomic dose accumulators on volumes.
type TransportStepper struct {
	// Workers is the goroutine count for the parallel pass; 0 means
	// runtime.NumCPU().
	Workers int
}

// Step advances every particle through cfg.MultiStep sub-steps and returns
// the surviving particles. Terminated particles are marked during the
// parallel pass and compacted out in a second, serial pass, so the live
// set is never mutated while it is being iterated. seed derives the
// per-worker random streams.
func (st *TransportStepper) Step(scene *Scene, particles []Particle, cfg TimeConfig, seed int64) []Particle {
	n := len(particles)
	if n == 0 {
		return particles
	}

	workers := st.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}

	dead := make([]bool, n)
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}

		wg.Add(1)
		go func(lo, hi int, seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := lo; i < hi; i++ {
				if !stepParticle(&particles[i], scene, cfg, rng) {
					dead[i] = true
				}
			}
		}(lo, hi, seed+int64(w))
	}
	wg.Wait()

	live := particles[:0]
	for i := range particles {
		if !dead[i] {
			live = append(live, particles[i])
		}
	}
	return live
}

// stepParticle runs one particle through all sub-steps of a tick. Returns
// false once the particle crosses a termination threshold; its remaining
// sub-steps are skipped.
func stepParticle(p *Particle, scene *Scene, cfg TimeConfig, rng *rand.Rand) bool {
	for s := 0; s < cfg.MultiStep; s++ {
		move := vecScale(p.Velocity, cfg.MoveStep)
		p.Position = vecAdd(p.Position, move)
		dist := vecLen(move)

		// Resolve the occupying medium: first matching volume in slice
		// order, ambient otherwise.
		vol := scene.volumeAt(p.Position)
		mixture := scene.Ambient
		if vol != nil {
			mixture = vol.Mixture
		}

		sub := mixture.Pick(rng)
		curve, ok := sub.Curve(p.Kind)
		if !ok {
			// No data for this species: the medium is transparent to it.
			continue
		}

		energy := p.CurrentEnergy()
		rate := curve.PickRate(energy)
		transfer := energyTransfer(rate, p.Kind, energy, dist, rng)

		if vol != nil {
			vol.tickDose.Add(transfer * p.Kind.DoseWeight())
		}

		newEnergy := energy - transfer
		if newEnergy < 0 {
			newEnergy = 0
		}

		if p.Kind == ParticleGamma {
			p.Energy = newEnergy
			if newEnergy < terminationEnergy {
				return false
			}
			continue
		}

		speed := EnergyToVelocity(newEnergy, p.Kind)
		p.Velocity = vecScale(vecNormalize(p.Velocity), speed)
		if newEnergy < terminationEnergy || speed < terminationSpeed {
			return false
		}
	}
	return true
}

// energyTransfer computes the energy in eV transferred to the medium over
// one displacement. Charged particles lose rate*dist continuously; gammas
// either pass unaffected or are absorbed whole, with survival probability
// exp(-rate*dist).
func energyTransfer(rate float64, kind ParticleKind, energy, dist float64, rng *rand.Rand) float64 {
	if kind != ParticleGamma {
		return rate * dist
	}
	if rng.Float64() < math.Exp(-rate*dist) {
		return 0
	}
	return energy
}
