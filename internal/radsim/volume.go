package radsim

import (
	"math"
	"sync/atomic"

	"github.com/go-hep/fmom"
)

// DoseCell is a lock-free accumulator for absorbed dose in eV. Many
// transport workers add to the same cell concurrently; a compare-and-swap
// loop over the float64 bit pattern guarantees no update is lost.
type DoseCell struct {
	bits atomic.Uint64
}

// Add atomically adds ev to the cell.
func (c *DoseCell) Add(ev float64) {
	for {
		old := c.bits.Load()
		next := math.Float64bits(math.Float64frombits(old) + ev)
		if c.bits.CompareAndSwap(old, next) {
			return
		}
	}
}

// Load returns the current value.
func (c *DoseCell) Load() float64 {
	return math.Float64frombits(c.bits.Load())
}

// Swap replaces the value and returns the previous one.
func (c *DoseCell) Swap(v float64) float64 {
	return math.Float64frombits(c.bits.Swap(math.Float64bits(v)))
}

// Volume is one axis-aligned box in the scene. Its geometry and mixture
// are read-only during a tick; edits from the outside are applied only
// between ticks. The dose accumulators are the single shared mutable
// resource of the transport step.
type Volume struct {
	Name     string
	Position fmom.Vec3
	// Extents are the full side lengths of the box along each axis.
	Extents fmom.Vec3
	Mixture MaterialMixture
	// Emitter optionally attaches a fixed-rate linear particle source.
	Emitter *LinearEmitter

	// tickDose collects equivalent-weighted energy transfers during the
	// current tick; the scheduler flushes it into dose at tick end.
	tickDose DoseCell
	dose     DoseCell
}

// Contains reports whether the point lies inside the volume's bounding
// box, inclusive at the lower bound and exclusive at the upper bound on
// every axis.
func (v *Volume) Contains(p fmom.Vec3) bool {
	for axis := 0; axis < 3; axis++ {
		lo := v.Position[axis] - v.Extents[axis]/2
		hi := v.Position[axis] + v.Extents[axis]/2
		if p[axis] < lo || p[axis] >= hi {
			return false
		}
	}
	return true
}

// VolumeM3 returns the geometric volume in m3.
func (v *Volume) VolumeM3() float64 {
	return v.Extents[0] * v.Extents[1] * v.Extents[2]
}

// AbsorbedDose returns the accumulated equivalent-weighted dose in eV.
// Safe to call concurrently with a running tick.
func (v *Volume) AbsorbedDose() float64 {
	return v.dose.Load()
}

// ResetDose clears both the persistent and the in-flight accumulators.
func (v *Volume) ResetDose() {
	v.tickDose.Swap(0)
	v.dose.Swap(0)
}

// flushDose moves the per-tick accumulation into the persistent total.
func (v *Volume) flushDose() {
	v.dose.Add(v.tickDose.Swap(0))
}

// VolumeDose is the per-volume dose reading handed to presentation
// consumers and snapshots.
type VolumeDose struct {
	Name   string  `json:"name"`
	DoseEV float64 `json:"dose_ev"`
}

// Scene is the set of volumes plus the ambient medium applied to any
// point not inside a volume.
type Scene struct {
	Name    string
	Ambient MaterialMixture
	Volumes []*Volume
}

// volumeAt returns the first volume containing the point, in slice order,
// or nil when the point is in the ambient medium. The first-match
// tie-break for overlapping volumes is defined but arbitrary.
func (sc *Scene) volumeAt(p fmom.Vec3) *Volume {
	for _, v := range sc.Volumes {
		if v.Contains(p) {
			return v
		}
	}
	return nil
}

// BuildSceneFromConfig validates a scene description against the catalog
// and builds the runtime scene from it.
func BuildSceneFromConfig(cfg SceneConfig, catalog *Catalog) (*Scene, error) {
	if err := ValidateSceneConfig(cfg, catalog); err != nil {
		return nil, err
	}

	scene := &Scene{
		Name:    cfg.Name,
		Ambient: buildMixture(cfg.Ambient, catalog),
		Volumes: make([]*Volume, 0, len(cfg.Volumes)),
	}

	for _, vc := range cfg.Volumes {
		vol := &Volume{
			Name:     vc.Name,
			Position: fmom.Vec3{vc.Position[0], vc.Position[1], vc.Position[2]},
			Extents:  fmom.Vec3{vc.Extents[0], vc.Extents[1], vc.Extents[2]},
			Mixture:  buildMixture(vc.Mixture, catalog),
		}
		if vc.Emitter != nil {
			vol.Emitter = &LinearEmitter{
				AlphaRate:      vc.Emitter.AlphaRate,
				BetaRate:       vc.Emitter.BetaRate,
				GammaRate:      vc.Emitter.GammaRate,
				ParticleEnergy: vc.Emitter.ParticleEnergyEV,
			}
		}
		scene.Volumes = append(scene.Volumes, vol)
	}

	return scene, nil
}

func buildMixture(cfg MixtureConfig, catalog *Catalog) MaterialMixture {
	parts := make([]MixturePart, 0, len(cfg.Parts))
	for _, pc := range cfg.Parts {
		// Validation guarantees the substance exists.
		sub, _ := catalog.Substance(SubstanceID(pc.Substance))
		parts = append(parts, MixturePart{Weight: pc.Weight, Substance: sub})
	}
	return MaterialMixture{Parts: parts}
}
