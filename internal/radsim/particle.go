package radsim

import (
	"math"

	"github.com/go-hep/fmom"
)

// ParticleKind identifies the species of a simulated particle.
type ParticleKind int

const (
	ParticleAlpha ParticleKind = iota
	ParticleElectron
	ParticleProton
	ParticleNeutron
	ParticleGamma
)

// String returns the lowercase name of the particle kind.
func (k ParticleKind) String() string {
	switch k {
	case ParticleAlpha:
		return "alpha"
	case ParticleElectron:
		return "electron"
	case ParticleProton:
		return "proton"
	case ParticleNeutron:
		return "neutron"
	case ParticleGamma:
		return "gamma"
	default:
		return "unknown"
	}
}

// ParseParticleKind parses a particle kind name as used in config files.
// Returns the kind and a boolean indicating if the name was recognized.
func ParseParticleKind(name string) (ParticleKind, bool) {
	switch name {
	case "alpha":
		return ParticleAlpha, true
	case "electron":
		return ParticleElectron, true
	case "proton":
		return ParticleProton, true
	case "neutron":
		return ParticleNeutron, true
	case "gamma":
		return ParticleGamma, true
	default:
		return 0, false
	}
}

// DoseWeight returns the equivalent-dose multiplier applied when this
// kind of particle deposits energy into an absorbing volume.
func (k ParticleKind) DoseWeight() float64 {
	if k == ParticleAlpha {
		return 20.0
	}
	return 1.0
}

// Particle is one live particle in flight. For gammas the Energy field is
// authoritative and the velocity magnitude is always the speed of light;
// for charged particles the velocity vector is authoritative and the
// kinetic energy is derived from its magnitude.
type Particle struct {
	Kind     ParticleKind
	Energy   float64 // eV, meaningful for gammas only
	Position fmom.Vec3
	Velocity fmom.Vec3 // m/s
}

// CurrentEnergy returns the particle's kinetic energy in eV.
func (p *Particle) CurrentEnergy() float64 {
	if p.Kind == ParticleGamma {
		return p.Energy
	}
	return VelocityToEnergy(vecLen(p.Velocity), p.Kind)
}

// ParticleView is the per-tick read-only projection of a live particle
// handed to presentation consumers.
type ParticleView struct {
	Position [3]float64   `json:"position"`
	Kind     ParticleKind `json:"kind"`
}

func vecLen(v fmom.Vec3) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func vecScale(v fmom.Vec3, s float64) fmom.Vec3 {
	return fmom.Vec3{v[0] * s, v[1] * s, v[2] * s}
}

func vecAdd(a, b fmom.Vec3) fmom.Vec3 {
	return fmom.Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func vecNormalize(v fmom.Vec3) fmom.Vec3 {
	norm := vecLen(v)
	if norm == 0 {
		return fmom.Vec3{}
	}
	return vecScale(v, 1/norm)
}
