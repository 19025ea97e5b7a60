package radsim

import "math"

// Physical constants, SI units unless noted.
const (
	// LightSpeed is the propagation speed of photons in m/s.
	LightSpeed = 299792458.0
	// AvogadroConstant in 1/mol.
	AvogadroConstant = 6.02214076e23
	// EVConversion converts eV to Joule.
	EVConversion = 1.602e-19
	// ElectronMass in kg.
	ElectronMass = 9.1093837015e-31
	// AlphaMass in kg.
	AlphaMass = 6.6446573357e-27
)

// restMass returns the rest mass used for kinetic conversions. Electrons
// use the electron mass; every other massive species uses the alpha mass
// as a stand-in.
func restMass(kind ParticleKind) float64 {
	if kind == ParticleElectron {
		return ElectronMass
	}
	return AlphaMass
}

// EnergyToVelocity converts a kinetic energy in eV to a speed in m/s using
// the relativistic relation. The result is always strictly below the speed
// of light for finite energies, and 0 for non-positive energies.
func EnergyToVelocity(energy float64, kind ParticleKind) float64 {
	if energy <= 0 {
		return 0
	}
	// k-1 is formed directly and k*k-1 expanded to (k-1)(k+1) so small
	// energies keep full precision instead of vanishing into k.
	km1 := energy * EVConversion / (restMass(kind) * LightSpeed * LightSpeed)
	v := LightSpeed * math.Sqrt(km1*(km1+2)) / (km1 + 1)
	if v >= LightSpeed {
		v = math.Nextafter(LightSpeed, 0)
	}
	return v
}

// VelocityToEnergy converts a speed in m/s to a kinetic energy in eV, the
// inverse of EnergyToVelocity. Speeds at or above the speed of light are
// clamped just below it.
func VelocityToEnergy(speed float64, kind ParticleKind) float64 {
	if speed <= 0 {
		return 0
	}
	if speed >= LightSpeed {
		speed = math.Nextafter(LightSpeed, 0)
	}
	beta := speed / LightSpeed
	// 1-beta*beta via (1-beta)(1+beta), and k-1 = beta^2/(g(1+g)) with
	// g = 1/k, so the result never goes through the cancellation of
	// 1/sqrt(1-beta^2) - 1 at low speeds.
	g := math.Sqrt((1 - beta) * (1 + beta))
	km1 := beta * beta / (g * (1 + g))
	return km1 * restMass(kind) * LightSpeed * LightSpeed / EVConversion
}
