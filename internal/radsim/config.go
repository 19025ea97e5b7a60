package radsim

// DecayConfig describes the dominant decay of an isotope.
// Class uses the data-table spelling: "A", "B-", "B+", "EC+B+".
type DecayConfig struct {
	Class         string  `json:"class"`
	EnergyEV      float64 `json:"energy_ev"`
	GammaEnergyEV float64 `json:"gamma_energy_ev,omitempty"`
}

// IsotopeConfig describes one nuclide of an element substance.
type IsotopeConfig struct {
	Z            int          `json:"z"`
	N            int          `json:"n"`
	AbundancePct float64      `json:"abundance_pct,omitempty"`
	HalfLifeSec  float64      `json:"half_life_sec,omitempty"`
	AtomicMassU  float64      `json:"atomic_mass_u,omitempty"`
	Decay        *DecayConfig `json:"decay,omitempty"`
}

// CurveConfig is a stopping-power or attenuation curve for one particle
// species. Samples are (energy eV, rate) pairs ascending by energy; the
// rate is eV/m for charged particles and 1/m for gammas.
type CurveConfig struct {
	Particle string       `json:"particle"`
	Samples  [][2]float64 `json:"samples"`
}

// SubstanceConfig describes one substance. An entry with an Isotope is an
// element with isotope selection; without one it is a compound.
type SubstanceConfig struct {
	ID          string         `json:"id"`
	Symbol      string         `json:"symbol"`
	Name        string         `json:"name"`
	DensityKgM3 float64        `json:"density_kg_m3"`
	Isotope     *IsotopeConfig `json:"isotope,omitempty"`
	Curves      []CurveConfig  `json:"curves,omitempty"`
}

// CatalogConfig is the startup description of the substance catalog.
type CatalogConfig struct {
	Name       string            `json:"name"`
	Substances []SubstanceConfig `json:"substances"`
}

// MixturePartConfig is one weighted component of a mixture, referencing a
// substance by catalog ID.
type MixturePartConfig struct {
	Weight    float64 `json:"weight"`
	Substance string  `json:"substance"`
}

// MixtureConfig is a weighted substance list. Weights should sum to 1.0.
type MixtureConfig struct {
	Parts []MixturePartConfig `json:"parts"`
}

// EmitterConfig attaches a fixed-rate linear particle emitter to a volume.
// Rates are particles per second, energy in eV.
type EmitterConfig struct {
	AlphaRate        float64 `json:"alpha_rate,omitempty"`
	BetaRate         float64 `json:"beta_rate,omitempty"`
	GammaRate        float64 `json:"gamma_rate,omitempty"`
	ParticleEnergyEV float64 `json:"particle_energy_ev"`
}

// VolumeConfig describes one axis-aligned volume in the scene.
type VolumeConfig struct {
	Name     string         `json:"name"`
	Position [3]float64     `json:"position"`
	Extents  [3]float64     `json:"extents"`
	Mixture  MixtureConfig  `json:"mixture"`
	Emitter  *EmitterConfig `json:"emitter,omitempty"`
}

// SceneConfig is the description of a simulation scene: an ambient medium
// plus a list of volumes.
type SceneConfig struct {
	Name    string         `json:"name"`
	Ambient MixtureConfig  `json:"ambient"`
	Volumes []VolumeConfig `json:"volumes"`
}
