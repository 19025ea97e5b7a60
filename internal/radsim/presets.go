package radsim

// Built-in catalog and scene presets. Curve tables are compact excerpts of
// the tabulated stopping-power / mass-attenuation data, already converted
// to eV/m (charged particles) and 1/m (gammas) for each substance's
// density. Energies are in eV.

// DefaultCatalogConfig returns the built-in substance catalog description:
// a vacuum and air ambient pair, water, stable lead, and the Pb-210 and
// Pu-239 radiation sources.
func DefaultCatalogConfig() CatalogConfig {
	return CatalogConfig{
		Name: "default",
		Substances: []SubstanceConfig{
			{
				ID:          "Vacuum",
				Symbol:      "-",
				Name:        "Vacuum",
				DensityKgM3: 0,
				// No curves: particles pass through unaffected.
			},
			{
				ID:          "Air",
				Symbol:      "Air",
				Name:        "Air, dry",
				DensityKgM3: 1.204,
				Curves: []CurveConfig{
					{Particle: "alpha", Samples: [][2]float64{
						{1.0e5, 2.7e8}, {1.0e6, 2.2e8}, {5.0e6, 1.1e8}, {1.0e7, 7.2e7},
					}},
					{Particle: "electron", Samples: [][2]float64{
						{1.0e4, 2.4e6}, {1.0e5, 4.4e5}, {1.0e6, 2.2e5}, {1.0e7, 2.4e5},
					}},
					{Particle: "gamma", Samples: [][2]float64{
						{1.0e4, 0.62}, {1.0e5, 0.019}, {1.0e6, 0.0077}, {1.0e7, 0.0027},
					}},
				},
			},
			{
				ID:          "Water",
				Symbol:      "H2O",
				Name:        "Water, liquid",
				DensityKgM3: 1000,
				Curves: []CurveConfig{
					{Particle: "alpha", Samples: [][2]float64{
						{1.0e5, 2.4e11}, {1.0e6, 1.9e11}, {5.0e6, 8.9e10}, {1.0e7, 5.8e10},
					}},
					{Particle: "electron", Samples: [][2]float64{
						{1.0e4, 2.3e9}, {1.0e5, 4.2e8}, {1.0e6, 1.9e8}, {1.0e7, 2.0e8},
					}},
					{Particle: "gamma", Samples: [][2]float64{
						{1.0e4, 529}, {1.0e5, 17.1}, {1.0e6, 7.07}, {1.0e7, 2.22},
					}},
				},
			},
			{
				ID:          "Pb-208",
				Symbol:      "Pb",
				Name:        "Lead",
				DensityKgM3: 11350,
				Isotope: &IsotopeConfig{
					Z:            82,
					N:            126,
					AbundancePct: 52.4,
					AtomicMassU:  207.9766525,
					// Stable: no half life, no decay.
				},
				Curves: leadCurves(),
			},
			{
				ID:          "Pb-210",
				Symbol:      "Pb",
				Name:        "Lead-210",
				DensityKgM3: 11350,
				Isotope: &IsotopeConfig{
					Z:           82,
					N:           128,
					HalfLifeSec: 7.01e8, // 22.2 years
					AtomicMassU: 209.9841889,
					Decay: &DecayConfig{
						Class:         "B-",
						EnergyEV:      6.35e4,
						GammaEnergyEV: 4.65e4,
					},
				},
				Curves: leadCurves(),
			},
			{
				ID:          "Pu-239",
				Symbol:      "Pu",
				Name:        "Plutonium-239",
				DensityKgM3: 19816,
				Isotope: &IsotopeConfig{
					Z:           94,
					N:           145,
					HalfLifeSec: 7.609e11, // 24110 years
					AtomicMassU: 239.0521636,
					Decay: &DecayConfig{
						Class:         "A",
						EnergyEV:      5.2445e6,
						GammaEnergyEV: 5.16e4,
					},
				},
				// No curves registered: the source itself does not act as
				// an absorber in the preset scenes.
			},
		},
	}
}

func leadCurves() []CurveConfig {
	return []CurveConfig{
		{Particle: "alpha", Samples: [][2]float64{
			{1.0e5, 8.4e11}, {1.0e6, 9.1e11}, {5.0e6, 5.5e11}, {1.0e7, 3.8e11},
		}},
		{Particle: "electron", Samples: [][2]float64{
			{1.0e4, 1.6e10}, {1.0e5, 3.2e9}, {1.0e6, 1.6e9}, {1.0e7, 2.3e9},
		}},
		{Particle: "gamma", Samples: [][2]float64{
			{1.0e4, 1.5e5}, {1.0e5, 6.3e3}, {1.0e6, 804}, {1.0e7, 563},
		}},
	}
}

// DefaultCatalog builds the catalog from DefaultCatalogConfig.
func DefaultCatalog() (*Catalog, error) {
	return BuildCatalogFromConfig(DefaultCatalogConfig())
}

// SandboxSceneConfig returns the sandbox preset: an air ambient, a lead
// ground slab and shielding wand, a Pu-239 source, and two water blocks
// standing in for a human body.
func SandboxSceneConfig() SceneConfig {
	lead := MixtureConfig{Parts: []MixturePartConfig{{Weight: 1.0, Substance: "Pb-208"}}}
	water := MixtureConfig{Parts: []MixturePartConfig{{Weight: 1.0, Substance: "Water"}}}

	return SceneConfig{
		Name:    "sandbox",
		Ambient: MixtureConfig{Parts: []MixturePartConfig{{Weight: 1.0, Substance: "Air"}}},
		Volumes: []VolumeConfig{
			{
				Name:     "ground",
				Position: [3]float64{0, -0.5, 0},
				Extents:  [3]float64{100, 1, 100},
				Mixture:  lead,
			},
			{
				Name:     "shield",
				Position: [3]float64{0.5, 0.5, 0},
				Extents:  [3]float64{0.01, 2, 2},
				Mixture:  lead,
			},
			{
				Name:     "source",
				Position: [3]float64{0, 0.1, 0},
				Extents:  [3]float64{0.2, 0.2, 0.2},
				Mixture:  MixtureConfig{Parts: []MixturePartConfig{{Weight: 1.0, Substance: "Pu-239"}}},
			},
			{
				Name:     "body",
				Position: [3]float64{2, 0.9, 0},
				Extents:  [3]float64{0.27, 1.8, 0.2},
				Mixture:  water,
			},
			{
				Name:     "arms",
				Position: [3]float64{2, 1.37, 0},
				Extents:  [3]float64{1.7, 0.1, 0.1},
				Mixture:  water,
			},
		},
	}
}

// ExperimentSceneConfig returns the experiment preset: a vacuum ambient, a
// thin Pb-210 target, a fixed-rate linear beam source aimed at it, and a
// stable-lead beam stop. The stop is Pb-208 on purpose: a cubic meter of
// Pb-210 would be a 3e19 Bq source and swamp the scene with its own
// decay particles.
func ExperimentSceneConfig() SceneConfig {
	lead := MixtureConfig{Parts: []MixturePartConfig{{Weight: 1.0, Substance: "Pb-208"}}}
	pb210 := MixtureConfig{Parts: []MixturePartConfig{{Weight: 1.0, Substance: "Pb-210"}}}
	vacuum := MixtureConfig{Parts: []MixturePartConfig{{Weight: 1.0, Substance: "Vacuum"}}}

	return SceneConfig{
		Name:    "experiment",
		Ambient: vacuum,
		Volumes: []VolumeConfig{
			{
				Name:     "ground",
				Position: [3]float64{0, -0.5, 0},
				Extents:  [3]float64{100, 1, 100},
				Mixture:  lead,
			},
			{
				Name:     "target",
				Position: [3]float64{0.06, 0.05, 0},
				Extents:  [3]float64{0.001, 0.1, 0.1},
				Mixture:  pb210,
			},
			{
				Name:     "beam-source",
				Position: [3]float64{-0.06, 0.05, 0},
				Extents:  [3]float64{0.01, 0.1, 0.1},
				Mixture:  vacuum,
				Emitter: &EmitterConfig{
					AlphaRate:        1e10,
					BetaRate:         1e11,
					GammaRate:        1e11,
					ParticleEnergyEV: 1e5,
				},
			},
			{
				Name:     "stop",
				Position: [3]float64{2, 0.5, 0},
				Extents:  [3]float64{1, 1, 1},
				Mixture:  lead,
			},
		},
	}
}
