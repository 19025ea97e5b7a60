package radsim

import (
	"fmt"
	"strings"
)

// ValidationError collects multiple validation issues
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "invalid config: unknown validation error"
	}
	if len(e.Issues) == 1 {
		return e.Issues[0]
	}
	return "config validation errors: " + strings.Join(e.Issues, "; ")
}

func (e *ValidationError) Add(issue string) {
	e.Issues = append(e.Issues, issue)
}

func (e *ValidationError) HasIssues() bool {
	return len(e.Issues) > 0
}

// ValidateCatalogConfig performs comprehensive validation of a
// CatalogConfig. Data-contract violations fail here, before any physics
// runs: unsupported decay classes on usable isotopes, missing or unordered
// curves, bad densities, duplicate IDs.
func ValidateCatalogConfig(cfg CatalogConfig) error {
	err := &ValidationError{}

	if cfg.Name == "" {
		err.Add("catalog name is required")
	}

	seen := make(map[string]bool)
	for i, sub := range cfg.Substances {
		where := fmt.Sprintf("substance %d (%s)", i, sub.ID)

		if sub.ID == "" {
			err.Add(fmt.Sprintf("substance %d: id is required", i))
		} else if seen[sub.ID] {
			err.Add(fmt.Sprintf("%s: duplicate id", where))
		}
		seen[sub.ID] = true

		if sub.DensityKgM3 < 0 {
			err.Add(fmt.Sprintf("%s: density must not be negative", where))
		}

		if sub.Isotope != nil {
			validateIsotopeConfig(err, where, sub.Isotope)
		}

		curveSeen := make(map[string]bool)
		for _, curve := range sub.Curves {
			kind, ok := ParseParticleKind(curve.Particle)
			if !ok {
				err.Add(fmt.Sprintf("%s: unknown particle kind %q", where, curve.Particle))
				continue
			}
			if curveSeen[curve.Particle] {
				err.Add(fmt.Sprintf("%s: duplicate curve for %s", where, kind))
			}
			curveSeen[curve.Particle] = true

			if len(curve.Samples) == 0 {
				err.Add(fmt.Sprintf("%s: curve for %s is empty", where, kind))
				continue
			}
			for j := 1; j < len(curve.Samples); j++ {
				if curve.Samples[j][0] <= curve.Samples[j-1][0] {
					err.Add(fmt.Sprintf("%s: curve for %s is not ascending by energy at sample %d", where, kind, j))
					break
				}
			}
		}
	}

	if err.HasIssues() {
		return err
	}
	return nil
}

func validateIsotopeConfig(err *ValidationError, where string, iso *IsotopeConfig) {
	if iso.Z <= 0 {
		err.Add(fmt.Sprintf("%s: isotope atomic number must be positive", where))
	}
	if iso.N < 0 {
		err.Add(fmt.Sprintf("%s: isotope neutron count must not be negative", where))
	}
	if iso.HalfLifeSec < 0 {
		err.Add(fmt.Sprintf("%s: isotope half life must not be negative", where))
	}
	if iso.HalfLifeSec > 0 && iso.AtomicMassU <= 0 {
		err.Add(fmt.Sprintf("%s: radioactive isotope needs a positive atomic mass", where))
	}

	if iso.Decay == nil {
		if iso.HalfLifeSec > 0 {
			err.Add(fmt.Sprintf("%s: radioactive isotope has no decay descriptor", where))
		}
		return
	}

	class := ParseDecayClass(iso.Decay.Class)
	if iso.Decay.EnergyEV < 0 {
		err.Add(fmt.Sprintf("%s: decay energy must not be negative", where))
	}
	if iso.Decay.GammaEnergyEV < 0 {
		err.Add(fmt.Sprintf("%s: gamma energy must not be negative", where))
	}
	// A usable source must emit a species the transport core supports.
	if iso.Decay.EnergyEV > usableDecayEnergy {
		if _, ok := class.EmittedKind(); !ok {
			err.Add(fmt.Sprintf("%s: unsupported decay class %q on usable isotope", where, iso.Decay.Class))
		}
	}
}

// ValidateSceneConfig validates a scene description against a built
// catalog. Empty mixtures, unknown substance references, and degenerate
// extents are rejected here so the transport core never sees them.
func ValidateSceneConfig(cfg SceneConfig, catalog *Catalog) error {
	err := &ValidationError{}

	if cfg.Name == "" {
		err.Add("scene name is required")
	}

	validateMixtureConfig(err, "ambient", cfg.Ambient, catalog)

	for i, vol := range cfg.Volumes {
		where := fmt.Sprintf("volume %d (%s)", i, vol.Name)
		if vol.Name == "" {
			err.Add(fmt.Sprintf("volume %d: name is required", i))
		}
		for axis := 0; axis < 3; axis++ {
			if vol.Extents[axis] <= 0 {
				err.Add(fmt.Sprintf("%s: extents must be positive on every axis", where))
				break
			}
		}
		validateMixtureConfig(err, where, vol.Mixture, catalog)

		if vol.Emitter != nil {
			if vol.Emitter.AlphaRate < 0 || vol.Emitter.BetaRate < 0 || vol.Emitter.GammaRate < 0 {
				err.Add(fmt.Sprintf("%s: emitter rates must not be negative", where))
			}
			if vol.Emitter.ParticleEnergyEV <= 0 {
				err.Add(fmt.Sprintf("%s: emitter particle energy must be positive", where))
			}
		}
	}

	if err.HasIssues() {
		return err
	}
	return nil
}

func validateMixtureConfig(err *ValidationError, where string, cfg MixtureConfig, catalog *Catalog) {
	if len(cfg.Parts) == 0 {
		err.Add(fmt.Sprintf("%s: mixture must not be empty", where))
		return
	}
	total := 0.0
	for _, part := range cfg.Parts {
		if part.Weight <= 0 {
			err.Add(fmt.Sprintf("%s: mixture weights must be positive", where))
		}
		total += part.Weight
		if _, ok := catalog.Substance(SubstanceID(part.Substance)); !ok {
			err.Add(fmt.Sprintf("%s: unknown substance %q", where, part.Substance))
		}
	}
	if total <= 0 {
		err.Add(fmt.Sprintf("%s: mixture weights must sum to a positive total", where))
	}
}
