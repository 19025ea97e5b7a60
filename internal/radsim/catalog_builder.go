package radsim

import "fmt"

// BuildCatalogFromConfig validates a catalog configuration and builds the
// immutable substance catalog from it. Malformed data fails fast here
// rather than propagating into the physics.
func BuildCatalogFromConfig(cfg CatalogConfig) (*Catalog, error) {
	if err := ValidateCatalogConfig(cfg); err != nil {
		return nil, err
	}

	catalog := &Catalog{
		substances: make(map[SubstanceID]*Substance),
		order:      make([]SubstanceID, 0, len(cfg.Substances)),
	}

	for _, sc := range cfg.Substances {
		sub, err := buildSubstance(sc)
		if err != nil {
			return nil, fmt.Errorf("building substance %s: %w", sc.ID, err)
		}
		catalog.substances[sub.id] = sub
		catalog.order = append(catalog.order, sub.id)
	}

	return catalog, nil
}

func buildSubstance(sc SubstanceConfig) (*Substance, error) {
	curves := make(map[ParticleKind]StoppingPower, len(sc.Curves))
	for _, cc := range sc.Curves {
		kind, ok := ParseParticleKind(cc.Particle)
		if !ok {
			return nil, fmt.Errorf("unknown particle kind %q", cc.Particle)
		}
		curve := make(StoppingPower, 0, len(cc.Samples))
		for _, s := range cc.Samples {
			curve = append(curve, StoppingSample{Energy: s[0], Rate: s[1]})
		}
		curves[kind] = curve
	}

	absorber := true
	for _, kind := range absorberKinds {
		if _, ok := curves[kind]; !ok {
			absorber = false
			break
		}
	}

	sub := &Substance{
		id:       SubstanceID(sc.ID),
		symbol:   sc.Symbol,
		name:     sc.Name,
		density:  sc.DensityKgM3,
		curves:   curves,
		absorber: absorber,
	}

	if sc.Isotope != nil {
		iso, err := buildIsotope(sc.Isotope)
		if err != nil {
			return nil, err
		}
		sub.isotope = iso
	}

	return sub, nil
}

func buildIsotope(ic *IsotopeConfig) (*Isotope, error) {
	iso := &Isotope{
		Z:          ic.Z,
		N:          ic.N,
		Abundance:  ic.AbundancePct,
		HalfLife:   ic.HalfLifeSec,
		AtomicMass: ic.AtomicMassU,
	}

	if ic.Decay != nil {
		iso.Decay = Decay{
			Class:       ParseDecayClass(ic.Decay.Class),
			Energy:      ic.Decay.EnergyEV,
			GammaEnergy: ic.Decay.GammaEnergyEV,
		}
	}

	iso.Activity = specificActivity(iso.HalfLife, iso.AtomicMass)
	iso.Usable = iso.Decay.Energy > usableDecayEnergy && iso.Activity > 0

	if iso.Usable {
		if _, ok := iso.Decay.Class.EmittedKind(); !ok {
			return nil, fmt.Errorf("unsupported decay class %q on usable isotope %d/%d", iso.Decay.Class, iso.Z, iso.N)
		}
	}

	return iso, nil
}
