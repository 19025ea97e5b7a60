package radsim

import "math"

// DecayClass is the dominant decay mode of an isotope.
type DecayClass int

const (
	DecayNone DecayClass = iota
	DecayAlpha
	DecayBetaMinus
	DecayBetaPlus
	DecayElectronCapture
	DecayOther
)

// String returns the data-table spelling of the decay class.
func (d DecayClass) String() string {
	switch d {
	case DecayNone:
		return ""
	case DecayAlpha:
		return "A"
	case DecayBetaMinus:
		return "B-"
	case DecayBetaPlus:
		return "B+"
	case DecayElectronCapture:
		return "EC+B+"
	default:
		return "other"
	}
}

// ParseDecayClass parses a decay class as spelled in isotope data tables.
// Unknown spellings map to DecayOther, the unsupported class.
func ParseDecayClass(s string) DecayClass {
	switch s {
	case "":
		return DecayNone
	case "A":
		return DecayAlpha
	case "B-":
		return DecayBetaMinus
	case "B+":
		return DecayBetaPlus
	case "EC+B+":
		return DecayElectronCapture
	default:
		return DecayOther
	}
}

// EmittedKind returns the charged particle species emitted by this decay
// class. The boolean is false for classes the transport core does not
// support; such classes are rejected at catalog build time for any isotope
// flagged usable.
func (d DecayClass) EmittedKind() (ParticleKind, bool) {
	switch d {
	case DecayAlpha:
		return ParticleAlpha, true
	case DecayBetaMinus, DecayBetaPlus, DecayElectronCapture:
		return ParticleElectron, true
	default:
		return 0, false
	}
}

// Decay describes the dominant decay of an isotope.
type Decay struct {
	Class DecayClass
	// Energy in eV carried by the emitted charged particle.
	Energy float64
	// GammaEnergy in eV of the correlated gamma quantum; 0 means none.
	GammaEnergy float64
}

// usableDecayEnergy is the threshold in eV above which an isotope's decay
// is considered non-negligible, making it usable as a radiation source.
const usableDecayEnergy = 0.1

// Isotope is one nuclide of an element. Immutable after catalog build.
type Isotope struct {
	Z int
	N int
	// Abundance in percent.
	Abundance float64
	// HalfLife in seconds; 0 means stable.
	HalfLife float64
	// AtomicMass in u.
	AtomicMass float64
	Decay      Decay
	// Activity is the specific activity in Bq/kg, derived from the half
	// life and atomic mass at build time. 0 for stable isotopes.
	Activity float64
	// Usable marks isotopes whose decay energy is non-negligible,
	// eligible to spawn particles.
	Usable bool
}

// specificActivity derives the activity in Bq/kg from a half life in
// seconds and an atomic mass in u.
func specificActivity(halfLife, atomicMass float64) float64 {
	if halfLife <= 0 || atomicMass <= 0 {
		return 0
	}
	// Bq/g, then converted to Bq/kg.
	return (AvogadroConstant * math.Ln2 / (halfLife * atomicMass)) * 1000.0
}

// Substance is an element with a selected isotope, or a compound.
// Substances are immutable and shared by reference across every volume
// that uses them; they are owned by the Catalog for the process lifetime.
type Substance struct {
	id      SubstanceID
	symbol  string
	name    string
	density float64 // kg/m3
	isotope *Isotope
	curves  map[ParticleKind]StoppingPower
	// absorber is true only when curves exist for every tracked species.
	absorber bool
}

// ID returns the catalog identifier of the substance.
func (s *Substance) ID() SubstanceID { return s.id }

// Symbol returns the chemical symbol, e.g. "Pb" or "H2O".
func (s *Substance) Symbol() string { return s.symbol }

// Name returns the human-readable name.
func (s *Substance) Name() string { return s.name }

// Density returns the density in kg/m3.
func (s *Substance) Density() float64 { return s.density }

// Isotope returns the selected isotope for element substances, or nil for
// compounds.
func (s *Substance) Isotope() *Isotope { return s.isotope }

// Curve returns the stopping-power or attenuation curve for the given
// particle kind, and whether one is registered.
func (s *Substance) Curve(kind ParticleKind) (StoppingPower, bool) {
	c, ok := s.curves[kind]
	return c, ok
}

// IsAbsorber reports whether curves are available for every tracked
// particle species, allowing the substance to absorb radiation.
func (s *Substance) IsAbsorber() bool { return s.absorber }

// IsRadiator reports whether the substance can spawn particles, i.e. it is
// an element whose selected isotope has a usable decay.
func (s *Substance) IsRadiator() bool {
	return s.isotope != nil && s.isotope.Usable
}

// SubstanceID is the catalog identifier of a substance, e.g. "Pb-208" for
// an element with isotope selection or "Air" for a compound.
type SubstanceID string

// absorberKinds are the species a substance must carry curves for to be
// flagged an absorber.
var absorberKinds = []ParticleKind{ParticleAlpha, ParticleElectron, ParticleGamma}

// Catalog is the read-only registry of substances built once at startup.
type Catalog struct {
	substances map[SubstanceID]*Substance
	order      []SubstanceID
}

// Substance retrieves a substance by ID.
// Returns the substance and a boolean indicating if it was found.
func (c *Catalog) Substance(id SubstanceID) (*Substance, bool) {
	s, ok := c.substances[id]
	return s, ok
}

// IDs returns all substance IDs in registration order.
func (c *Catalog) IDs() []SubstanceID {
	out := make([]SubstanceID, len(c.order))
	copy(out, c.order)
	return out
}

// Radiators returns every substance whose isotope has a usable decay, in
// registration order.
func (c *Catalog) Radiators() []*Substance {
	out := make([]*Substance, 0)
	for _, id := range c.order {
		if s := c.substances[id]; s.IsRadiator() {
			out = append(out, s)
		}
	}
	return out
}

// Absorbers returns every absorbing substance, in registration order.
// For elements registered with several isotopes only the most abundant
// absorbing isotope is returned; compounds are returned directly.
func (c *Catalog) Absorbers() []*Substance {
	bestByZ := make(map[int]*Substance)
	out := make([]*Substance, 0)
	for _, id := range c.order {
		s := c.substances[id]
		if !s.IsAbsorber() {
			continue
		}
		if s.isotope == nil {
			out = append(out, s)
			continue
		}
		best, seen := bestByZ[s.isotope.Z]
		if !seen {
			bestByZ[s.isotope.Z] = s
			out = append(out, s)
			continue
		}
		if s.isotope.Abundance > best.isotope.Abundance {
			for i, prev := range out {
				if prev == best {
					out[i] = s
					break
				}
			}
			bestByZ[s.isotope.Z] = s
		}
	}
	return out
}
