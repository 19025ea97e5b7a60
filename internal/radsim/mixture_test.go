package radsim

import (
	"math/rand"
	"testing"
)

func testSubstance(id SubstanceID, density float64) *Substance {
	return &Substance{
		id:      id,
		symbol:  string(id),
		name:    string(id),
		density: density,
		curves:  map[ParticleKind]StoppingPower{},
	}
}

func TestMixturePick(t *testing.T) {
	a := testSubstance("A", 100)
	b := testSubstance("B", 200)
	m := MaterialMixture{Parts: []MixturePart{
		{Weight: 0.3, Substance: a},
		{Weight: 0.7, Substance: b},
	}}

	if got := m.pick(0.2); got != a {
		t.Errorf("Expected draw 0.2 to resolve to A, got %s", got.ID())
	}
	if got := m.pick(0.5); got != b {
		t.Errorf("Expected draw 0.5 to resolve to B, got %s", got.ID())
	}
	if got := m.pick(0.0); got != a {
		t.Errorf("Expected draw 0.0 to resolve to A, got %s", got.ID())
	}
	if got := m.pick(0.999); got != b {
		t.Errorf("Expected draw 0.999 to resolve to B, got %s", got.ID())
	}
}

func TestMixturePickSinglePart(t *testing.T) {
	a := testSubstance("A", 100)
	m := MaterialMixture{Parts: []MixturePart{{Weight: 1.0, Substance: a}}}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		if got := m.Pick(rng); got != a {
			t.Fatalf("Expected single-part mixture to always resolve to A, got %s", got.ID())
		}
	}
}

func TestMixturePickDistribution(t *testing.T) {
	a := testSubstance("A", 100)
	b := testSubstance("B", 200)
	m := MaterialMixture{Parts: []MixturePart{
		{Weight: 0.3, Substance: a},
		{Weight: 0.7, Substance: b},
	}}

	rng := rand.New(rand.NewSource(42))
	const trials = 100000
	countA := 0
	for i := 0; i < trials; i++ {
		if m.Pick(rng) == a {
			countA++
		}
	}

	frac := float64(countA) / trials
	if frac < 0.29 || frac > 0.31 {
		t.Errorf("Expected A fraction near 0.3, got %g", frac)
	}
}

func TestAverageDensity(t *testing.T) {
	m := MaterialMixture{Parts: []MixturePart{
		{Weight: 0.3, Substance: testSubstance("A", 100)},
		{Weight: 0.7, Substance: testSubstance("B", 200)},
	}}

	expected := 0.3*100 + 0.7*200
	if got := m.AverageDensity(); got != expected {
		t.Errorf("Expected average density %g, got %g", expected, got)
	}
}
