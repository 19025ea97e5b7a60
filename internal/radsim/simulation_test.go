package radsim

import (
	"testing"
	"time"
)

func experimentSimulation(t *testing.T) *Simulation {
	t.Helper()
	catalog := mustDefaultCatalog(t)
	scene, err := BuildSceneFromConfig(ExperimentSceneConfig(), catalog)
	if err != nil {
		t.Fatalf("BuildSceneFromConfig failed: %v", err)
	}
	sim := NewSimulation(scene)
	sim.SetSeed(12345)
	sim.SetWorkers(2)
	return sim
}

func TestSimulationStep(t *testing.T) {
	sim := experimentSimulation(t)

	sim.Step()
	if got := sim.Tick(); got != 1 {
		t.Errorf("Expected tick 1, got %d", got)
	}

	cfg := sim.TimeConfig()
	want := cfg.CalcStep * float64(cfg.MultiStep)
	if got := sim.ElapsedSeconds(); got != want {
		t.Errorf("Expected elapsed %v after one tick, got %v", want, got)
	}

	// The experiment beam emits every tick, so particles must exist.
	if got := sim.ParticleCount(); got == 0 {
		t.Error("Expected live particles after the first tick")
	}
	if views := sim.Particles(); len(views) != sim.ParticleCount() {
		t.Errorf("Expected view count %d to match particle count, got %d", sim.ParticleCount(), len(views))
	}

	doses := sim.Doses()
	if len(doses) != len(ExperimentSceneConfig().Volumes) {
		t.Errorf("Expected one dose reading per volume, got %d", len(doses))
	}
}

func TestSimulationHaltResume(t *testing.T) {
	sim := experimentSimulation(t)

	sim.Step()
	tick := sim.Tick()
	elapsed := sim.ElapsedSeconds()

	sim.Halt()
	if !sim.Halted() {
		t.Error("Expected simulation to report halted")
	}
	sim.Step()
	sim.Step()
	if got := sim.Tick(); got != tick {
		t.Errorf("Expected tick frozen at %d while halted, got %d", tick, got)
	}
	if got := sim.ElapsedSeconds(); got != elapsed {
		t.Errorf("Expected elapsed frozen at %v while halted, got %v", elapsed, got)
	}

	sim.Resume()
	if sim.Halted() {
		t.Error("Expected simulation to resume")
	}
	sim.Step()
	if got := sim.Tick(); got != tick+1 {
		t.Errorf("Expected tick %d after resume, got %d", tick+1, got)
	}
}

func TestSimulationReset(t *testing.T) {
	sim := experimentSimulation(t)

	for i := 0; i < 5; i++ {
		sim.Step()
	}
	if sim.ParticleCount() == 0 {
		t.Fatal("Expected live particles before reset")
	}

	sim.Reset()
	if got := sim.Tick(); got != 0 {
		t.Errorf("Expected tick 0 after reset, got %d", got)
	}
	if got := sim.ElapsedSeconds(); got != 0 {
		t.Errorf("Expected elapsed 0 after reset, got %v", got)
	}
	if got := sim.ParticleCount(); got != 0 {
		t.Errorf("Expected no particles after reset, got %d", got)
	}
	for _, d := range sim.Doses() {
		if d.DoseEV != 0 {
			t.Errorf("Volume %s: expected zero dose after reset, got %v", d.Name, d.DoseEV)
		}
	}
}

func TestSimulationSetTimeConfig(t *testing.T) {
	sim := experimentSimulation(t)

	sim.SetTimeConfig(TimeConfig{CalcStep: 2e-11, MultiStep: 8})
	cfg := sim.TimeConfig()
	if cfg.CalcStep != 2e-11 {
		t.Errorf("Expected calc step 2e-11, got %v", cfg.CalcStep)
	}
	if cfg.MultiStep != 8 {
		t.Errorf("Expected multi step 8, got %d", cfg.MultiStep)
	}
	// Unset fields keep their defaults.
	if cfg.MoveStep != DefaultTimeConfig().MoveStep {
		t.Errorf("Expected move step untouched, got %v", cfg.MoveStep)
	}

	sim.SetTimeConfig(TimeConfig{CalcStep: -1, MoveStep: -1, MultiStep: -1})
	if got := sim.TimeConfig(); got != cfg {
		t.Errorf("Expected negative fields to be ignored, got %+v", got)
	}
}

func TestSimulationEdit(t *testing.T) {
	sim := experimentSimulation(t)

	var names []string
	sim.Edit(func(sc *Scene) {
		for _, v := range sc.Volumes {
			names = append(names, v.Name)
		}
	})
	if len(names) != len(ExperimentSceneConfig().Volumes) {
		t.Errorf("Expected %d volumes visible to edits, got %d", len(ExperimentSceneConfig().Volumes), len(names))
	}
}

func TestSimulationRunStop(t *testing.T) {
	sim := experimentSimulation(t)

	sim.Run(time.Millisecond)
	defer sim.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for sim.Tick() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("Expected ticks to advance while running")
		}
		time.Sleep(time.Millisecond)
	}

	sim.Stop()
	time.Sleep(20 * time.Millisecond)
	tick := sim.Tick()
	time.Sleep(20 * time.Millisecond)
	if got := sim.Tick(); got != tick {
		t.Errorf("Expected ticks to stop advancing after Stop, got %d then %d", tick, got)
	}

	// Restart after stop is allowed.
	sim.Run(time.Millisecond)
	deadline = time.Now().Add(2 * time.Second)
	for sim.Tick() == tick {
		if time.Now().After(deadline) {
			t.Fatal("Expected ticks to advance after restart")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestSimulationNotifications(t *testing.T) {
	sim := experimentSimulation(t)
	sim.SetSimulationID("exp-1")

	mgr := NewNotificationManager()
	defer mgr.Close()

	capture := newCaptureNotifier("cap")
	if err := mgr.RegisterNotifier(capture); err != nil {
		t.Fatalf("RegisterNotifier failed: %v", err)
	}
	sim.SetNotificationManager(mgr, "cap")

	sim.Step()
	sim.Step()

	events := capture.waitFor(2, time.Second)
	if len(events) < 2 {
		t.Fatalf("Expected 2 frame events, got %d", len(events))
	}

	first := events[0]
	if first.SimulationID != "exp-1" {
		t.Errorf("Expected simulation id exp-1, got %s", first.SimulationID)
	}
	if first.Tick != 1 {
		t.Errorf("Expected tick 1 in first frame, got %d", first.Tick)
	}
	if len(first.Doses) != len(ExperimentSceneConfig().Volumes) {
		t.Errorf("Expected per-volume doses in the frame, got %d", len(first.Doses))
	}
}
