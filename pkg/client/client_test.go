package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-hep/fmom"

	"github.com/daniacca/radsim/internal/radsim"
)

func TestSceneBuilder(t *testing.T) {
	scene := NewScene("test-scene").
		Ambient(PureMixture("Air")).
		Volume(NewVolume("block").
			Position(0, 0, 0).
			Extents(1, 1, 1).
			Mixture(PureMixture("Pb-208")))

	cfg := scene.Build()

	if cfg.Name != "test-scene" {
		t.Errorf("Expected name 'test-scene', got '%s'", cfg.Name)
	}

	if len(cfg.Ambient.Parts) != 1 {
		t.Fatalf("Expected 1 ambient part, got %d", len(cfg.Ambient.Parts))
	}

	if cfg.Ambient.Parts[0].Substance != "Air" {
		t.Errorf("Expected ambient substance 'Air', got '%s'", cfg.Ambient.Parts[0].Substance)
	}

	if len(cfg.Volumes) != 1 {
		t.Fatalf("Expected 1 volume, got %d", len(cfg.Volumes))
	}

	if cfg.Volumes[0].Name != "block" {
		t.Errorf("Expected volume 'block', got '%s'", cfg.Volumes[0].Name)
	}
}

func TestVolumeBuilder(t *testing.T) {
	volume := NewVolume("source").
		Position(1, 2, 3).
		Extents(0.5, 0.5, 0.5).
		Mixture(PureMixture("Pu-239")).
		Emitter(NewEmitter(5.0e6).Alpha(1e9))

	cfg := volume.Build()

	if cfg.Name != "source" {
		t.Errorf("Expected name 'source', got '%s'", cfg.Name)
	}

	if cfg.Position != [3]float64{1, 2, 3} {
		t.Errorf("Expected position [1 2 3], got %v", cfg.Position)
	}

	if cfg.Extents != [3]float64{0.5, 0.5, 0.5} {
		t.Errorf("Expected extents [0.5 0.5 0.5], got %v", cfg.Extents)
	}

	if cfg.Emitter == nil {
		t.Fatal("Expected emitter to be set")
	}

	if cfg.Emitter.AlphaRate != 1e9 {
		t.Errorf("Expected alpha rate 1e9, got %f", cfg.Emitter.AlphaRate)
	}

	if cfg.Emitter.ParticleEnergyEV != 5.0e6 {
		t.Errorf("Expected particle energy 5.0e6, got %f", cfg.Emitter.ParticleEnergyEV)
	}
}

func TestVolumeBuilderWithoutEmitter(t *testing.T) {
	cfg := NewVolume("plain").
		Position(0, 0, 0).
		Extents(1, 1, 1).
		Mixture(PureMixture("Water")).
		Build()

	if cfg.Emitter != nil {
		t.Error("Expected no emitter")
	}
}

func TestMixtureBuilder(t *testing.T) {
	mixture := NewMixture().
		Part(0.7, "Water").
		Part(0.3, "Pb-208")

	cfg := mixture.Build()

	if len(cfg.Parts) != 2 {
		t.Fatalf("Expected 2 parts, got %d", len(cfg.Parts))
	}

	if cfg.Parts[0].Weight != 0.7 {
		t.Errorf("Expected first weight 0.7, got %f", cfg.Parts[0].Weight)
	}

	if cfg.Parts[1].Substance != "Pb-208" {
		t.Errorf("Expected second substance 'Pb-208', got '%s'", cfg.Parts[1].Substance)
	}
}

func TestEmitterBuilder(t *testing.T) {
	emitter := NewEmitter(1.0e6).
		Alpha(1e8).
		Beta(2e8).
		Gamma(3e8)

	cfg := emitter.Build()

	if cfg.AlphaRate != 1e8 {
		t.Errorf("Expected alpha rate 1e8, got %f", cfg.AlphaRate)
	}

	if cfg.BetaRate != 2e8 {
		t.Errorf("Expected beta rate 2e8, got %f", cfg.BetaRate)
	}

	if cfg.GammaRate != 3e8 {
		t.Errorf("Expected gamma rate 3e8, got %f", cfg.GammaRate)
	}

	if cfg.ParticleEnergyEV != 1.0e6 {
		t.Errorf("Expected particle energy 1.0e6, got %f", cfg.ParticleEnergyEV)
	}
}

func TestComplexScene(t *testing.T) {
	scene := NewScene("shielding-study").
		Ambient(PureMixture("Air")).
		Volume(NewVolume("source").
			Position(0, 0, 0).
			Extents(0.1, 0.1, 0.1).
			Mixture(PureMixture("Pu-239"))).
		Volume(NewVolume("shield").
			Position(0.5, 0, 0).
			Extents(0.05, 1, 1).
			Mixture(PureMixture("Pb-208"))).
		Volume(NewVolume("target").
			Position(1, 0, 0).
			Extents(0.3, 0.3, 0.3).
			Mixture(PureMixture("Water")))

	cfg := scene.Build()

	if len(cfg.Volumes) != 3 {
		t.Fatalf("Expected 3 volumes, got %d", len(cfg.Volumes))
	}

	if cfg.Volumes[1].Name != "shield" {
		t.Errorf("Expected second volume 'shield', got '%s'", cfg.Volumes[1].Name)
	}

	if cfg.Volumes[2].Mixture.Parts[0].Substance != "Water" {
		t.Errorf("Expected target mixture 'Water', got '%s'", cfg.Volumes[2].Mixture.Parts[0].Substance)
	}
}

func TestBuildSceneFromClientConfig(t *testing.T) {
	catalog, err := radsim.DefaultCatalog()
	if err != nil {
		t.Fatalf("Failed to build catalog: %v", err)
	}

	cfg := NewScene("test").
		Ambient(PureMixture("Air")).
		Volume(NewVolume("block").
			Position(0, 0, 0).
			Extents(1, 1, 1).
			Mixture(PureMixture("Pb-208"))).
		Build()

	// Verify we can build a Scene from the config
	_, err = radsim.BuildSceneFromConfig(cfg, catalog)
	if err != nil {
		t.Fatalf("Failed to build scene from config: %v", err)
	}
}

func TestBuilderPositionIsCenter(t *testing.T) {
	catalog, err := radsim.DefaultCatalog()
	if err != nil {
		t.Fatalf("Failed to build catalog: %v", err)
	}

	cfg := NewScene("center").
		Ambient(PureMixture("Air")).
		Volume(NewVolume("block").
			Position(10, 0, 0).
			Extents(2, 2, 2).
			Mixture(PureMixture("Water"))).
		Build()

	scene, err := radsim.BuildSceneFromConfig(cfg, catalog)
	if err != nil {
		t.Fatalf("Failed to build scene from config: %v", err)
	}

	v := scene.Volumes[0]
	if !v.Contains(fmom.Vec3{10, 0, 0}) {
		t.Error("Expected the position itself to be inside the volume")
	}
	if !v.Contains(fmom.Vec3{9.5, 0.9, -0.9}) {
		t.Error("Expected a point within half an extent of the position to be inside")
	}
	if v.Contains(fmom.Vec3{11.5, 0, 0}) {
		t.Error("Expected a point beyond half an extent of the position to be outside")
	}
}

func TestApplyScene(t *testing.T) {
	var gotPath string
	var gotScene radsim.SceneConfig

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotScene); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	scene := NewScene("remote").
		Ambient(PureMixture("Air")).
		Volume(NewVolume("block").
			Position(0, 0, 0).
			Extents(1, 1, 1).
			Mixture(PureMixture("Water")))

	if err := ApplyScene(context.Background(), server.URL, "sim-1", scene); err != nil {
		t.Fatalf("ApplyScene failed: %v", err)
	}

	if gotPath != "/sim/sim-1/scene" {
		t.Errorf("Expected path '/sim/sim-1/scene', got '%s'", gotPath)
	}

	if gotScene.Name != "remote" {
		t.Errorf("Expected scene name 'remote', got '%s'", gotScene.Name)
	}

	if len(gotScene.Volumes) != 1 {
		t.Errorf("Expected 1 volume in request, got %d", len(gotScene.Volumes))
	}
}

func TestApplySceneServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid scene", http.StatusBadRequest)
	}))
	defer server.Close()

	scene := NewScene("bad").Ambient(PureMixture("Air"))

	err := ApplyScene(context.Background(), server.URL, "sim-1", scene)
	if err == nil {
		t.Fatal("Expected error for 400 response, got nil")
	}
}

func TestStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sim/sim-1/status" {
			t.Errorf("Unexpected path '%s'", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(SimStatus{
			SimulationID:   "sim-1",
			Tick:           42,
			ElapsedSeconds: 6.72e-9,
			ParticleCount:  128,
		})
	}))
	defer server.Close()

	status, err := Status(context.Background(), server.URL, "sim-1")
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}

	if status.Tick != 42 {
		t.Errorf("Expected tick 42, got %d", status.Tick)
	}

	if status.ParticleCount != 128 {
		t.Errorf("Expected 128 particles, got %d", status.ParticleCount)
	}
}

func TestDoses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]radsim.VolumeDose{
			{Name: "target", DoseEV: 1.5e6},
		})
	}))
	defer server.Close()

	doses, err := Doses(context.Background(), server.URL, "sim-1")
	if err != nil {
		t.Fatalf("Doses failed: %v", err)
	}

	if len(doses) != 1 {
		t.Fatalf("Expected 1 dose entry, got %d", len(doses))
	}

	if doses[0].Name != "target" {
		t.Errorf("Expected volume 'target', got '%s'", doses[0].Name)
	}

	if doses[0].DoseEV != 1.5e6 {
		t.Errorf("Expected dose 1.5e6, got %f", doses[0].DoseEV)
	}
}

func TestTickServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "simulation not found", http.StatusNotFound)
	}))
	defer server.Close()

	err := Tick(context.Background(), server.URL, "missing")
	if err == nil {
		t.Fatal("Expected error for 404 response, got nil")
	}
}
