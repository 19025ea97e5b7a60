package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/daniacca/radsim/internal/radsim"
)

func main() {
	var (
		preset      = flag.String("preset", "sandbox", "built-in scene preset: sandbox or experiment")
		sceneFile   = flag.String("scene-file", "", "path to scene JSON file (overrides -preset)")
		catalogFile = flag.String("catalog-file", "", "path to substance catalog JSON file (optional)")
		ticks       = flag.Int("ticks", 1000, "number of ticks to run")
		seed        = flag.Int64("seed", 0, "random seed; 0 seeds from the wall clock")
		workers     = flag.Int("workers", 0, "transport worker goroutines; 0 uses every CPU")
		simID       = flag.String("sim-id", "simulation", "simulation ID")
	)
	flag.Parse()

	catalog, err := loadCatalog(*catalogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading catalog: %v\n", err)
		os.Exit(1)
	}

	cfg, err := resolveSceneConfig(*preset, *sceneFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading scene: %v\n", err)
		os.Exit(1)
	}

	scene, err := radsim.BuildSceneFromConfig(cfg, catalog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error building scene: %v\n", err)
		os.Exit(1)
	}

	sim := radsim.NewSimulation(scene)
	sim.SetSimulationID(radsim.SimulationID(*simID))
	sim.SetWorkers(*workers)
	if *seed != 0 {
		sim.SetSeed(*seed)
	}

	for i := 0; i < *ticks; i++ {
		sim.Step()
	}

	printSummary(cfg.Name, *ticks, sim)
}

func loadCatalog(path string) (*radsim.Catalog, error) {
	if path == "" {
		return radsim.DefaultCatalog()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	var cfg radsim.CatalogConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing catalog JSON: %w", err)
	}

	return radsim.BuildCatalogFromConfig(cfg)
}

func resolveSceneConfig(preset, sceneFile string) (radsim.SceneConfig, error) {
	if sceneFile != "" {
		data, err := os.ReadFile(sceneFile)
		if err != nil {
			return radsim.SceneConfig{}, fmt.Errorf("reading scene file: %w", err)
		}
		var cfg radsim.SceneConfig
		if err := json.Unmarshal(data, &cfg); err != nil {
			return radsim.SceneConfig{}, fmt.Errorf("parsing scene JSON: %w", err)
		}
		return cfg, nil
	}

	switch preset {
	case "sandbox":
		return radsim.SandboxSceneConfig(), nil
	case "experiment":
		return radsim.ExperimentSceneConfig(), nil
	default:
		return radsim.SceneConfig{}, fmt.Errorf("unknown preset %q (want sandbox or experiment)", preset)
	}
}

func printSummary(sceneName string, ticks int, sim *radsim.Simulation) {
	fmt.Printf("Simulation finished (scene=%s, ticks=%d, elapsed=%.3es, live particles=%d)\n",
		sceneName, ticks, sim.ElapsedSeconds(), sim.ParticleCount())
	fmt.Println("Absorbed dose per volume:")

	doses := sim.Doses()

	// Simple sort by volume name
	for i := 0; i < len(doses); i++ {
		for j := i + 1; j < len(doses); j++ {
			if doses[i].Name > doses[j].Name {
				doses[i], doses[j] = doses[j], doses[i]
			}
		}
	}

	for _, d := range doses {
		fmt.Printf("  %s: %.6e eV\n", d.Name, d.DoseEV)
	}
}
