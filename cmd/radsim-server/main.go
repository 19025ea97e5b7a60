package main

import (
	"net/http"

	"github.com/daniacca/radsim/internal/radsim"
)

func main() {
	cfg := loadServerConfig()

	logger := NewLogger(cfg.LogLevel)
	logger.Infof("Starting radsim-server: log_level=%s", cfg.LogLevel)

	catalog, err := loadCatalog(cfg.CatalogFile)
	if err != nil {
		logger.Fatalf("Failed to load substance catalog: %v", err)
	}
	logger.Infof("Substance catalog loaded: substances=%d", len(catalog.IDs()))

	srv := NewServer(logger, catalog)
	srv.SetSnapshotDir(cfg.SnapshotDir)
	srv.SetSnapshotEveryTicks(cfg.SnapshotEveryTicks)
	srv.SetWorkers(cfg.Workers)

	// Load the initial scene if configured
	if cfg.SceneFile != "" {
		simID := radsim.SimulationID(cfg.DefaultSimID)
		if err := applyInitialScene(srv, cfg.SceneFile, simID); err != nil {
			logger.Fatalf("Failed to load initial scene from %s: %v", cfg.SceneFile, err)
		}
		logger.Infof("Initial scene loaded: sim_id=%s file=%s", simID, cfg.SceneFile)
	}

	http.HandleFunc("/healthz", srv.handleHealth)
	http.HandleFunc("/sims", srv.handleListSimulations)
	http.HandleFunc("/sim/", srv.handleSimulationRoutes)
	http.HandleFunc("/notifiers", srv.handleNotifiersRoutes)
	http.HandleFunc("/notifiers/", srv.handleNotifiersRoutes)

	logger.Infof("radsim-server listening on %s", cfg.Addr)
	logger.Fatalf("%v", http.ListenAndServe(cfg.Addr, nil))
}
