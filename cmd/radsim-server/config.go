package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/daniacca/radsim/internal/radsim"
)

// ServerConfig holds the server configuration
type ServerConfig struct {
	Addr               string
	DefaultSimID       string
	CatalogFile        string
	SceneFile          string
	SnapshotDir        string
	SnapshotEveryTicks int
	Workers            int
	LogLevel           string
}

// configResolver defines how to resolve a single configuration value
type configResolver struct {
	flagName    string
	envVarName  string
	defaultVal  string
	description string
	setter      func(*ServerConfig, string)
}

// loadServerConfig loads server configuration from CLI flags and environment variables.
// Uses a resolver pattern to make it easy to add new configuration options.
func loadServerConfig() ServerConfig {
	cfg := ServerConfig{}

	// Define all configuration resolvers
	// To add a new option, just add a new resolver here
	resolvers := []configResolver{
		{
			flagName:    "addr",
			envVarName:  "RADSIM_ADDR",
			defaultVal:  ":8080",
			description: "HTTP listen address (e.g. :8080, 0.0.0.0:8080)",
			setter:      func(c *ServerConfig, v string) { c.Addr = v },
		},
		{
			flagName:    "sim-id",
			envVarName:  "RADSIM_SIM_ID",
			defaultVal:  "default",
			description: "default simulation ID for the initial scene",
			setter:      func(c *ServerConfig, v string) { c.DefaultSimID = v },
		},
		{
			flagName:    "catalog-file",
			envVarName:  "RADSIM_CATALOG_FILE",
			defaultVal:  "",
			description: "optional path to a JSON substance catalog; empty uses the built-in catalog",
			setter:      func(c *ServerConfig, v string) { c.CatalogFile = v },
		},
		{
			flagName:    "scene-file",
			envVarName:  "RADSIM_SCENE_FILE",
			defaultVal:  "",
			description: "optional path to a JSON scene config file to load at startup",
			setter:      func(c *ServerConfig, v string) { c.SceneFile = v },
		},
		{
			flagName:    "snapshot-dir",
			envVarName:  "RADSIM_SNAPSHOT_DIR",
			defaultVal:  "./data",
			description: "Directory where dose snapshots are stored",
			setter:      func(c *ServerConfig, v string) { c.SnapshotDir = v },
		},
		{
			flagName:    "snapshot-every-ticks",
			envVarName:  "RADSIM_SNAPSHOT_EVERY_TICKS",
			defaultVal:  "1000",
			description: "How often to write snapshots (in number of ticks); 0 disables periodic snapshots",
			setter: func(c *ServerConfig, v string) {
				// Parse int value, with error handling
				if val, err := strconv.Atoi(v); err == nil {
					c.SnapshotEveryTicks = val
				} else {
					log.Printf("Invalid value for snapshot-every-ticks: %s, using default 1000", v)
					c.SnapshotEveryTicks = 1000
				}
			},
		},
		{
			flagName:    "workers",
			envVarName:  "RADSIM_WORKERS",
			defaultVal:  "0",
			description: "Transport worker goroutines per simulation; 0 uses every CPU",
			setter: func(c *ServerConfig, v string) {
				if val, err := strconv.Atoi(v); err == nil && val >= 0 {
					c.Workers = val
				} else {
					log.Printf("Invalid value for workers: %s, using default 0", v)
					c.Workers = 0
				}
			},
		},
		{
			flagName:    "log-level",
			envVarName:  "RADSIM_LOG_LEVEL",
			defaultVal:  "info",
			description: "Log level: debug, info, warn, error",
			setter:      func(c *ServerConfig, v string) { c.LogLevel = v },
		},
	}

	// Register string flags first
	flagVars := make(map[string]*string)
	for _, resolver := range resolvers {
		flagVars[resolver.flagName] = flag.String(resolver.flagName, "", resolver.description)
	}

	// Parse flags once
	flag.Parse()

	// Resolve values for each resolver
	for _, resolver := range resolvers {
		var value string
		if *flagVars[resolver.flagName] != "" {
			value = *flagVars[resolver.flagName]
		} else if envValue := os.Getenv(resolver.envVarName); envValue != "" {
			value = envValue
		} else {
			value = resolver.defaultVal
		}
		resolver.setter(&cfg, value)
	}

	return cfg
}

// loadCatalog builds the substance catalog: from a JSON file when a path
// is given, the built-in catalog otherwise.
func loadCatalog(path string) (*radsim.Catalog, error) {
	if path == "" {
		return radsim.DefaultCatalog()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg radsim.CatalogConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return radsim.BuildCatalogFromConfig(cfg)
}

// loadInitialSceneFromFile loads a scene configuration from a JSON file.
// Returns the SceneConfig and the built Scene, or an error.
func loadInitialSceneFromFile(path string, catalog *radsim.Catalog) (radsim.SceneConfig, *radsim.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return radsim.SceneConfig{}, nil, err
	}

	var cfg radsim.SceneConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return radsim.SceneConfig{}, nil, err
	}

	scene, err := radsim.BuildSceneFromConfig(cfg, catalog)
	if err != nil {
		return radsim.SceneConfig{}, nil, err
	}

	return cfg, scene, nil
}

// applyInitialScene loads a scene from a file and applies it to the
// simulation manager. Creates or updates the simulation with the given ID.
func applyInitialScene(srv *Server, sceneFile string, simID radsim.SimulationID) error {
	_, scene, err := loadInitialSceneFromFile(sceneFile, srv.catalog)
	if err != nil {
		return err
	}

	// Try to create the simulation, or swap the scene if it already exists
	if err := srv.manager.CreateSimulation(simID, scene); err != nil {
		if err := srv.manager.ReplaceScene(simID, scene); err != nil {
			return err
		}
	}

	srv.configureSimulation(simID)
	return nil
}
