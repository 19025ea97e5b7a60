package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/daniacca/radsim/internal/radsim"
	radsimnotifiers "github.com/daniacca/radsim/internal/radsim/notifiers"
)

// extractSimID extracts the simulation ID from a path like "/sim/{simID}/..."
// Returns the simulation ID and the remaining path, or empty string if not found
func extractSimID(path string) (radsim.SimulationID, string) {
	if !strings.HasPrefix(path, "/sim/") {
		return "", ""
	}

	// Remove "/sim/" prefix
	rest := path[5:]

	// Find the next "/"
	idx := strings.Index(rest, "/")
	if idx == -1 {
		// No more path segments, the whole thing is the sim ID
		return radsim.SimulationID(rest), ""
	}

	simID := radsim.SimulationID(rest[:idx])
	remainingPath := rest[idx:]
	return simID, remainingPath
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// getSimulation resolves the simulation from the request path, writing the
// error response on failure.
func (s *Server) getSimulation(w http.ResponseWriter, r *http.Request) (*radsim.Simulation, radsim.SimulationID, bool) {
	simID, _ := extractSimID(r.URL.Path)
	if simID == "" {
		http.Error(w, "simulation ID is required in path: /sim/{simID}/...", http.StatusBadRequest)
		return nil, "", false
	}

	sim, exists := s.manager.GetSimulation(simID)
	if !exists {
		http.Error(w, "simulation not found", http.StatusNotFound)
		return nil, simID, false
	}
	return sim, simID, true
}

// POST /sim/{simID}/scene
// Body: SceneConfig JSON
// Creates a new simulation with the given ID and scene, or swaps the scene
// of an existing one
func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	simID, _ := extractSimID(r.URL.Path)
	if simID == "" {
		http.Error(w, "simulation ID is required in path: /sim/{simID}/scene", http.StatusBadRequest)
		return
	}

	var cfg radsim.SceneConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "invalid scene json: "+err.Error(), http.StatusBadRequest)
		return
	}

	scene, err := radsim.BuildSceneFromConfig(cfg, s.catalog)
	if err != nil {
		http.Error(w, "cannot build scene: "+err.Error(), http.StatusBadRequest)
		return
	}

	// Try to create a new simulation, or swap the scene of an existing one
	if err := s.manager.CreateSimulation(simID, scene); err != nil {
		if err := s.manager.ReplaceScene(simID, scene); err != nil {
			s.logger.Errorf("Failed to replace scene: sim_id=%s error=%v", simID, err)
			http.Error(w, "cannot update simulation: "+err.Error(), http.StatusInternalServerError)
			return
		}
		s.logger.Infof("Simulation scene replaced: sim_id=%s scene_name=%s", simID, cfg.Name)
	} else {
		s.logger.Infof("Simulation created: sim_id=%s scene_name=%s", simID, cfg.Name)
	}

	s.configureSimulation(simID)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("scene loaded"))
}

// POST /sim/{simID}/tick
// Manually trigger a single step (useful for testing/debugging when auto-running is disabled)
func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	sim, _, ok := s.getSimulation(w, r)
	if !ok {
		return
	}

	sim.Step()
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ticked"))
}

// POST /sim/{simID}/start
// Start the simulation auto-running with the specified interval (in milliseconds)
// Query param: interval (default: 100ms)
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	sim, simID, ok := s.getSimulation(w, r)
	if !ok {
		return
	}

	// Parse interval from query param
	interval := 100 * time.Millisecond
	if intervalStr := r.URL.Query().Get("interval"); intervalStr != "" {
		if ms, err := strconv.Atoi(intervalStr); err == nil && ms > 0 {
			interval = time.Duration(ms) * time.Millisecond
		} else {
			http.Error(w, "invalid interval: must be a positive integer (milliseconds)", http.StatusBadRequest)
			return
		}
	}

	sim.Run(interval)
	s.logger.Infof("Simulation started: sim_id=%s interval=%v", simID, interval)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("simulation started"))
}

// POST /sim/{simID}/stop
// Stop the simulation auto-running
func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	sim, simID, ok := s.getSimulation(w, r)
	if !ok {
		return
	}

	sim.Stop()
	s.logger.Infof("Simulation stopped: sim_id=%s", simID)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("simulation stopped"))
}

// POST /sim/{simID}/halt
// Freeze the simulation: ticks become no-ops until resume
func (s *Server) handleHalt(w http.ResponseWriter, r *http.Request) {
	sim, simID, ok := s.getSimulation(w, r)
	if !ok {
		return
	}

	sim.Halt()
	s.logger.Infof("Simulation halted: sim_id=%s", simID)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("simulation halted"))
}

// POST /sim/{simID}/resume
// Lift a halt
func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	sim, simID, ok := s.getSimulation(w, r)
	if !ok {
		return
	}

	sim.Resume()
	s.logger.Infof("Simulation resumed: sim_id=%s", simID)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("simulation resumed"))
}

// POST /sim/{simID}/reset
// Destroy all live particles and clear dose and time accounting
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sim, simID, ok := s.getSimulation(w, r)
	if !ok {
		return
	}

	sim.Reset()
	s.logger.Infof("Simulation reset: sim_id=%s", simID)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("simulation reset"))
}

// GET /sim/{simID}/particles
func (s *Server) handleListParticles(w http.ResponseWriter, r *http.Request) {
	sim, _, ok := s.getSimulation(w, r)
	if !ok {
		return
	}

	views := sim.Particles()
	if views == nil {
		views = []radsim.ParticleView{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(views); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// GET /sim/{simID}/doses
func (s *Server) handleListDoses(w http.ResponseWriter, r *http.Request) {
	sim, _, ok := s.getSimulation(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(sim.Doses()); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// simStatusResponse is the body of GET /sim/{simID}/status
type simStatusResponse struct {
	SimulationID   string            `json:"simulation_id"`
	Tick           int64             `json:"tick"`
	ElapsedSeconds float64           `json:"elapsed_seconds"`
	ParticleCount  int               `json:"particle_count"`
	Halted         bool              `json:"halted"`
	Time           radsim.TimeConfig `json:"time"`
}

// GET /sim/{simID}/status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	sim, simID, ok := s.getSimulation(w, r)
	if !ok {
		return
	}

	status := simStatusResponse{
		SimulationID:   string(simID),
		Tick:           sim.Tick(),
		ElapsedSeconds: sim.ElapsedSeconds(),
		ParticleCount:  sim.ParticleCount(),
		Halted:         sim.Halted(),
		Time:           sim.TimeConfig(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// PUT /sim/{simID}/time
// Body: TimeConfig JSON; non-positive fields keep their current values
func (s *Server) handleSetTime(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	sim, simID, ok := s.getSimulation(w, r)
	if !ok {
		return
	}

	var cfg radsim.TimeConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "invalid time config json: "+err.Error(), http.StatusBadRequest)
		return
	}

	sim.SetTimeConfig(cfg)
	s.logger.Infof("Time config updated: sim_id=%s config=%+v", simID, sim.TimeConfig())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(sim.TimeConfig()); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// GET /sims
// List all simulation IDs
func (s *Server) handleListSimulations(w http.ResponseWriter, r *http.Request) {
	simIDs := s.manager.ListSimulations()

	// Convert to strings for JSON encoding
	ids := make([]string, len(simIDs))
	for i, id := range simIDs {
		ids[i] = string(id)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string][]string{"simulations": ids}); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// DELETE /sim/{simID}
// Delete a simulation
func (s *Server) handleDeleteSimulation(w http.ResponseWriter, r *http.Request) {
	simID, _ := extractSimID(r.URL.Path)
	if simID == "" {
		http.Error(w, "simulation ID is required in path: /sim/{simID}", http.StatusBadRequest)
		return
	}

	if err := s.manager.DeleteSimulation(simID); err != nil {
		s.logger.Warnf("Failed to delete simulation: sim_id=%s error=%v", simID, err)
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	s.logger.Infof("Simulation deleted: sim_id=%s", simID)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("simulation deleted"))
}

// POST /sim/{simID}/snapshot
// Triggers a synchronous snapshot save
func (s *Server) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	sim, simID, ok := s.getSimulation(w, r)
	if !ok {
		return
	}

	// Check if snapshot directory is configured
	if s.snapshotDir == "" {
		http.Error(w, "snapshot directory not configured", http.StatusInternalServerError)
		return
	}

	// Ensure snapshot directory is set on the simulation
	sim.SetSnapshotDir(s.snapshotDir)

	path, err := sim.SaveSnapshot()
	if err != nil {
		s.logger.Errorf("Failed to save snapshot: sim_id=%s error=%v", simID, err)
		http.Error(w, "failed to save snapshot: "+err.Error(), http.StatusInternalServerError)
		return
	}

	s.logger.Debugf("Snapshot saved: sim_id=%s path=%s", simID, path)

	response := map[string]string{
		"status": "ok",
		"path":   path,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "cannot encode response: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// GET /sim/{simID}/snapshot
// Returns the current dose snapshot as JSON
func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	sim, _, ok := s.getSimulation(w, r)
	if !ok {
		return
	}

	data, err := radsim.EncodeSnapshotJSON(sim.Snapshot())
	if err != nil {
		http.Error(w, "cannot encode snapshot: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// GET /sim/{simID}/particles/ws
// Upgrades the connection and streams frame events until the client leaves
func (s *Server) handleParticlesWS(w http.ResponseWriter, r *http.Request) {
	_, simID, ok := s.getSimulation(w, r)
	if !ok {
		return
	}

	upgrader := s.wsNotifier.GetUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnf("WebSocket upgrade failed: sim_id=%s error=%v", simID, err)
		return
	}

	s.wsNotifier.RegisterClient(conn)
	s.logger.Debugf("WebSocket client attached: sim_id=%s remote=%s", simID, conn.RemoteAddr())

	// Drain the read side to detect disconnects; frames only flow
	// server to client.
	go func() {
		defer s.wsNotifier.UnregisterClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// handleSimulationRoutes routes requests to simulation-specific handlers
// Handles paths like /sim/{simID}/scene, /sim/{simID}/tick, etc.
func (s *Server) handleSimulationRoutes(w http.ResponseWriter, r *http.Request) {
	simID, remainingPath := extractSimID(r.URL.Path)
	if simID == "" {
		http.Error(w, "simulation ID is required in path: /sim/{simID}/...", http.StatusBadRequest)
		return
	}

	switch {
	case remainingPath == "/scene" && r.Method == http.MethodPost:
		s.handleScene(w, r)
	case remainingPath == "/tick" && r.Method == http.MethodPost:
		s.handleTick(w, r)
	case remainingPath == "/start" && r.Method == http.MethodPost:
		s.handleStart(w, r)
	case remainingPath == "/stop" && r.Method == http.MethodPost:
		s.handleStop(w, r)
	case remainingPath == "/halt" && r.Method == http.MethodPost:
		s.handleHalt(w, r)
	case remainingPath == "/resume" && r.Method == http.MethodPost:
		s.handleResume(w, r)
	case remainingPath == "/reset" && r.Method == http.MethodPost:
		s.handleReset(w, r)
	case remainingPath == "/particles" && r.Method == http.MethodGet:
		s.handleListParticles(w, r)
	case remainingPath == "/particles/ws" && r.Method == http.MethodGet:
		s.handleParticlesWS(w, r)
	case remainingPath == "/doses" && r.Method == http.MethodGet:
		s.handleListDoses(w, r)
	case remainingPath == "/status" && r.Method == http.MethodGet:
		s.handleStatus(w, r)
	case remainingPath == "/time" && r.Method == http.MethodPut:
		s.handleSetTime(w, r)
	case remainingPath == "/snapshot" && r.Method == http.MethodPost:
		s.handleSaveSnapshot(w, r)
	case remainingPath == "/snapshot" && r.Method == http.MethodGet:
		s.handleGetSnapshot(w, r)
	case remainingPath == "" && r.Method == http.MethodDelete:
		s.handleDeleteSimulation(w, r)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// handleNotifiersRoutes handles notifier management endpoints
func (s *Server) handleNotifiersRoutes(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/notifiers" && r.Method == http.MethodGet:
		s.handleListNotifiers(w, r)
	case r.URL.Path == "/notifiers" && r.Method == http.MethodPost:
		s.handleRegisterNotifier(w, r)
	case strings.HasPrefix(r.URL.Path, "/notifiers/") && r.Method == http.MethodDelete:
		s.handleUnregisterNotifier(w, r)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// GET /notifiers
// List all registered notifiers
func (s *Server) handleListNotifiers(w http.ResponseWriter, _ *http.Request) {
	notifierIDs := s.globalNotifierMgr.ListNotifiers()

	// Get notifier types
	list := make([]map[string]string, 0, len(notifierIDs))
	for _, id := range notifierIDs {
		notifier, exists := s.globalNotifierMgr.GetNotifier(id)
		if exists {
			list = append(list, map[string]string{
				"id":   id,
				"type": notifier.Type(),
			})
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"notifiers": list}); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// POST /notifiers
// Register a new notifier
// Body: { "type": "webhook", "id": "my-webhook", "config": { "url": "http://..." } }
type registerNotifierRequest struct {
	Type   string         `json:"type"`
	ID     string         `json:"id"`
	Config map[string]any `json:"config"`
}

func (s *Server) handleRegisterNotifier(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req registerNotifierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.ID == "" {
		http.Error(w, "notifier ID is required", http.StatusBadRequest)
		return
	}

	var notifier radsim.Notifier

	switch req.Type {
	case "webhook":
		url, ok := req.Config["url"].(string)
		if !ok || url == "" {
			http.Error(w, "webhook URL is required", http.StatusBadRequest)
			return
		}
		wh := radsimnotifiers.NewWebhookNotifier(req.ID, url)

		// Set custom headers if provided
		if headers, ok := req.Config["headers"].(map[string]any); ok {
			for k, v := range headers {
				if vStr, ok := v.(string); ok {
					wh.SetHeader(k, vStr)
				}
			}
		}

		notifier = wh
	default:
		http.Error(w, "unknown notifier type: "+req.Type, http.StatusBadRequest)
		return
	}

	if err := s.globalNotifierMgr.RegisterNotifier(notifier); err != nil {
		http.Error(w, "cannot register notifier: "+err.Error(), http.StatusBadRequest)
		return
	}

	// Existing simulations pick up the new delivery target
	for _, id := range s.manager.ListSimulations() {
		s.configureSimulation(id)
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("notifier registered"))
}

// DELETE /notifiers/{id}
// Unregister a notifier
func (s *Server) handleUnregisterNotifier(w http.ResponseWriter, r *http.Request) {
	notifierID := strings.TrimPrefix(r.URL.Path, "/notifiers/")
	if notifierID == "" {
		http.Error(w, "notifier ID is required", http.StatusBadRequest)
		return
	}

	if err := s.globalNotifierMgr.UnregisterNotifier(notifierID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	for _, id := range s.manager.ListSimulations() {
		s.configureSimulation(id)
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("notifier unregistered"))
}
