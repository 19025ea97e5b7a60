package radsim

import (
	"fmt"
	"sync"
)

// SimulationManager manages multiple simulations, each isolated from others
type SimulationManager struct {
	mu          sync.RWMutex
	simulations map[SimulationID]*Simulation
	logger      Logger
}

// NewSimulationManager creates a new simulation manager
func NewSimulationManager() *SimulationManager {
	return &SimulationManager{
		simulations: make(map[SimulationID]*Simulation),
		logger:      NewNoOpLogger(),
	}
}

// NewSimulationManagerWithLogger creates a manager with an injected logger
func NewSimulationManagerWithLogger(logger Logger) *SimulationManager {
	mgr := NewSimulationManager()
	if logger != nil {
		mgr.logger = logger
	}
	return mgr
}

// CreateSimulation creates a new simulation with the given ID and scene.
// Returns an error if a simulation with that ID already exists.
func (sm *SimulationManager) CreateSimulation(id SimulationID, scene *Scene) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.simulations[id]; exists {
		return fmt.Errorf("simulation with id %s already exists", id)
	}

	sim := NewSimulation(scene)
	sim.SetSimulationID(id)
	sim.SetLogger(sm.logger)
	sm.simulations[id] = sim
	return nil
}

// GetSimulation retrieves a simulation by ID.
// Returns the simulation and a boolean indicating if it was found.
func (sm *SimulationManager) GetSimulation(id SimulationID) (*Simulation, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sim, exists := sm.simulations[id]
	return sim, exists
}

// DeleteSimulation stops and removes a simulation by ID.
// Returns an error if the simulation doesn't exist.
func (sm *SimulationManager) DeleteSimulation(id SimulationID) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sim, exists := sm.simulations[id]
	if !exists {
		return fmt.Errorf("simulation with id %s does not exist", id)
	}

	sim.Stop()
	delete(sm.simulations, id)
	return nil
}

// ListSimulations returns a list of all simulation IDs
func (sm *SimulationManager) ListSimulations() []SimulationID {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	ids := make([]SimulationID, 0, len(sm.simulations))
	for id := range sm.simulations {
		ids = append(ids, id)
	}
	return ids
}

// ReplaceScene swaps the scene of an existing simulation between ticks.
// Live particles and dose totals are reset, since they reference the old
// scene's volumes.
func (sm *SimulationManager) ReplaceScene(id SimulationID, scene *Scene) error {
	sm.mu.RLock()
	sim, exists := sm.simulations[id]
	sm.mu.RUnlock()

	if !exists {
		return fmt.Errorf("simulation with id %s does not exist", id)
	}

	sim.mu.Lock()
	sim.scene = scene
	sim.particles = sim.particles[:0]
	sim.views = nil
	sim.mu.Unlock()

	return nil
}
