package radsim

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Snapshot represents a point-in-time capture of a simulation's dose
// state. Live particles are transient and deliberately excluded.
type Snapshot struct {
	SimulationID   SimulationID `json:"simulation_id"`
	Tick           int64        `json:"tick"`
	ElapsedSeconds float64      `json:"elapsed_seconds"`
	Doses          []VolumeDose `json:"doses"`
}

// ValidateSnapshot performs validation checks on a snapshot.
// It verifies that:
//   - All volume names are non-empty and unique
//   - All volume names exist in the provided scene (if scene is not nil)
//   - No dose reading is negative
//
// If scene is nil, only the structural checks are performed.
// Returns an error if validation fails, nil otherwise.
func ValidateSnapshot(snapshot Snapshot, scene *Scene) error {
	known := make(map[string]struct{})
	if scene != nil {
		for _, v := range scene.Volumes {
			known[v.Name] = struct{}{}
		}
	}

	seen := make(map[string]struct{})
	for i, d := range snapshot.Doses {
		if d.Name == "" {
			return fmt.Errorf("dose reading at index %d has empty volume name", i)
		}
		if _, exists := seen[d.Name]; exists {
			return fmt.Errorf("duplicate volume name in snapshot: %s", d.Name)
		}
		seen[d.Name] = struct{}{}

		if d.DoseEV < 0 {
			return fmt.Errorf("volume %s has negative dose: %g", d.Name, d.DoseEV)
		}

		if scene != nil {
			if _, exists := known[d.Name]; !exists {
				return fmt.Errorf("volume %s not found in scene", d.Name)
			}
		}
	}

	return nil
}

// EncodeSnapshotJSON encodes a snapshot to JSON format.
// Returns the JSON bytes and any encoding error.
func EncodeSnapshotJSON(snapshot Snapshot) ([]byte, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshotJSON decodes a snapshot from JSON format.
// Returns the snapshot and any decoding error.
func DecodeSnapshotJSON(data []byte) (Snapshot, error) {
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snapshot, nil
}

// Snapshot captures the current dose state. Safe to call at any time.
func (sim *Simulation) Snapshot() Snapshot {
	sim.mu.RLock()
	defer sim.mu.RUnlock()
	return sim.snapshotLocked()
}

func (sim *Simulation) snapshotLocked() Snapshot {
	return Snapshot{
		SimulationID:   sim.id,
		Tick:           sim.tick,
		ElapsedSeconds: sim.elapsed,
		Doses:          sim.volumeDosesLocked(),
	}
}

// SaveSnapshot writes the current snapshot into the snapshot directory
// and returns the file path. Returns an error when no snapshot directory
// is configured.
func (sim *Simulation) SaveSnapshot() (string, error) {
	sim.mu.RLock()
	defer sim.mu.RUnlock()
	return sim.saveSnapshotLocked()
}

// writeSnapshotLocked is the periodic-snapshot entry point. Caller holds mu.
func (sim *Simulation) writeSnapshotLocked() error {
	_, err := sim.saveSnapshotLocked()
	return err
}

func (sim *Simulation) saveSnapshotLocked() (string, error) {
	if sim.snapshotDir == "" {
		return "", fmt.Errorf("snapshot directory not configured")
	}

	snapshot := sim.snapshotLocked()

	data, err := EncodeSnapshotJSON(snapshot)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(sim.snapshotDir, 0o755); err != nil {
		return "", fmt.Errorf("creating snapshot dir: %w", err)
	}

	name := fmt.Sprintf("%s-%d.json", sim.id, sim.tick)
	path := filepath.Join(sim.snapshotDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}

	return path, nil
}
