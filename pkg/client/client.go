package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/daniacca/radsim/internal/radsim"
)

// SceneBuilder provides a fluent API for building scene descriptions.
// Use it to define the ambient medium and the volumes that make up a
// simulation scene.
type SceneBuilder struct {
	name    string
	ambient *MixtureBuilder
	volumes []*VolumeBuilder
}

// NewScene creates a new scene builder with the given name.
// The name identifies the scene and is carried into status reports
// and snapshots.
func NewScene(name string) *SceneBuilder {
	return &SceneBuilder{
		name:    name,
		volumes: make([]*VolumeBuilder, 0),
	}
}

// Ambient sets the mixture applied to any point not inside a volume.
// Every scene must have a non-empty ambient mixture.
func (sb *SceneBuilder) Ambient(mb *MixtureBuilder) *SceneBuilder {
	sb.ambient = mb
	return sb
}

// Volume adds a volume definition to the scene.
// Volumes are checked in insertion order; where two overlap, the one
// added first claims the shared region.
func (sb *SceneBuilder) Volume(vb *VolumeBuilder) *SceneBuilder {
	sb.volumes = append(sb.volumes, vb)
	return sb
}

// Build converts the builder to a SceneConfig that can be used with
// ApplyScene or validated against a catalog directly.
func (sb *SceneBuilder) Build() radsim.SceneConfig {
	volumes := make([]radsim.VolumeConfig, 0, len(sb.volumes))
	for _, vb := range sb.volumes {
		volumes = append(volumes, vb.Build())
	}

	cfg := radsim.SceneConfig{
		Name:    sb.name,
		Volumes: volumes,
	}
	if sb.ambient != nil {
		cfg.Ambient = sb.ambient.Build()
	}
	return cfg
}

// VolumeBuilder provides a fluent API for building volume configurations.
// A volume is an axis-aligned box with a material mixture and an
// optional particle emitter.
type VolumeBuilder struct {
	name     string
	position [3]float64
	extents  [3]float64
	mixture  *MixtureBuilder
	emitter  *EmitterBuilder
}

// NewVolume creates a new volume builder with the given name.
// The name must be unique within a scene.
func NewVolume(name string) *VolumeBuilder {
	return &VolumeBuilder{name: name}
}

// Position sets the center of the volume in meters; the box spans half
// an extent to each side of it along every axis.
func (vb *VolumeBuilder) Position(x, y, z float64) *VolumeBuilder {
	vb.position = [3]float64{x, y, z}
	return vb
}

// Extents sets the edge lengths of the volume in meters.
// All three extents must be positive.
func (vb *VolumeBuilder) Extents(x, y, z float64) *VolumeBuilder {
	vb.extents = [3]float64{x, y, z}
	return vb
}

// Mixture sets the material mixture filling the volume.
func (vb *VolumeBuilder) Mixture(mb *MixtureBuilder) *VolumeBuilder {
	vb.mixture = mb
	return vb
}

// Emitter attaches a fixed-rate particle emitter to the volume.
// Emitted particles start at uniform random positions inside the
// volume and travel along the positive x axis.
func (vb *VolumeBuilder) Emitter(eb *EmitterBuilder) *VolumeBuilder {
	vb.emitter = eb
	return vb
}

// Build converts the builder to a VolumeConfig.
func (vb *VolumeBuilder) Build() radsim.VolumeConfig {
	cfg := radsim.VolumeConfig{
		Name:     vb.name,
		Position: vb.position,
		Extents:  vb.extents,
	}
	if vb.mixture != nil {
		cfg.Mixture = vb.mixture.Build()
	}
	if vb.emitter != nil {
		e := vb.emitter.Build()
		cfg.Emitter = &e
	}
	return cfg
}

// MixtureBuilder provides a fluent API for building weighted substance
// mixtures. Weights should sum to 1.0; substances are referenced by
// their catalog ID.
type MixtureBuilder struct {
	parts []radsim.MixturePartConfig
}

// NewMixture creates a new empty mixture builder.
func NewMixture() *MixtureBuilder {
	return &MixtureBuilder{parts: make([]radsim.MixturePartConfig, 0)}
}

// Part adds a weighted component to the mixture.
func (mb *MixtureBuilder) Part(weight float64, substanceID string) *MixtureBuilder {
	mb.parts = append(mb.parts, radsim.MixturePartConfig{
		Weight:    weight,
		Substance: substanceID,
	})
	return mb
}

// Build converts the builder to a MixtureConfig.
func (mb *MixtureBuilder) Build() radsim.MixtureConfig {
	return radsim.MixtureConfig{Parts: mb.parts}
}

// PureMixture is a shorthand for a single-substance mixture with
// weight 1.0.
func PureMixture(substanceID string) *MixtureBuilder {
	return NewMixture().Part(1.0, substanceID)
}

// EmitterBuilder provides a fluent API for building particle emitter
// configurations. Rates are particles per second; all emitted
// particles share one kinetic energy.
type EmitterBuilder struct {
	alphaRate float64
	betaRate  float64
	gammaRate float64
	energyEV  float64
}

// NewEmitter creates a new emitter builder with the given particle
// energy in eV. The energy must be positive; rates default to zero
// and are set with Alpha, Beta and Gamma.
func NewEmitter(energyEV float64) *EmitterBuilder {
	return &EmitterBuilder{energyEV: energyEV}
}

// Alpha sets the alpha emission rate in particles per second.
func (eb *EmitterBuilder) Alpha(rate float64) *EmitterBuilder {
	eb.alphaRate = rate
	return eb
}

// Beta sets the beta emission rate in particles per second.
func (eb *EmitterBuilder) Beta(rate float64) *EmitterBuilder {
	eb.betaRate = rate
	return eb
}

// Gamma sets the gamma emission rate in particles per second.
func (eb *EmitterBuilder) Gamma(rate float64) *EmitterBuilder {
	eb.gammaRate = rate
	return eb
}

// Build converts the builder to an EmitterConfig.
func (eb *EmitterBuilder) Build() radsim.EmitterConfig {
	return radsim.EmitterConfig{
		AlphaRate:        eb.alphaRate,
		BetaRate:         eb.betaRate,
		GammaRate:        eb.gammaRate,
		ParticleEnergyEV: eb.energyEV,
	}
}

// SimStatus is the status report of one simulation as returned by the
// server.
type SimStatus struct {
	SimulationID   string            `json:"simulation_id"`
	Tick           int64             `json:"tick"`
	ElapsedSeconds float64           `json:"elapsed_seconds"`
	ParticleCount  int               `json:"particle_count"`
	Halted         bool              `json:"halted"`
	Time           radsim.TimeConfig `json:"time"`
}

// ApplyScene sends the scene to the server, creating the simulation if
// it does not exist or replacing its scene if it does. The simulation
// keeps its accumulated doses; particles in flight are cleared.
func ApplyScene(ctx context.Context, baseURL, simID string, scene *SceneBuilder) error {
	cfg := scene.Build()

	jsonData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal scene: %w", err)
	}

	u, err := url.JoinPath(baseURL, "sim", simID, "scene")
	if err != nil {
		return fmt.Errorf("failed to build URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// Tick advances the simulation by one tick.
func Tick(ctx context.Context, baseURL, simID string) error {
	return post(ctx, baseURL, "sim", simID, "tick")
}

// Start begins continuous ticking on the server at its configured
// interval. Starting an already running simulation is a no-op.
func Start(ctx context.Context, baseURL, simID string) error {
	return post(ctx, baseURL, "sim", simID, "start")
}

// Stop halts continuous ticking. The simulation state is preserved and
// can be resumed with Start or advanced manually with Tick.
func Stop(ctx context.Context, baseURL, simID string) error {
	return post(ctx, baseURL, "sim", simID, "stop")
}

// Reset clears particles, doses and the tick counter of the simulation.
func Reset(ctx context.Context, baseURL, simID string) error {
	return post(ctx, baseURL, "sim", simID, "reset")
}

// Status fetches the current status of the simulation.
func Status(ctx context.Context, baseURL, simID string) (SimStatus, error) {
	var status SimStatus
	if err := get(ctx, &status, baseURL, "sim", simID, "status"); err != nil {
		return SimStatus{}, err
	}
	return status, nil
}

// Doses fetches the accumulated dose per volume.
func Doses(ctx context.Context, baseURL, simID string) ([]radsim.VolumeDose, error) {
	var doses []radsim.VolumeDose
	if err := get(ctx, &doses, baseURL, "sim", simID, "doses"); err != nil {
		return nil, err
	}
	return doses, nil
}

// Particles fetches the positions and kinds of all particles in flight.
func Particles(ctx context.Context, baseURL, simID string) ([]radsim.ParticleView, error) {
	var particles []radsim.ParticleView
	if err := get(ctx, &particles, baseURL, "sim", simID, "particles"); err != nil {
		return nil, err
	}
	return particles, nil
}

func post(ctx context.Context, baseURL string, parts ...string) error {
	u, err := url.JoinPath(baseURL, parts...)
	if err != nil {
		return fmt.Errorf("failed to build URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

func get(ctx context.Context, out any, baseURL string, parts ...string) error {
	u, err := url.JoinPath(baseURL, parts...)
	if err != nil {
		return fmt.Errorf("failed to build URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
