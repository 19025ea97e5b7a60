package radsim

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"
)

// SimulationID is a unique identifier for a simulation.
type SimulationID string

// TimeConfig is the runtime-mutable time-stepping surface of a
// simulation. All fields can be changed between ticks without restarting.
type TimeConfig struct {
	// CalcStep is the physical time in seconds covered by one decay
	// sampling estimate.
	CalcStep float64 `json:"calc_step_sec"`
	// MoveStep is the physical time in seconds covered by one particle
	// movement sub-step.
	MoveStep float64 `json:"move_step_sec"`
	// MultiStep is the number of sub-steps executed per tick.
	MultiStep int `json:"multi_step"`
}

// DefaultTimeConfig returns the stock stepping parameters.
func DefaultTimeConfig() TimeConfig {
	return TimeConfig{
		CalcStep:  1e-11,
		MoveStep:  1e-12,
		MultiStep: 16,
	}
}

// Simulation owns one scene and its live particles and drives the decay
// sampler and the transport stepper once per tick. Scene edits and
// configuration changes are applied between ticks only; dose reads are
// lock-free and safe at any time.
type Simulation struct {
	mu      sync.RWMutex
	id      SimulationID
	scene   *Scene
	timeCfg TimeConfig
	halted  atomic.Bool

	elapsed   float64 // simulated seconds
	tick      int64
	particles []Particle
	views     []ParticleView

	rng     *rand.Rand
	sampler *DecaySampler
	stepper TransportStepper

	logger        Logger
	notifier      *NotificationManager
	notifierIDs   []string
	snapshotDir   string
	snapshotEvery int

	stopCh    chan struct{}
	isRunning bool
}

// NewSimulation creates a simulation over the given scene, seeded from the
// wall clock.
func NewSimulation(scene *Scene) *Simulation {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Simulation{
		scene:   scene,
		timeCfg: DefaultTimeConfig(),
		rng:     rng,
		sampler: NewDecaySampler(rng),
		logger:  NewNoOpLogger(),
		stopCh:  make(chan struct{}),
	}
}

// SetSimulationID sets the identifier used in notifications and snapshots.
func (sim *Simulation) SetSimulationID(id SimulationID) {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	sim.id = id
}

// SetLogger injects a logger; nil restores the no-op logger.
func (sim *Simulation) SetLogger(logger Logger) {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	if logger == nil {
		logger = NewNoOpLogger()
	}
	sim.logger = logger
}

// SetSeed reseeds the simulation's random streams, for deterministic runs.
func (sim *Simulation) SetSeed(seed int64) {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	sim.rng = rand.New(rand.NewSource(seed))
	sim.sampler = NewDecaySampler(sim.rng)
}

// SetWorkers sets the transport worker count; 0 uses every CPU.
func (sim *Simulation) SetWorkers(n int) {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	sim.stepper.Workers = n
}

// SetNotificationManager wires frame notifications to the given manager
// and the notifier IDs to deliver to.
func (sim *Simulation) SetNotificationManager(mgr *NotificationManager, notifierIDs ...string) {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	sim.notifier = mgr
	sim.notifierIDs = notifierIDs
}

// SetSnapshotDir sets the directory periodic snapshots are written to.
func (sim *Simulation) SetSnapshotDir(dir string) {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	sim.snapshotDir = dir
}

// SetSnapshotEveryNTicks sets the snapshot period; 0 disables snapshots.
func (sim *Simulation) SetSnapshotEveryNTicks(n int) {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	sim.snapshotEvery = n
}

// TimeConfig returns the current stepping parameters.
func (sim *Simulation) TimeConfig() TimeConfig {
	sim.mu.RLock()
	defer sim.mu.RUnlock()
	return sim.timeCfg
}

// SetTimeConfig replaces the stepping parameters, taking effect on the
// next tick. Non-positive fields keep their current values.
func (sim *Simulation) SetTimeConfig(cfg TimeConfig) {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	if cfg.CalcStep > 0 {
		sim.timeCfg.CalcStep = cfg.CalcStep
	}
	if cfg.MoveStep > 0 {
		sim.timeCfg.MoveStep = cfg.MoveStep
	}
	if cfg.MultiStep > 0 {
		sim.timeCfg.MultiStep = cfg.MultiStep
	}
}

// Halt freezes the simulation: ticks become no-ops and elapsed-time
// accounting stops. An in-flight tick runs to completion.
func (sim *Simulation) Halt() {
	sim.halted.Store(true)
}

// Resume lifts a halt.
func (sim *Simulation) Resume() {
	sim.halted.Store(false)
}

// Halted reports whether the simulation is frozen.
func (sim *Simulation) Halted() bool {
	return sim.halted.Load()
}

// Step runs one simulation tick: decay sampling over every volume, the
// parallel transport pass over every live particle, and the dose flush
// from per-tick counters into persistent per-volume totals. A halted
// simulation does nothing.
func (sim *Simulation) Step() {
	if sim.halted.Load() {
		return
	}

	sim.mu.Lock()
	defer sim.mu.Unlock()

	cfg := sim.timeCfg
	sim.tick++
	sim.elapsed += cfg.CalcStep * float64(cfg.MultiStep)

	// 1) sample decays and beam emissions
	emit := func(p Particle) {
		sim.particles = append(sim.particles, p)
	}
	for _, v := range sim.scene.Volumes {
		sim.sampler.SampleVolume(v, cfg.CalcStep, cfg.MultiStep, emit)
		sim.sampler.SampleEmitter(v, cfg.CalcStep, cfg.MultiStep, emit)
	}

	// 2) transport every live particle
	sim.particles = sim.stepper.Step(sim.scene, sim.particles, cfg, sim.rng.Int63())

	// 3) flush per-tick dose into persistent totals
	for _, v := range sim.scene.Volumes {
		v.flushDose()
	}

	// refresh the presentation view
	views := make([]ParticleView, len(sim.particles))
	for i := range sim.particles {
		p := &sim.particles[i]
		views[i] = ParticleView{
			Position: [3]float64{p.Position[0], p.Position[1], p.Position[2]},
			Kind:     p.Kind,
		}
	}
	sim.views = views

	if sim.snapshotEvery > 0 && sim.snapshotDir != "" && sim.tick%int64(sim.snapshotEvery) == 0 {
		if err := sim.writeSnapshotLocked(); err != nil {
			sim.logger.Errorf("snapshot failed: sim_id=%s tick=%d error=%v", sim.id, sim.tick, err)
		}
	}

	if sim.notifier != nil && len(sim.notifierIDs) > 0 {
		sim.notifier.Enqueue(sim.frameEventLocked(), sim.notifierIDs)
	}
}

// frameEventLocked builds the per-tick frame event. Caller holds mu.
func (sim *Simulation) frameEventLocked() FrameEvent {
	return FrameEvent{
		SimulationID:   sim.id,
		Tick:           sim.tick,
		ElapsedSeconds: sim.elapsed,
		Timestamp:      time.Now().Unix(),
		Particles:      sim.views,
		Doses:          sim.volumeDosesLocked(),
	}
}

func (sim *Simulation) volumeDosesLocked() []VolumeDose {
	doses := make([]VolumeDose, 0, len(sim.scene.Volumes))
	for _, v := range sim.scene.Volumes {
		doses = append(doses, VolumeDose{Name: v.Name, DoseEV: v.AbsorbedDose()})
	}
	return doses
}

// Particles returns the per-tick (position, species) view of every live
// particle, for presentation consumers.
func (sim *Simulation) Particles() []ParticleView {
	sim.mu.RLock()
	defer sim.mu.RUnlock()
	return sim.views
}

// ParticleCount returns the number of live particles.
func (sim *Simulation) ParticleCount() int {
	sim.mu.RLock()
	defer sim.mu.RUnlock()
	return len(sim.particles)
}

// Doses returns the accumulated equivalent-weighted dose per volume.
func (sim *Simulation) Doses() []VolumeDose {
	sim.mu.RLock()
	defer sim.mu.RUnlock()
	return sim.volumeDosesLocked()
}

// ElapsedSeconds returns the simulated time advanced so far.
func (sim *Simulation) ElapsedSeconds() float64 {
	sim.mu.RLock()
	defer sim.mu.RUnlock()
	return sim.elapsed
}

// Tick returns the number of completed ticks.
func (sim *Simulation) Tick() int64 {
	sim.mu.RLock()
	defer sim.mu.RUnlock()
	return sim.tick
}

// Reset destroys every live particle and clears all dose accumulators and
// time accounting. The scene and configuration are kept.
func (sim *Simulation) Reset() {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	sim.particles = sim.particles[:0]
	sim.views = nil
	sim.tick = 0
	sim.elapsed = 0
	for _, v := range sim.scene.Volumes {
		v.ResetDose()
	}
}

// Edit applies a scene mutation between ticks. The callback must not
// retain the scene pointer beyond the call.
func (sim *Simulation) Edit(fn func(*Scene)) {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	fn(sim.scene)
}

// Run will start the simulation in a goroutine, starting its own ticker
// that will run until the stop channel is closed. It can be called
// multiple times to restart after stopping.
func (sim *Simulation) Run(interval time.Duration) {
	sim.mu.Lock()
	if sim.isRunning {
		sim.mu.Unlock()
		return
	}
	// Create a new stop channel for this run (allows restart after stop)
	sim.stopCh = make(chan struct{})
	sim.isRunning = true
	sim.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sim.Step()
			case <-sim.stopCh:
				sim.mu.Lock()
				sim.isRunning = false
				sim.mu.Unlock()
				return
			}
		}
	}()
}

// Stop will stop the simulation by closing the stop channel.
// After stopping, Run() can be called again to restart.
func (sim *Simulation) Stop() {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	if !sim.isRunning {
		return
	}
	close(sim.stopCh)
}
