package main

import (
	"github.com/daniacca/radsim/internal/radsim"
	"github.com/daniacca/radsim/internal/radsim/notifiers"
)

// wsFramesNotifierID is the identifier of the built-in WebSocket frame
// stream, registered at startup.
const wsFramesNotifierID = "ws-frames"

// radsimLoggerAdapter adapts the server's Logger to the radsim.Logger interface
type radsimLoggerAdapter struct {
	logger *Logger
}

func (a *radsimLoggerAdapter) Debugf(format string, v ...any) {
	a.logger.Debugf(format, v...)
}

func (a *radsimLoggerAdapter) Infof(format string, v ...any) {
	a.logger.Infof(format, v...)
}

func (a *radsimLoggerAdapter) Warnf(format string, v ...any) {
	a.logger.Warnf(format, v...)
}

func (a *radsimLoggerAdapter) Errorf(format string, v ...any) {
	a.logger.Errorf(format, v...)
}

// Server represents the HTTP server of the simulation engine
type Server struct {
	manager            *radsim.SimulationManager
	globalNotifierMgr  *radsim.NotificationManager
	wsNotifier         *notifiers.WebSocketNotifier
	catalog            *radsim.Catalog
	snapshotDir        string
	snapshotEveryTicks int
	workers            int
	logger             *Logger
}

// NewServer creates a new server instance over the given substance catalog
func NewServer(logger *Logger, catalog *radsim.Catalog) *Server {
	radsimLogger := &radsimLoggerAdapter{logger: logger}
	globalMgr := radsim.NewNotificationManagerWithLogger(radsimLogger)

	// The WebSocket frame stream is always available; clients attach via
	// the particles/ws endpoint.
	wsNotifier := notifiers.NewWebSocketNotifier(wsFramesNotifierID)
	if err := globalMgr.RegisterNotifier(wsNotifier); err != nil {
		logger.Fatalf("Failed to register websocket notifier: %v", err)
	}

	return &Server{
		manager:           radsim.NewSimulationManagerWithLogger(radsimLogger),
		globalNotifierMgr: globalMgr,
		wsNotifier:        wsNotifier,
		catalog:           catalog,
		logger:            logger,
	}
}

// SetSnapshotDir sets the snapshot directory for all simulations
func (s *Server) SetSnapshotDir(dir string) {
	s.snapshotDir = dir
}

// SetSnapshotEveryTicks sets the snapshot frequency for all simulations
func (s *Server) SetSnapshotEveryTicks(ticks int) {
	s.snapshotEveryTicks = ticks
}

// SetWorkers sets the transport worker count applied to new simulations
func (s *Server) SetWorkers(n int) {
	s.workers = n
}

// configureSimulation applies the server-wide notification and snapshot
// settings to a simulation after it is created or its scene is replaced.
func (s *Server) configureSimulation(simID radsim.SimulationID) {
	sim, exists := s.manager.GetSimulation(simID)
	if !exists {
		return
	}

	sim.SetNotificationManager(s.globalNotifierMgr, s.globalNotifierMgr.ListNotifiers()...)
	sim.SetWorkers(s.workers)
	if s.snapshotDir != "" {
		sim.SetSnapshotDir(s.snapshotDir)
	}
	if s.snapshotEveryTicks >= 0 {
		sim.SetSnapshotEveryNTicks(s.snapshotEveryTicks)
	}
}
