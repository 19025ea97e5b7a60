package notifiers

import (
	"context"
	"testing"
	"time"

	"github.com/daniacca/radsim/internal/radsim"
)

func testFrameEvent() radsim.FrameEvent {
	return radsim.FrameEvent{
		SimulationID:   "test-sim",
		Tick:           1,
		ElapsedSeconds: 1.6e-10,
		Particles: []radsim.ParticleView{
			{Position: [3]float64{0, 0, 0}, Kind: radsim.ParticleAlpha},
		},
		Doses: []radsim.VolumeDose{
			{Name: "body", DoseEV: 100},
		},
	}
}

func TestNewWebSocketNotifier(t *testing.T) {
	notifier := NewWebSocketNotifier("test-ws")
	defer notifier.Close()

	if notifier == nil {
		t.Fatal("NewWebSocketNotifier returned nil")
	}

	if notifier.ID() != "test-ws" {
		t.Errorf("Expected ID 'test-ws', got '%s'", notifier.ID())
	}

	if notifier.Type() != "websocket" {
		t.Errorf("Expected type 'websocket', got '%s'", notifier.Type())
	}
}

func TestWebSocketNotifier_GetUpgrader(t *testing.T) {
	notifier := NewWebSocketNotifier("test")
	defer notifier.Close()

	upgrader := notifier.GetUpgrader()
	if upgrader.ReadBufferSize == 0 {
		t.Error("Expected non-zero ReadBufferSize")
	}
	if upgrader.WriteBufferSize == 0 {
		t.Error("Expected non-zero WriteBufferSize")
	}
}

func TestWebSocketNotifier_Notify(t *testing.T) {
	notifier := NewWebSocketNotifier("test")
	defer notifier.Close()

	// With no clients the frame is queued and dropped by the broadcaster.
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	err := notifier.Notify(ctx, testFrameEvent())
	if err != nil {
		t.Errorf("Expected no error with no clients, got %v", err)
	}

	// A cancelled context may or may not error depending on timing, but
	// must not panic.
	ctx, cancel = context.WithTimeout(context.Background(), 0)
	cancel()
	_ = notifier.Notify(ctx, testFrameEvent())
}

func TestWebSocketNotifier_Close(t *testing.T) {
	notifier := NewWebSocketNotifier("test")

	err := notifier.Close()
	if err != nil {
		t.Errorf("Expected no error on close, got %v", err)
	}

	// Note: Close should only be called once; a second close would panic
	// on the already-closed channels.
}
