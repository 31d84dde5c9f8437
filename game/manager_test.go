package game

import (
	"net"
	"testing"
	"time"

	"github.com/wfunc/memorygrid/engine"
	"github.com/wfunc/memorygrid/network"
	"github.com/wfunc/memorygrid/session"
)

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct{}

func (m *MockConnection) Send(msgID uint16, data []byte) error { return nil }
func (m *MockConnection) Close() error                         { return nil }
func (m *MockConnection) RemoteAddr() net.Addr                 { return &net.TCPAddr{} }
func (m *MockConnection) SetHeartbeat(interval time.Duration)  {}
func (m *MockConnection) ReadPacket() (*network.Packet, error) { return nil, nil }

func newTestSession(id string) *session.Session {
	return session.NewSession(id, &MockConnection{})
}

func TestManager_GetOrCreate(t *testing.T) {
	manager := NewManager()
	sess := newTestSession("player1")

	inst := manager.GetOrCreate(sess, engine.Config{})
	if inst == nil {
		t.Fatal("GetOrCreate should not return nil")
	}
	if inst.ID != sess.GetID() {
		t.Errorf("Expected instance id %s, got %s", sess.GetID(), inst.ID)
	}

	again := manager.GetOrCreate(sess, engine.Config{})
	if again != inst {
		t.Error("GetOrCreate should return the existing instance for the same session")
	}
	if manager.Count() != 1 {
		t.Errorf("Expected 1 instance, got %d", manager.Count())
	}
}

func TestManager_Remove(t *testing.T) {
	manager := NewManager()
	sess := newTestSession("player1")
	manager.GetOrCreate(sess, engine.Config{})

	manager.Remove(sess.GetID())

	if _, exists := manager.Get(sess.GetID()); exists {
		t.Error("Get should not find the removed instance")
	}
	if manager.Count() != 0 {
		t.Errorf("Expected 0 instances after removal, got %d", manager.Count())
	}
}

func TestInstance_FullRound(t *testing.T) {
	inst := NewInstance(newTestSession("player1"), engine.Config{})

	sequence, snapshot := inst.StartGame()
	if snapshot.Phase != string(engine.PhaseSequence) {
		t.Fatalf("Expected sequence phase after start, got %s", snapshot.Phase)
	}
	if len(sequence) != snapshot.SequenceLength {
		t.Fatalf("Reveal sequence length %d does not match snapshot %d", len(sequence), snapshot.SequenceLength)
	}

	snapshot = inst.BeginInput()
	if snapshot.Phase != string(engine.PhaseInput) {
		t.Fatalf("Expected input phase, got %s", snapshot.Phase)
	}

	var phase engine.Phase
	var next []int
	for _, id := range sequence {
		phase, next, snapshot = inst.Click(id)
	}

	if phase != engine.PhaseSequence {
		t.Errorf("Expected the cleared round to start a new reveal, got %s", phase)
	}
	if next == nil {
		t.Error("Click that clears a round should return the next sequence")
	}
	if snapshot.Level != 2 {
		t.Errorf("Expected level 2 after clearing the round, got %d", snapshot.Level)
	}
	if snapshot.Score != 2*len(sequence) {
		t.Errorf("Expected score %d, got %d", 2*len(sequence), snapshot.Score)
	}
}

func TestInstance_ResetReturnsToIdle(t *testing.T) {
	inst := NewInstance(newTestSession("player1"), engine.Config{})
	inst.StartGame()

	snapshot := inst.Reset()
	if snapshot.Phase != string(engine.PhaseIdle) {
		t.Errorf("Expected idle phase after reset, got %s", snapshot.Phase)
	}
	if snapshot.Score != 0 || snapshot.Level != 1 {
		t.Errorf("Reset should restore defaults, got level %d score %d", snapshot.Level, snapshot.Score)
	}
}
