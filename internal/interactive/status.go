package interactive

import (
	"sync"

	"vinegraph/internal/domain"
)

// StatusMachine guards the lifecycle state of one query handle. Transitions
// are explicit methods so the owning session cannot assign arbitrary
// states; operations gate cooperatively on Current() == Running.
type StatusMachine struct {
	mu       sync.Mutex
	status   domain.QueryStatus
	errorMsg string
}

// NewStatusMachine creates a machine in the Initializing state.
func NewStatusMachine() *StatusMachine {
	return &StatusMachine{status: domain.QueryStatusInitializing}
}

// Current returns the current status.
func (m *StatusMachine) Current() domain.QueryStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Closed reports whether the handle has been closed.
func (m *StatusMachine) Closed() bool {
	return m.Current() == domain.QueryStatusClosed
}

// ErrorMessage returns the message recorded by MarkFailed, if any.
func (m *StatusMachine) ErrorMessage() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errorMsg
}

// MarkRunning transitions Initializing -> Running. Invoked by the owning
// session once the remote frontend is confirmed reachable.
func (m *StatusMachine) MarkRunning() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status != domain.QueryStatusInitializing {
		return domain.ErrState("mark running", m.status)
	}
	m.status = domain.QueryStatusRunning
	return nil
}

// MarkFailed transitions Initializing or Running -> Failed, recording the
// provisioning or runtime error. Failed is terminal; there is no recovery.
func (m *StatusMachine) MarkFailed(msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status.Terminal() {
		return domain.ErrState("mark failed", m.status)
	}
	m.status = domain.QueryStatusFailed
	m.errorMsg = msg
	return nil
}

// MarkClosed transitions any non-Closed state to Closed. It returns true
// on the first call and false when the handle was already closed, letting
// Close stay idempotent without a second flag.
func (m *StatusMachine) MarkClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status == domain.QueryStatusClosed {
		return false
	}
	m.status = domain.QueryStatusClosed
	return true
}
