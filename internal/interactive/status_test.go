package interactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vinegraph/internal/domain"
)

func TestStatusMachine_Lifecycle(t *testing.T) {
	m := NewStatusMachine()
	assert.Equal(t, domain.QueryStatusInitializing, m.Current())
	assert.False(t, m.Closed())

	require.NoError(t, m.MarkRunning())
	assert.Equal(t, domain.QueryStatusRunning, m.Current())

	assert.True(t, m.MarkClosed())
	assert.Equal(t, domain.QueryStatusClosed, m.Current())
	assert.True(t, m.Closed())
}

func TestStatusMachine_MarkRunningOnlyFromInitializing(t *testing.T) {
	m := NewStatusMachine()
	require.NoError(t, m.MarkRunning())

	err := m.MarkRunning()
	var state *domain.StateError
	require.ErrorAs(t, err, &state)
	assert.Equal(t, domain.QueryStatusRunning, state.Status)
}

func TestStatusMachine_FailedIsTerminal(t *testing.T) {
	m := NewStatusMachine()
	require.NoError(t, m.MarkFailed("coordinator unreachable"))
	assert.Equal(t, domain.QueryStatusFailed, m.Current())
	assert.Equal(t, "coordinator unreachable", m.ErrorMessage())

	assert.Error(t, m.MarkRunning())
	assert.Error(t, m.MarkFailed("again"))

	// Close still wins over Failed; a handle must always be closeable.
	assert.True(t, m.MarkClosed())
	assert.Equal(t, domain.QueryStatusClosed, m.Current())
}

func TestStatusMachine_MarkClosedIdempotent(t *testing.T) {
	m := NewStatusMachine()
	assert.True(t, m.MarkClosed())
	assert.False(t, m.MarkClosed())
	assert.False(t, m.MarkClosed())
}
