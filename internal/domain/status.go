package domain

// QueryStatus represents the lifecycle state of an interactive query handle.
type QueryStatus string

// Interactive query lifecycle statuses. Failed and Closed are terminal;
// only Running permits query operations.
const (
	QueryStatusInitializing QueryStatus = "INITIALIZING"
	QueryStatusRunning      QueryStatus = "RUNNING"
	QueryStatusFailed       QueryStatus = "FAILED"
	QueryStatusClosed       QueryStatus = "CLOSED"
)

// Terminal returns true when no further transitions are possible from s.
func (s QueryStatus) Terminal() bool {
	return s == QueryStatusFailed || s == QueryStatusClosed
}
