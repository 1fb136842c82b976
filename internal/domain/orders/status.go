package orders

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed out of s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether s may move to the target status.
// The only legal moves are pending -> completed and pending -> failed.
func (s Status) CanTransition(to Status) bool {
	if !to.Valid() || s.Terminal() {
		return false
	}
	return s == StatusPending && to != StatusPending
}
