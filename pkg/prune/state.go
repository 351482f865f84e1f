package prune

// State is the phase a run is in.
type State int32

const (
	StateIdle State = iota
	StateFetching
	StateFiltering
	StateDeleting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateFiltering:
		return "filtering"
	case StateDeleting:
		return "deleting"
	default:
		return "unknown"
	}
}
