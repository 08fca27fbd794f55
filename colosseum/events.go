package colosseum

import "github.com/mantlenetworkio/colosseum/colosseum/types"

// EventKind names one of the events emitted by spec.md §6.
type EventKind string

const (
	EventChallengeCreated EventKind = "ChallengeCreated"
	EventBisected         EventKind = "Bisected"
	EventProven           EventKind = "Proven"
	EventApproved         EventKind = "Approved"
	EventDeleted          EventKind = "Deleted"
)

// Event is a single named record describing a coordinator state
// transition. These are Go values delivered on a channel, not a wire
// format (spec.md §6) — the service runner is responsible for turning
// them into logs and metrics.
type Event struct {
	Kind        EventKind
	OutputIndex types.OutputIndex
	Turn        uint64
	OutputRoot  types.Hash
}

// emit sends ev on the coordinator's event channel without blocking
// the caller if nobody is listening; a full channel drops the oldest
// pending event rather than stalling a mutating operation, since events
// are an observability side channel and must never affect atomicity
// (spec.md §5).
func (c *Coordinator) emit(ev Event) {
	if c.events == nil {
		return
	}
	select {
	case c.events <- ev:
	default:
		select {
		case <-c.events:
		default:
		}
		select {
		case c.events <- ev:
		default:
		}
	}
}

// Events returns the channel the service runner drains for logging and
// metrics.
func (c *Coordinator) Events() <-chan Event {
	return c.events
}
