package borrow

import (
	"fmt"

	guestmem "github.com/wippyai/guestmem"
)

// Event types for loan lifecycle notifications.
type EventType uint8

const (
	EventSharedTaken EventType = iota
	EventSharedSettled
	EventExclusiveTaken
	EventExclusiveSettled
	EventDenied
)

func (t EventType) String() string {
	switch t {
	case EventSharedTaken:
		return "shared_taken"
	case EventSharedSettled:
		return "shared_settled"
	case EventExclusiveTaken:
		return "exclusive_taken"
	case EventExclusiveSettled:
		return "exclusive_settled"
	case EventDenied:
		return "denied"
	default:
		return fmt.Sprintf("event(%d)", uint8(t))
	}
}

// Event represents one ledger transition, or a denied request, within a scope.
type Event struct {
	Addr guestmem.Addr
	// Shared is the outstanding shared count after the transition. Zero for
	// exclusive events and denials.
	Shared uint32
	// Conflict is set for EventDenied.
	Conflict ConflictKind
	Type     EventType
}

// Observer receives notifications about loan lifecycle events.
type Observer interface {
	OnLoanEvent(Event)
}
