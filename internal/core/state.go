package core

import "fmt"

// State is the receiver's lifecycle position.  Transitions only move
// forward: Idle → Listening → Connected → Closed.  Closed can also be
// reached directly from Idle or Listening on shutdown.
type State int32

const (
	StateIdle State = iota
	StateListening
	StateConnected
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListening:
		return "listening"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}
