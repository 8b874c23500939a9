package client

import (
	"fmt"

	"github.com/dcrodman/mirlauncher/internal/packets"
)

// State of a Session's connection.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

type EventType int

const (
	EventConnected EventType = iota
	EventDisconnected
	// Transport failure. Always followed by EventDisconnected.
	EventError
	// A complete message arrived from the server.
	EventPacket
)

func (t EventType) String() string {
	switch t {
	case EventConnected:
		return "connected"
	case EventDisconnected:
		return "disconnected"
	case EventError:
		return "error"
	case EventPacket:
		return "packet"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Event is delivered on the channel returned by Session.Events.
type Event struct {
	Type EventType
	// Set for EventPacket.
	Message packets.DefaultMessage
	// Still-encoded characters that followed the header, set for EventPacket.
	Body string
	// Set for EventError.
	Err error
	// Connection the event belongs to. See Session.Generation.
	Generation uint64
}
