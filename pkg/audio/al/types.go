// ABOUTME: Identifiers, enums and error codes for the audio API
// ABOUTME: Defines source states, source types and polled error values
package al

import "fmt"

// SourceID identifies a source within one context
type SourceID uint32

// BufferID identifies an uploaded buffer within one context
type BufferID uint32

// NoBuffer detaches a static source from its buffer
const NoBuffer BufferID = 0

// State is the transport state of a source
type State int

const (
	Initial State = iota
	Playing
	Paused
	Stopped
)

// String returns the state name
func (s State) String() string {
	switch s {
	case Initial:
		return "initial"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// SourceType records whether a source plays a static buffer or a queue
type SourceType int

const (
	Undetermined SourceType = iota
	Static
	Streaming
)

// String returns the source type name
func (t SourceType) String() string {
	switch t {
	case Undetermined:
		return "undetermined"
	case Static:
		return "static"
	case Streaming:
		return "streaming"
	default:
		return fmt.Sprintf("SourceType(%d)", int(t))
	}
}

// Error is a polled error code
type Error int

const (
	NoError Error = iota
	InvalidName
	InvalidEnum
	InvalidValue
	InvalidOperation
)

// Error implements the error interface
func (e Error) Error() string {
	switch e {
	case NoError:
		return "no error"
	case InvalidName:
		return "invalid name"
	case InvalidEnum:
		return "invalid enum"
	case InvalidValue:
		return "invalid value"
	case InvalidOperation:
		return "invalid operation"
	default:
		return fmt.Sprintf("al error %d", int(e))
	}
}
