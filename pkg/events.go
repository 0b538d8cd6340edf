package node

// Runtime event kinds, as delivered by the dataflow runtime.
type EventKind int

const (
	EventOther EventKind = iota
	EventInput
	EventStop
	EventInputClosed
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventInput:
		return "INPUT"
	case EventStop:
		return "STOP"
	case EventInputClosed:
		return "INPUT_CLOSED"
	case EventError:
		return "ERROR"
	}
	return "OTHER"
}

// ParseEventKind maps a wire tag to an EventKind, unknown tags are EventOther.
func ParseEventKind(tag string) EventKind {
	switch tag {
	case "INPUT":
		return EventInput
	case "STOP":
		return EventStop
	case "INPUT_CLOSED":
		return EventInputClosed
	case "ERROR":
		return EventError
	}
	return EventOther
}

// Event is one delivery from the runtime. ID and Value are only
// meaningful when Kind is EventInput.
type Event struct {
	Kind  EventKind
	ID    string
	Value any
}

// NewInput is shorthand for an EventInput with the given id and value.
func NewInput(id string, value any) *Event {
	return &Event{Kind: EventInput, ID: id, Value: value}
}

// InputID is the closed set of inputs this node reacts to.
type InputID int

const (
	InputUnknown InputID = iota
	InputTurtlePose
	InputTick
)

const (
	TurtlePoseInput = "turtle_pose"
	TickInput       = "tick"
)

func ParseInputID(id string) InputID {
	switch id {
	case TurtlePoseInput:
		return InputTurtlePose
	case TickInput:
		return InputTick
	}
	return InputUnknown
}

func (i InputID) String() string {
	switch i {
	case InputTurtlePose:
		return TurtlePoseInput
	case InputTick:
		return TickInput
	}
	return "unknown"
}

type OutputID string

// DirectionOutput carries synthesized Commands.
const DirectionOutput OutputID = "direction"
