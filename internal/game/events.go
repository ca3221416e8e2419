package game

type EventKind int

const (
	EventMessage EventKind = iota
	EventRejected
	EventStateChanged
	EventDayEnded
	EventGameOver
	EventFatal
)

func (k EventKind) String() string {
	switch k {
	case EventMessage:
		return "message"
	case EventRejected:
		return "rejected"
	case EventStateChanged:
		return "state_changed"
	case EventDayEnded:
		return "day_ended"
	case EventGameOver:
		return "game_over"
	case EventFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Event is one notification from the board. Active is set on state changes;
// Err is set on rejections and fatal content faults.
type Event struct {
	Kind    EventKind
	Message string
	Day     int
	Active  *Player
	Err     error
}

// Listener receives board events synchronously. It must not call back into
// Board.Process.
type Listener func(Event)

type subscription struct {
	id int
	fn Listener
}
