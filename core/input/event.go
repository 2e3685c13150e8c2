package input

// Action is a symbolic game action, independent of the physical control.
type Action string

const (
	Up     Action = "Up"
	Down   Action = "Down"
	Left   Action = "Left"
	Right  Action = "Right"
	Accept Action = "Accept"
	Return Action = "Return"
)

// Actions lists every action in table order.
var Actions = []Action{Up, Down, Left, Right, Accept, Return}

type Phase int

const (
	Pressed Phase = iota
	Released
)

func (p Phase) String() string {
	if p == Released {
		return "release"
	}
	return "press"
}

// Event is one discrete action edge. Source is a back-reference only.
type Event struct {
	Source Source
	Time   float64 // seconds on the engine clock
	Action Action
	Phase  Phase
}

func (e Event) Is(a Action, p Phase) bool {
	return e.Action == a && e.Phase == p
}

// JustPressed reports whether events contain a press of a.
func JustPressed(events []Event, a Action) bool {
	for _, e := range events {
		if e.Is(a, Pressed) {
			return true
		}
	}
	return false
}

// Source produces events. Poll returns only events with Time <= currentTime
// that were not returned by an earlier Poll.
type Source interface {
	Poll(currentTime float64) []Event
}
