package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var (
	appendJustPressedKeys  = inpututil.AppendJustPressedKeys
	appendJustReleasedKeys = inpututil.AppendJustReleasedKeys
)

// SetKeysForTest replaces the ebiten key queries and returns a function that
// restores them.
func SetKeysForTest(pressed, released func([]ebiten.Key) []ebiten.Key) func() {
	oldPressed, oldReleased := appendJustPressedKeys, appendJustReleasedKeys
	appendJustPressedKeys, appendJustReleasedKeys = pressed, released
	return func() {
		appendJustPressedKeys, appendJustReleasedKeys = oldPressed, oldReleased
	}
}

// Binding maps one action to the keys that trigger it.
type Binding struct {
	Action Action
	Keys   []ebiten.Key
}

// DefaultBindings is the stock keyboard layout.
var DefaultBindings = []Binding{
	{Up, []ebiten.Key{ebiten.KeyW, ebiten.KeyArrowUp}},
	{Down, []ebiten.Key{ebiten.KeyS, ebiten.KeyArrowDown}},
	{Left, []ebiten.Key{ebiten.KeyA, ebiten.KeyArrowLeft}},
	{Right, []ebiten.Key{ebiten.KeyD, ebiten.KeyArrowRight}},
	{Accept, []ebiten.Key{ebiten.KeyEnter, ebiten.KeyX}},
	{Return, []ebiten.Key{ebiten.KeyEscape, ebiten.KeyZ}},
}

// Keyboard turns key edges into action events.
type Keyboard struct {
	bindings []Binding
	pending  []Event
	keys     []ebiten.Key
}

func NewKeyboard(bindings []Binding) *Keyboard {
	if bindings == nil {
		bindings = DefaultBindings
	}
	return &Keyboard{bindings: bindings}
}

// Check reports whether key is bound to a.
func (k *Keyboard) Check(key ebiten.Key, a Action) bool {
	for _, b := range k.bindings {
		if b.Action != a {
			continue
		}
		for _, bound := range b.Keys {
			if bound == key {
				return true
			}
		}
	}
	return false
}

// OnKeyPress records a press of key at time t for every action bound to it.
func (k *Keyboard) OnKeyPress(key ebiten.Key, t float64) { k.record(key, t, Pressed) }

// OnKeyRelease records a release of key at time t for every action bound to it.
func (k *Keyboard) OnKeyRelease(key ebiten.Key, t float64) { k.record(key, t, Released) }

func (k *Keyboard) record(key ebiten.Key, t float64, p Phase) {
	for _, b := range k.bindings {
		for _, bound := range b.Keys {
			if bound == key {
				k.pending = append(k.pending, Event{Source: k, Time: t, Action: b.Action, Phase: p})
				break
			}
		}
	}
}

// Capture reads this frame's key edges from ebiten and stamps them with t.
func (k *Keyboard) Capture(t float64) {
	k.keys = appendJustPressedKeys(k.keys[:0])
	for _, key := range k.keys {
		k.OnKeyPress(key, t)
	}
	k.keys = appendJustReleasedKeys(k.keys[:0])
	for _, key := range k.keys {
		k.OnKeyRelease(key, t)
	}
}

func (k *Keyboard) Poll(currentTime float64) []Event {
	return drainUntil(&k.pending, currentTime)
}

// drainUntil removes and returns the events of *pending stamped at or before
// t, keeping the rest in order.
func drainUntil(pending *[]Event, t float64) []Event {
	var out, keep []Event
	for _, e := range *pending {
		if e.Time <= t {
			out = append(out, e)
		} else {
			keep = append(keep, e)
		}
	}
	*pending = keep
	return out
}
