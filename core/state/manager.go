package state

import (
	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/hajimehoshi/ebiten/v2"

	game_log "github.com/ingyamilmolinar/astral/internal/log"
)

type entry struct {
	name     string
	state    State
	loaded   bool
	substate Substate
}

// Fade holds the phase lengths used by TransitionTo, in seconds.
type Fade struct {
	In, Black, Out float64
}

var DefaultFade = Fade{In: 0.2, Black: 0, Out: 0.2}

// Manager owns the registered states, the active one and its substate.
type Manager struct {
	window     Window
	logger     *game_log.Logger
	states     map[string]*entry
	current    *entry
	transition *Transition
	fade       Fade
}

// NewManager binds the manager to the window states are presented on.
func NewManager(win Window, logger *game_log.Logger) *Manager {
	return &Manager{
		window: win,
		logger: logger.Named("STATE"),
		states: map[string]*entry{},
		fade:   DefaultFade,
	}
}

// SetFade changes the durations of later transitions.
func (m *Manager) SetFade(f Fade) { m.fade = f }

// Register adds s under name. The first registration of a name wins.
func (m *Manager) Register(name string, s State) {
	if _, ok := m.states[name]; ok {
		m.logger.Debugf("state %q already registered, ignoring", name)
		return
	}
	m.states[name] = &entry{name: name, state: s}
}

// Show makes the named state active. Unknown names are ignored. Setup runs
// only the first time a state is shown; if it fails the previous state stays
// active.
func (m *Manager) Show(name string) error {
	next, ok := m.states[name]
	if !ok {
		m.logger.Debugf("show: unknown state %q", name)
		return nil
	}
	if !next.loaded {
		if err := next.state.Setup(); err != nil {
			return fault.Wrap(err, fmsg.With("setup state "+name))
		}
		next.loaded = true
	}
	if m.current != nil {
		m.exit(m.current)
	}
	m.current = next
	next.state.Enter()
	if m.window != nil {
		m.window.Present(next.state)
	}
	m.logger.Infof("showing %q", name)
	return nil
}

func (m *Manager) exit(e *entry) {
	if e.substate != nil {
		e.substate.Exit()
		e.substate = nil
	}
	e.state.Exit()
}

// TransitionTo fades to the named state. It is ignored while another
// transition is running.
func (m *Manager) TransitionTo(name string) {
	if m.transition != nil {
		return
	}
	m.transition = NewTransition(m.fade.In, m.fade.Black, m.fade.Out, func() {
		if err := m.Show(name); err != nil {
			m.logger.Errorf("transition to %q: %v", name, err)
		}
	})
}

// Transition returns the running transition, or nil.
func (m *Manager) Transition() *Transition { return m.transition }

// SetSubstate layers sub over the current state and enters it. A substate
// already present is exited first.
func (m *Manager) SetSubstate(sub Substate) {
	if m.current == nil {
		return
	}
	if m.current.substate != nil {
		m.current.substate.Exit()
	}
	m.current.substate = sub
	sub.Enter()
}

// RemoveSubstate exits and drops the current state's substate.
func (m *Manager) RemoveSubstate() {
	if m.current == nil || m.current.substate == nil {
		return
	}
	m.current.substate.Exit()
	m.current.substate = nil
}

// active is the layer that receives update and timing calls.
func (m *Manager) active() Substate {
	if m.current == nil {
		return nil
	}
	if m.current.substate != nil {
		return m.current.substate
	}
	return m.current.state
}

func (m *Manager) Update(dt float64) {
	if a := m.active(); a != nil {
		a.Update(dt)
	}
	if m.transition != nil {
		m.transition.Update(dt)
		if m.transition.Finished() {
			m.transition = nil
		}
	}
}

// Draw renders the state, its substate on top, then any transition.
func (m *Manager) Draw(dst *ebiten.Image) {
	if m.current != nil {
		m.current.state.Draw(dst)
		if m.current.substate != nil {
			m.current.substate.Draw(dst)
		}
	}
	if m.transition != nil {
		m.transition.Draw(dst)
	}
}

func (m *Manager) BeatHit(beat int) {
	if a := m.active(); a != nil {
		a.BeatHit(beat)
	}
}

func (m *Manager) StepHit(step int) {
	if a := m.active(); a != nil {
		a.StepHit(step)
	}
}

// Current returns the active state, or nil.
func (m *Manager) Current() State {
	if m.current == nil {
		return nil
	}
	return m.current.state
}

func (m *Manager) CurrentName() string {
	if m.current == nil {
		return ""
	}
	return m.current.name
}

// Substate returns the current state's substate, or nil.
func (m *Manager) Substate() Substate {
	if m.current == nil {
		return nil
	}
	return m.current.substate
}

// Loaded reports whether the named state has been set up.
func (m *Manager) Loaded(name string) bool {
	e, ok := m.states[name]
	return ok && e.loaded
}
