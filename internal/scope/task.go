package scope

// State is the lifecycle state of a Task
type State int

const (
	Scheduled State = iota
	Cancelled
	Fired
	Completed
)

func (s State) String() string {
	switch s {
	case Scheduled:
		return "scheduled"
	case Cancelled:
		return "cancelled"
	case Fired:
		return "fired"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible
func (s State) Terminal() bool {
	return s == Cancelled || s == Completed
}

// Task is one delayed effect owned by a Scope
type Task struct {
	scope  *Scope
	effect func() error
	timer  Timer
	state  State // guarded by scope.mu
}

// State returns the current state of the task
func (t *Task) State() State {
	t.scope.mu.Lock()
	defer t.scope.mu.Unlock()
	return t.state
}

// Cancel stops the task if it has not fired yet. It reports whether this
// call cancelled it; cancelling a fired or cancelled task does nothing.
func (t *Task) Cancel() bool {
	s := t.scope
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.state != Scheduled {
		return false
	}
	t.state = Cancelled
	t.timer.Stop()
	delete(s.tasks, t)
	return true
}

func (t *Task) fire() {
	if err := t.run(); err != nil {
		t.scope.report(err)
	}
}

func (t *Task) run() error {
	s := t.scope
	s.gate.RLock()
	defer s.gate.RUnlock()

	s.mu.Lock()
	if t.state != Scheduled || s.state != live {
		s.mu.Unlock()
		return nil
	}
	t.state = Fired
	s.mu.Unlock()

	err := t.effect()

	s.mu.Lock()
	t.state = Completed
	delete(s.tasks, t)
	s.mu.Unlock()

	return err
}
