package directory

import "github.com/hpungsan/roster/internal/employee"

// CloseTrigger identifies what dismissed the detail overlay.
type CloseTrigger int

const (
	CloseButton CloseTrigger = iota // explicit close control
	Backdrop                        // click on the overlay background
	Cancel                          // escape / cancel key
)

// String returns the trigger name used in logs.
func (t CloseTrigger) String() string {
	switch t {
	case CloseButton:
		return "close_button"
	case Backdrop:
		return "backdrop"
	case Cancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// State is the interaction state of one directory view: the active query, the
// filtered view it produced, and the record shown in the detail overlay.
//
// State is a value. Transitions return a new State and never modify the
// receiver, so a State can be held by a request handler or a UI model without
// further synchronization.
type State struct {
	store    *Store
	query    string
	filtered []employee.Employee
	selected *employee.Employee
}

// NewState returns the initial state: empty query, every record visible, overlay closed.
func NewState(store *Store) State {
	return State{
		store:    store,
		filtered: store.All(),
	}
}

// Search re-runs the filter for term. Overlay state is unchanged.
func (s State) Search(term string) State {
	s.query = term
	s.filtered = Filter(s.store.records, term)
	return s
}

// Select opens the overlay on the record with id. Unknown ids leave the state unchanged.
func (s State) Select(id int) State {
	rec, ok := s.store.FindByID(id)
	if !ok {
		return s
	}
	s.selected = &rec
	return s
}

// Close dismisses the overlay. Closing an already closed overlay is a no-op.
// Every trigger has the same effect; the trigger is accepted so callers state
// which control fired.
func (s State) Close(_ CloseTrigger) State {
	s.selected = nil
	return s
}

// Query returns the raw search term as entered.
func (s State) Query() string {
	return s.query
}

// Filtered returns the current filtered view in directory order.
func (s State) Filtered() []employee.Employee {
	return s.filtered
}

// Total returns the unfiltered record count.
func (s State) Total() int {
	return s.store.Len()
}

// Open reports whether the detail overlay is showing.
func (s State) Open() bool {
	return s.selected != nil
}

// Selected returns the record shown in the overlay, if any.
func (s State) Selected() (employee.Employee, bool) {
	if s.selected == nil {
		return employee.Employee{}, false
	}
	return *s.selected, true
}

// SelectedID returns the id of the record in the overlay, or 0 when closed.
func (s State) SelectedID() int {
	if s.selected == nil {
		return 0
	}
	return s.selected.ID
}

// ScrollLocked reports whether background scrolling is suspended.
// It is true exactly while the overlay is open.
func (s State) ScrollLocked() bool {
	return s.Open()
}
