package shows

// Status is the show lifecycle state
type Status string

const (
	StatusActive      Status = "ACTIVE"
	StatusHouseFull   Status = "HOUSE_FULL"
	StatusShowStarted Status = "SHOW_STARTED"
	StatusShowDone    Status = "SHOW_DONE"
)

// transitions is the closed transition table. HOUSE_FULL can fall back to
// ACTIVE when a cancellation frees seats.
var transitions = map[Status][]Status{
	StatusActive:      {StatusHouseFull, StatusShowStarted},
	StatusHouseFull:   {StatusActive, StatusShowStarted},
	StatusShowStarted: {StatusShowDone},
	StatusShowDone:    {},
}

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether moving to target is a legal transition.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsBookable reports whether the booking transaction admits new bookings.
// HOUSE_FULL blocks administratively even though the conflict check would
// reject anyway once every seat is taken.
func (s Status) IsBookable() bool {
	return s == StatusActive
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}
