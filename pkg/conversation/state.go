package conversation

import "strings"

// State is the step of the questionnaire a session is in.
type State int

const (
	// Idle means there is no active conversation.
	Idle State = iota
	Genre
	Mood
	Tempo
	Instrument
	Language
	Era
	Description
	Confirm
	Terminated
)

var stateNames = [...]string{
	Idle:        "IDLE",
	Genre:       "GENRE",
	Mood:        "MOOD",
	Tempo:       "TEMPO",
	Instrument:  "INSTRUMENT",
	Language:    "LANGUAGE",
	Era:         "ERA",
	Description: "DESCRIPTION",
	Confirm:     "CONFIRM",
	Terminated:  "TERMINATED",
}

// Selectable states are answered with a button press.
var selectable = []State{Genre, Mood, Tempo, Instrument, Language, Era}

func (s State) String() string {
	if s < Idle || s > Terminated {
		return "UNKNOWN"
	}
	return stateNames[s]
}

// Field returns the answer field stored by the state, empty for states that
// don't collect an answer.
func (s State) Field() string {
	if s < Genre || s > Description {
		return ""
	}
	return strings.ToLower(stateNames[s])
}

// Next returns the following state in the questionnaire order.
func (s State) Next() State {
	if s < Genre || s >= Confirm {
		return Terminated
	}
	return s + 1
}

// Active reports whether the state belongs to a running conversation.
func (s State) Active() bool {
	return s >= Genre && s <= Confirm
}

// ParseState parses the name of a selectable state.
func ParseState(name string) (State, bool) {
	for _, s := range selectable {
		if stateNames[s] == name {
			return s, true
		}
	}
	return Idle, false
}

// MenuNames returns the menus a conversation needs, in the order they are shown.
func MenuNames() []string {
	var names []string
	for _, s := range selectable {
		names = append(names, s.String())
	}
	return append(names, Confirm.String())
}
