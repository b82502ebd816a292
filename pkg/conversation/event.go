package conversation

import (
	"fmt"
	"strings"

	"github.com/igolaizola/musikbot/pkg/menu"
)

type EventKind int

const (
	EventStart EventKind = iota + 1
	EventSelect
	EventText
	EventConfirm
	EventCancel
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventSelect:
		return "select"
	case EventText:
		return "text"
	case EventConfirm:
		return "confirm"
	case EventCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Event is an inbound user action already validated by the transport.
type Event struct {
	Kind EventKind
	// State and Value are set for selections.
	State State
	Value string
	// Text is set for free text messages.
	Text string
	// Welcome distinguishes the welcome command from the direct one.
	Welcome bool
	// MessageID is the message the button belonged to, if any.
	MessageID int
}

func Start(welcome bool) Event {
	return Event{Kind: EventStart, Welcome: welcome}
}

func Text(text string) Event {
	return Event{Kind: EventText, Text: text}
}

func Cancel() Event {
	return Event{Kind: EventCancel}
}

// ParsePayload converts a button payload into an event. Payloads are either
// one of the reserved control values or STATE:value.
func ParsePayload(payload string) (Event, error) {
	switch payload {
	case menu.Cancel:
		return Event{Kind: EventCancel}, nil
	case menu.Confirm:
		return Event{Kind: EventConfirm}, nil
	}
	name, value, ok := strings.Cut(payload, menu.Separator)
	if !ok {
		return Event{}, fmt.Errorf("conversation: invalid payload %q", payload)
	}
	state, ok := ParseState(name)
	if !ok {
		return Event{}, fmt.Errorf("conversation: unknown state in payload %q", payload)
	}
	if value == "" {
		return Event{}, fmt.Errorf("conversation: empty value in payload %q", payload)
	}
	return Event{Kind: EventSelect, State: state, Value: value}, nil
}
