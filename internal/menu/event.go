package menu

import "fmt"

// EventKind classifies an input event.
type EventKind int

const (
	// EventSelect commits the current row or the text being captured.
	EventSelect EventKind = iota
	// EventMove moves the selection by Delta, or adjusts the value on an
	// adjustable row.
	EventMove
	// EventCancel aborts text capture or goes up one level.
	EventCancel
	// EventChar appends Char to the capture buffer.
	EventChar
	// EventBackspace removes the last captured character.
	EventBackspace
	// EventDelete removes the selected WiFi network.
	EventDelete
	// EventEdit edits the password of the selected WiFi network.
	EventEdit
)

func (k EventKind) String() string {
	switch k {
	case EventSelect:
		return "select"
	case EventMove:
		return "move"
	case EventCancel:
		return "cancel"
	case EventChar:
		return "char"
	case EventBackspace:
		return "backspace"
	case EventDelete:
		return "delete"
	case EventEdit:
		return "edit"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one input event.
type Event struct {
	Kind  EventKind
	Delta int  // EventMove: -1 or +1
	Char  rune // EventChar
}

func Select() Event        { return Event{Kind: EventSelect} }
func Move(delta int) Event { return Event{Kind: EventMove, Delta: delta} }
func Cancel() Event        { return Event{Kind: EventCancel} }
func Char(r rune) Event    { return Event{Kind: EventChar, Char: r} }
func Backspace() Event     { return Event{Kind: EventBackspace} }
func DeleteNetwork() Event { return Event{Kind: EventDelete} }
func EditNetwork() Event   { return Event{Kind: EventEdit} }

// Key codes understood by KeyEvent.
const (
	keyBackspace = '\b'
	keyDelete    = 127
	keyEscape    = 27
)

// KeyEvent maps a keyboard key to an event. ok is false for keys with no
// meaning in the current mode. While capturing text every printable key is
// a character; otherwise q backs out, d deletes and e edits.
func KeyEvent(key rune, capturing bool) (Event, bool) {
	switch key {
	case '\n', '\r':
		return Select(), true
	case keyEscape:
		return Cancel(), true
	}

	if capturing {
		switch {
		case key == keyBackspace || key == keyDelete:
			return Backspace(), true
		case key >= 32 && key < 127:
			return Char(key), true
		}
		return Event{}, false
	}

	switch key {
	case 'q':
		return Cancel(), true
	case 'd':
		return DeleteNetwork(), true
	case 'e':
		return EditNetwork(), true
	}
	return Event{}, false
}

// RotaryEvent maps an encoder step: 0 is a press, otherwise a move.
func RotaryEvent(direction int) Event {
	switch {
	case direction == 0:
		return Select()
	case direction < 0:
		return Move(-1)
	default:
		return Move(1)
	}
}
