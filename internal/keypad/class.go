package keypad

// Class categorizes a single input character.
type Class int

const (
	// ClassIgnored is any character with no meaning to the decoder.
	ClassIgnored Class = iota
	// ClassTerminator ends input ('#').
	ClassTerminator
	// ClassSeparator commits pending presses (' ').
	ClassSeparator
	// ClassBackspace commits pending presses and deletes one character ('*').
	ClassBackspace
	// ClassDigit is a key present in the key map.
	ClassDigit
)

// Control characters.
const (
	Terminator = '#'
	Separator  = ' '
	Backspace  = '*'
)

// Classify returns the class of r.
func Classify(r rune) Class {
	switch r {
	case Terminator:
		return ClassTerminator
	case Separator:
		return ClassSeparator
	case Backspace:
		return ClassBackspace
	}
	if _, ok := keyMap[r]; ok {
		return ClassDigit
	}
	return ClassIgnored
}

// String returns a human-readable name for the class.
func (c Class) String() string {
	switch c {
	case ClassTerminator:
		return "terminator"
	case ClassSeparator:
		return "separator"
	case ClassBackspace:
		return "backspace"
	case ClassDigit:
		return "digit"
	default:
		return "ignored"
	}
}
