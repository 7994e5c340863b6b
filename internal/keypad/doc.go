// Package keypad decodes multi-tap telephone keypad input into text.
//
// # Key Layout
//
// Each digit cycles through a fixed set of characters. Pressing a key N times
// in a row selects the character at position (N-1) mod len(letters):
//
//	┌─────┬─────────┐
//	│ Key │ Letters │
//	├─────┼─────────┤
//	│  1  │ & ' (   │
//	│  2  │ A B C   │
//	│  3  │ D E F   │
//	│  4  │ G H I   │
//	│  5  │ J K L   │
//	│  6  │ M N O   │
//	│  7  │ P Q R S │
//	│  8  │ T U V   │
//	│  9  │ W X Y Z │
//	│  0  │ (space) │
//	└─────┴─────────┘
//
// # Control Characters
//
//   - ' ' commits the pending presses without producing output of its own,
//     so "2 2" yields "AA" while "22" yields "B".
//   - '*' commits the pending presses and then deletes the last character.
//   - '#' commits the pending presses and ends input; anything after it is
//     never read.
//
// Any other character is skipped without touching the pending presses. A run
// of the same digit interrupted only by such characters still counts as one
// run: "4a!4" decodes to "H".
//
// # Example
//
//	keypad.Decode("4433555 555666#") // "HELLO"
//	keypad.Decode("8 88777444666*664#") // "TURING"
package keypad
