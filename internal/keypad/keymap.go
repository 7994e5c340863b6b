package keypad

// keyMap holds the letters each digit cycles through, in press order.
// It is never mutated after initialization.
var keyMap = map[rune]string{
	'1': "&'(",
	'2': "ABC",
	'3': "DEF",
	'4': "GHI",
	'5': "JKL",
	'6': "MNO",
	'7': "PQRS",
	'8': "TUV",
	'9': "WXYZ",
	'0': " ",
}

// Letters returns the characters a digit cycles through.
// ok is false if the digit has no mapping.
func Letters(digit rune) (letters string, ok bool) {
	letters, ok = keyMap[digit]
	return letters, ok
}

// Select returns the character chosen by pressing digit presses times in a
// row. Presses beyond the number of letters wrap around to the first one.
// ok is false if the digit has no mapping or presses is not positive.
func Select(digit rune, presses int) (ch rune, ok bool) {
	letters, ok := keyMap[digit]
	if !ok || presses <= 0 {
		return 0, false
	}
	runes := []rune(letters)
	return runes[(presses-1)%len(runes)], true
}
