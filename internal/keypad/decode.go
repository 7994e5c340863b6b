package keypad

import (
	"strings"
	"unicode"
)

// pressBuffer accumulates consecutive presses of a single key.
type pressBuffer struct {
	key     rune
	presses int
}

// decoder carries the state of one Decode call.
type decoder struct {
	pending pressBuffer
	out     []rune
}

// commit resolves the pending presses into one output character.
func (d *decoder) commit() {
	if d.pending.presses == 0 {
		return
	}
	if ch, ok := Select(d.pending.key, d.pending.presses); ok {
		d.out = append(d.out, ch)
	}
	d.pending = pressBuffer{}
}

// step feeds one character to the decoder.
// It reports false once input must stop.
func (d *decoder) step(r rune) bool {
	switch Classify(r) {
	case ClassTerminator:
		d.commit()
		return false
	case ClassSeparator:
		d.commit()
	case ClassBackspace:
		d.commit()
		if n := len(d.out); n > 0 {
			d.out = d.out[:n-1]
		}
	case ClassDigit:
		if d.pending.presses > 0 && d.pending.key != r {
			d.commit()
		}
		d.pending.key = r
		d.pending.presses++
	}
	return true
}

// Decode translates a sequence of keypad presses into the text it spells.
// Empty or whitespace-only input yields "". Decode never fails: characters
// that are neither digits nor control characters are skipped.
func Decode(input string) string {
	if strings.TrimFunc(input, unicode.IsSpace) == "" {
		return ""
	}

	d := &decoder{out: make([]rune, 0, len(input))}
	for _, r := range input {
		if !d.step(r) {
			return string(d.out)
		}
	}
	d.commit()
	return string(d.out)
}

// DecodeBytes is like Decode but takes raw bytes. A nil slice is treated as
// absent input and yields "".
func DecodeBytes(input []byte) string {
	if input == nil {
		return ""
	}
	return Decode(string(input))
}
