package console

// Special input characters.
const (
	Backspace   = 'H' - '@' // ^H
	Delete      = 0x7f      // DEL
	KillLine    = 'U' - '@' // ^U
	EndOfFile   = 'D' - '@' // ^D
	ProcDump    = 'P' - '@' // ^P
	RecallOlder = 'W' - '@' // ^W
	RecallNewer = 'S' - '@' // ^S
)

// erase is the pseudo-character emit draws as backspace-space-backspace. It
// lies outside the byte range so it never collides with input.
const erase = 0x100

// Capacities.
const (
	InputSize   = 128
	HistorySize = 5
)
