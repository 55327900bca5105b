// Package hostterm connects the emulated serial line to real host terminals.
//
// Stdin is switched to a raw-ish mode: canonical input, echo and flow control
// are off so every keystroke (including ^S and ^W) reaches the console, but
// output post-processing stays on so "\n" still returns the carriage, and
// signal keys still deliver SIGINT and friends.
//
// A pseudo-terminal can also be opened; its slave path is what a user hands
// to screen, minicom or picocom.
package hostterm
