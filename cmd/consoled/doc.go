// Package main is the entry point for consoled, a console line discipline
// daemon.
//
// consoled boots an emulated serial line, a console driver with line editing
// and history, a small process table, and a shell running on the console.
// The line can be reached from:
//   - the invoking terminal (stdin/stdout, switched to raw mode)
//   - a pseudo-terminal (-pty), for screen or minicom
//   - a websocket at /console/ws on the HTTP server
//
// Configuration:
//   - Environment variables (12-factor)
//   - An optional TOML file (-config)
//   - CLI flags (override both)
//
// Usage:
//
//	# Console on this terminal, HTTP on :8000
//	./consoled
//
//	# Paced 9600 baud line on a pty, no stdin
//	./consoled -baud 9600 -pty -no-stdin
//
//	# Development mode (colored logs, debug level)
//	./consoled -dev
//
// Editing keys at the prompt: ^H or DEL erases a character, ^U kills the
// line, ^W and ^S walk history older and newer, ^P lists processes and ^D
// ends input.
package main
