// Package ui renders pairing progress in the terminal.
//
// Two front ends implement pairing.Observer:
//
//   - ProgramObserver feeds a Bubble Tea PairingModel (spinner, round
//     progress bar and one status line per bridge)
//   - TextObserver writes plain lines, for pipes, logs and --plain
//
// RunPairing wires the first one up: it starts the program, runs the
// coordinator in a goroutine and cancels it when the user quits.
//
// Zap logging is silent unless RUE_LOG_LEVEL or --log-level is set, so the
// screen is not interleaved with log lines by default.
package ui
