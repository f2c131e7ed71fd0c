// Package ui collects the export cutoff date from the operator.
//
// Two [Prompter] implementations share the same parsing ([shared.ParseCutoff]) and error texts:
//  1. [LinePrompt] : a plain read-line loop for pipes and redirected input
//  2. [TerminalPrompt] : an inline bubbletea program with a bubbles textinput limited to 6 characters
//
// Both re-prompt on malformed input until a valid date is entered. The line prompt only gives up
// when its input ends; the terminal prompt also stops on Ctrl+C or Esc and returns [shared.ErrCancelled].
package ui
