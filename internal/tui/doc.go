// Package tui is the Bubble Tea front end of the terminal.
//
// The program shows a terminal panel fed by a gateway session. Ctrl+S opens
// the settings menu over it. The model is the menu's render sink and its only
// event source, so every key and every scan poll reaches the engine through
// Update, one at a time.
package tui
