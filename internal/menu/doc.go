// Package menu implements the on-device settings menu.
//
// The menu is a state machine over a fixed set of screens. Every input event
// (an encoder step or press, a key, or a completed scan seen by Poll) is
// handled to completion: the engine either moves the selection, edits the
// settings working copy and saves it, or drives a text-capture prompt. After
// each event the current ScreenView is handed to the Renderer.
//
// Transitions are looked up in a table keyed by screen, event kind and the
// class of the selected row:
//
//	(Main, select, child)       -> open the child screen
//	(Display, move, adjust)     -> change brightness or theme and save
//	(WifiList, delete, network) -> remove the network and save
//	(any list, cancel, any)     -> return to the parent screen
//
// Text capture never writes to the settings before its final commit, so a
// cancel at any step leaves them untouched.
package menu
