// Package term provides the terminals the rain engine draws on.
//
// [Screen] drives a full-screen tcell session and also owns keyboard input.
// [ANSI] writes escape sequences to any io.Writer through termenv, redrawing
// only the cells that changed since the previous flush.
//
// Both satisfy rain.Terminal and implement the optional Init, Clear and Flush
// hooks.
package term
