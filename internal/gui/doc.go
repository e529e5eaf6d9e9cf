// Package gui implements the desktop listening drill: a fyne window that
// shows the entry being read, highlights the part currently spoken and
// offers play, pause, skip and mastery controls with keyboard shortcuts.
package gui
