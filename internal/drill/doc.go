// Package drill implements the interactive listening drill: a terminal
// user interface that reads a list of entries aloud and lets the learner
// pause, skip and mark words as mastered while it plays.
package drill
