// Package ui holds the pieces that talk to the person at the terminal: the
// candidate selector used by clone --search, the browser launcher and the
// console renderer for git command events.
package ui
