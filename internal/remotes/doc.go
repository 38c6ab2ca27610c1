// Package remotes implements the track and info commands: adding remotes for
// collaborators' copies of the project and listing the remotes already tracked.
package remotes
