// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor runs a command to completion and captures its output, while
// ProcessReplacer hands the current process over to the command entirely.
// Handlers choose between the two explicitly for every step they take.
package execshell
