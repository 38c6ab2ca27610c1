// Package repos clones hosted repositories, optionally picking one from a
// search, and forks them under the caller's account.
package repos
