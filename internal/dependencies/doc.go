// Package dependencies supplies production collaborators to command builders
// unless a builder was given its own, which is how tests substitute fakes.
package dependencies
