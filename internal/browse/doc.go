// Package browse opens the project's pages on the hosting service and lists
// its fork network.
package browse
