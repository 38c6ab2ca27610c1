// Package search lists repositories from the hosting service's search index.
package search
