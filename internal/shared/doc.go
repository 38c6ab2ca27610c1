// Package shared defines the contracts command packages depend on and the
// helpers they have in common.
package shared
