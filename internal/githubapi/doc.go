// Package githubapi is a small client for the hosting service's JSON API:
// repository search, fork network listing and fork requests.
package githubapi
