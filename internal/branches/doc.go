// Package branches fetches and pulls collaborators' branches.
//
// Fetched branches land in local user/branch branches. Arguments that do not
// name a collaborator are handed to git pull unchanged.
package branches
