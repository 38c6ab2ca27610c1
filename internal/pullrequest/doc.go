// Package pullrequest generates pull request text for a collaborator's branch.
package pullrequest
