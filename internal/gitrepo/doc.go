// Package gitrepo builds and parses hosting-service remote URLs and reads local
// repository state through git.
//
// RepositoryManager answers the questions commands ask about the current
// repository: which remotes exist, which users are tracked, whether the
// working tree is dirty and which branches exist locally.
package gitrepo
