// Package githubauth resolves the hosting-service login and token used for
// authenticated requests such as forking.
package githubauth
