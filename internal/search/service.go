package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/temirov/github-gem/internal/shared"
)

const (
	usageMessageConstant           = "Usage: github search [query]"
	noResultsMessageConstant       = "No results found\n"
	resultTemplateConstant         = "%s\n"
	searchFailureTemplateConstant  = "search repositories: %w"
	writeFailureTemplateConstant   = "write search results: %w"
	searcherMissingMessageConstant = "search service repository searcher not configured"
)

// ErrRepositorySearcherNotConfigured indicates the service was constructed without a repository searcher.
var ErrRepositorySearcherNotConfigured = errors.New(searcherMissingMessageConstant)

// Service prints repository search results.
type Service struct {
	searcher shared.RepositorySearcher
}

// NewService constructs a Service.
func NewService(searcher shared.RepositorySearcher) (*Service, error) {
	if searcher == nil {
		return nil, ErrRepositorySearcherNotConfigured
	}
	return &Service{searcher: searcher}, nil
}

// Search writes username/name for every repository matching terms, in response order.
func (service *Service) Search(executionContext context.Context, terms []string, writer io.Writer) error {
	if len(strings.TrimSpace(strings.Join(terms, ""))) == 0 {
		return shared.UsageError{Message: usageMessageConstant}
	}

	repositories, searchError := service.searcher.SearchRepositories(executionContext, terms)
	if searchError != nil {
		return fmt.Errorf(searchFailureTemplateConstant, searchError)
	}

	var builder strings.Builder
	if len(repositories) == 0 {
		builder.WriteString(noResultsMessageConstant)
	}
	for _, repository := range repositories {
		builder.WriteString(fmt.Sprintf(resultTemplateConstant, repository.FullName()))
	}
	if _, writeError := io.WriteString(writer, builder.String()); writeError != nil {
		return fmt.Errorf(writeFailureTemplateConstant, writeError)
	}
	return nil
}
