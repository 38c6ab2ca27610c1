package ui_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/stretchr/testify/require"

	"github.com/temirov/github-gem/internal/ui"
)

var testSearchCandidates = []string{
	"defunkt/github-gem         # The official `github` command line helper for simplifying your GitHub experience.",
	"pjhyett/github-gem-builder # The scripts used to build RubyGems on GitHub",
}

func TestMenuSelector(testInstance *testing.T) {
	testCases := []struct {
		name           string
		input          string
		expectedChoice string
		expectFound    bool
	}{
		{name: "number", input: "2\n", expectedChoice: "pjhyett/github-gem-builder", expectFound: true},
		{name: "name", input: "defunkt/github-gem\n", expectedChoice: "defunkt/github-gem", expectFound: true},
		{name: "retry_after_invalid", input: "7\n1\n", expectedChoice: "defunkt/github-gem", expectFound: true},
		{name: "number_without_newline", input: "1", expectedChoice: "defunkt/github-gem", expectFound: true},
		{name: "end_of_input", input: "", expectFound: false},
		{name: "invalid_then_end_of_input", input: "nope\n", expectFound: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			var output bytes.Buffer
			selector := ui.NewMenuSelector(strings.NewReader(testCase.input), &output)

			choice, found, selectError := selector.Select(context.Background(), "Select a repository to clone", testSearchCandidates)
			require.NoError(testInstance, selectError)
			require.Equal(testInstance, testCase.expectFound, found)
			require.Equal(testInstance, testCase.expectedChoice, choice)
			require.True(testInstance, strings.HasPrefix(output.String(), "Select a repository to clone\n1. defunkt/github-gem"))
		})
	}
}

func TestFinderSelector(testInstance *testing.T) {
	testCases := []struct {
		name           string
		find           ui.FinderFunc
		expectedChoice string
		expectFound    bool
		expectError    bool
	}{
		{
			name: "chosen",
			find: func(count int, itemLabel func(int) string, header string) (int, error) {
				return 1, nil
			},
			expectedChoice: "pjhyett/github-gem-builder",
			expectFound:    true,
		},
		{
			name: "aborted",
			find: func(int, func(int) string, string) (int, error) {
				return -1, fuzzyfinder.ErrAbort
			},
		},
		{
			name: "failed",
			find: func(int, func(int) string, string) (int, error) {
				return -1, errors.New("terminal unavailable")
			},
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			selector := ui.NewFinderSelector(testCase.find)
			choice, found, selectError := selector.Select(context.Background(), "Select a repository to clone", testSearchCandidates)
			if testCase.expectError {
				require.Error(testInstance, selectError)
				return
			}
			require.NoError(testInstance, selectError)
			require.Equal(testInstance, testCase.expectFound, found)
			require.Equal(testInstance, testCase.expectedChoice, choice)
		})
	}
}

func TestSelectWithoutCandidates(testInstance *testing.T) {
	selector := ui.NewMenuSelector(strings.NewReader("1\n"), nil)
	choice, found, selectError := selector.Select(context.Background(), "header", nil)
	require.NoError(testInstance, selectError)
	require.False(testInstance, found)
	require.Empty(testInstance, choice)
}

func TestStripAnnotation(testInstance *testing.T) {
	require.Equal(testInstance, "defunkt/github-gem", ui.StripAnnotation(testSearchCandidates[0]))
	require.Equal(testInstance, "defunkt/github-gem", ui.StripAnnotation("defunkt/github-gem"))
}
