package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/mattn/go-isatty"
)

const (
	menuHeaderTemplateConstant        = "%s\n"
	menuItemTemplateConstant          = "%d. %s\n"
	menuPromptConstant                = "? "
	menuInvalidChoiceTemplateConstant = "You must choose one of the listed items (1-%d).\n"
	lineDelimiterConstant             = '\n'
	finderPromptConstant              = "> "
)

var annotationSuffixPattern = regexp.MustCompile(`\s+#.*$`)

// FinderFunc chooses one of count items rendered by itemLabel. It returns fuzzyfinder.ErrAbort on cancellation.
type FinderFunc func(count int, itemLabel func(index int) string, header string) (int, error)

// Selector presents candidates and returns the chosen one without its "# ..." annotation.
type Selector struct {
	reader      *bufio.Reader
	writer      io.Writer
	interactive bool
	find        FinderFunc
}

// NewTerminalSelector uses a fuzzy finder when input is a terminal and a numbered menu otherwise.
func NewTerminalSelector(input *os.File, output io.Writer) *Selector {
	selector := NewMenuSelector(input, output)
	if input != nil && (isatty.IsTerminal(input.Fd()) || isatty.IsCygwinTerminal(input.Fd())) {
		selector.interactive = true
		selector.find = findWithFuzzyFinder
	}
	return selector
}

// NewMenuSelector reads a numbered menu choice from input.
func NewMenuSelector(input io.Reader, output io.Writer) *Selector {
	if output == nil {
		output = io.Discard
	}
	return &Selector{reader: bufio.NewReader(input), writer: output}
}

// NewFinderSelector uses the provided finder for every selection.
func NewFinderSelector(find FinderFunc) *Selector {
	return &Selector{writer: io.Discard, interactive: true, find: find}
}

// Select returns the chosen candidate. The boolean is false when the user aborts or input ends.
func (selector *Selector) Select(executionContext context.Context, header string, candidates []string) (string, bool, error) {
	if len(candidates) == 0 {
		return "", false, nil
	}
	if contextError := executionContext.Err(); contextError != nil {
		return "", false, contextError
	}

	var chosen string
	var found bool
	var selectionError error
	if selector.interactive {
		chosen, found, selectionError = selector.selectWithFinder(header, candidates)
	} else {
		chosen, found, selectionError = selector.selectFromMenu(header, candidates)
	}
	if selectionError != nil || !found {
		return "", false, selectionError
	}
	return StripAnnotation(chosen), true, nil
}

// StripAnnotation removes a trailing " # comment" from a candidate line.
func StripAnnotation(candidate string) string {
	return annotationSuffixPattern.ReplaceAllString(candidate, "")
}

func (selector *Selector) selectWithFinder(header string, candidates []string) (string, bool, error) {
	index, findError := selector.find(len(candidates), func(index int) string { return candidates[index] }, header)
	if findError != nil {
		if errors.Is(findError, fuzzyfinder.ErrAbort) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("select candidate: %w", findError)
	}
	if index < 0 || index >= len(candidates) {
		return "", false, nil
	}
	return candidates[index], true, nil
}

func (selector *Selector) selectFromMenu(header string, candidates []string) (string, bool, error) {
	if len(strings.TrimSpace(header)) > 0 {
		if _, writeError := fmt.Fprintf(selector.writer, menuHeaderTemplateConstant, header); writeError != nil {
			return "", false, writeError
		}
	}
	for index, candidate := range candidates {
		if _, writeError := fmt.Fprintf(selector.writer, menuItemTemplateConstant, index+1, candidate); writeError != nil {
			return "", false, writeError
		}
	}

	for {
		if _, writeError := io.WriteString(selector.writer, menuPromptConstant); writeError != nil {
			return "", false, writeError
		}
		response, readError := selector.reader.ReadString(lineDelimiterConstant)
		if readError != nil && !errors.Is(readError, io.EOF) {
			return "", false, readError
		}
		if chosen, matched := matchMenuResponse(strings.TrimSpace(response), candidates); matched {
			return chosen, true, nil
		}
		if errors.Is(readError, io.EOF) {
			return "", false, nil
		}
		if _, writeError := fmt.Fprintf(selector.writer, menuInvalidChoiceTemplateConstant, len(candidates)); writeError != nil {
			return "", false, writeError
		}
	}
}

func matchMenuResponse(response string, candidates []string) (string, bool) {
	if len(response) == 0 {
		return "", false
	}
	if number, parseError := strconv.Atoi(response); parseError == nil {
		if number >= 1 && number <= len(candidates) {
			return candidates[number-1], true
		}
		return "", false
	}
	for _, candidate := range candidates {
		if StripAnnotation(candidate) == response {
			return candidate, true
		}
	}
	return "", false
}

func findWithFuzzyFinder(count int, itemLabel func(index int) string, header string) (int, error) {
	indexes := make([]int, count)
	for index := range indexes {
		indexes[index] = index
	}
	return fuzzyfinder.Find(
		indexes,
		func(index int) string { return itemLabel(index) },
		fuzzyfinder.WithHeader(header),
		fuzzyfinder.WithPromptString(finderPromptConstant),
	)
}
