package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	usageBannerConstant          = "Usage: github command <space separated arguments>\n"
	availableCommandsConstant    = "Available commands:\n"
	commandLineTemplateConstant  = "  %-*s => %s\n"
	flagLineTemplateConstant     = "%s--%s: %s\n"
	commandIndentWidthConstant   = 2
	descriptionSeparatorConstant = " => "
	helpFlagNameConstant         = "help"
	indentCharacterConstant      = " "
)

// FlagDescriptor documents one flag of a command.
type FlagDescriptor struct {
	Name        string
	Description string
}

// Descriptor documents a command for the usage listing.
type Descriptor struct {
	Name        string
	Description string
	Flags       []FlagDescriptor
}

// Describe builds descriptors for the visible subcommands of root, sorted by name, each with its flags sorted by name.
func Describe(root *cobra.Command) []Descriptor {
	descriptors := []Descriptor{}
	for _, subcommand := range root.Commands() {
		if subcommand.Hidden || subcommand.Name() == helpFlagNameConstant {
			continue
		}
		descriptor := Descriptor{Name: subcommand.Name(), Description: subcommand.Short, Flags: []FlagDescriptor{}}
		subcommand.LocalNonPersistentFlags().VisitAll(func(flag *pflag.Flag) {
			if flag.Hidden || flag.Name == helpFlagNameConstant {
				return
			}
			descriptor.Flags = append(descriptor.Flags, FlagDescriptor{Name: flag.Name, Description: flag.Usage})
		})
		descriptors = append(descriptors, descriptor)
	}
	return Sort(descriptors)
}

// Sort orders descriptors and their flags by name. The input is not modified.
func Sort(descriptors []Descriptor) []Descriptor {
	sorted := make([]Descriptor, 0, len(descriptors))
	for _, descriptor := range descriptors {
		flags := append([]FlagDescriptor{}, descriptor.Flags...)
		sort.SliceStable(flags, func(leftIndex int, rightIndex int) bool {
			return flags[leftIndex].Name < flags[rightIndex].Name
		})
		descriptor.Flags = flags
		sorted = append(sorted, descriptor)
	}
	sort.SliceStable(sorted, func(leftIndex int, rightIndex int) bool {
		return sorted[leftIndex].Name < sorted[rightIndex].Name
	})
	return sorted
}

// RenderUsage writes the usage banner and the command listing.
func RenderUsage(writer io.Writer, descriptors []Descriptor) error {
	var builder strings.Builder
	builder.WriteString(usageBannerConstant)
	builder.WriteString(availableCommandsConstant)

	sorted := Sort(descriptors)
	nameWidth := 0
	for _, descriptor := range sorted {
		if len(descriptor.Name) > nameWidth {
			nameWidth = len(descriptor.Name)
		}
	}
	flagIndent := strings.Repeat(indentCharacterConstant, commandIndentWidthConstant+nameWidth+len(descriptionSeparatorConstant))

	for _, descriptor := range sorted {
		builder.WriteString(fmt.Sprintf(commandLineTemplateConstant, nameWidth, descriptor.Name, descriptor.Description))
		for _, flag := range descriptor.Flags {
			builder.WriteString(fmt.Sprintf(flagLineTemplateConstant, flagIndent, flag.Name, flag.Description))
		}
	}

	_, writeError := io.WriteString(writer, builder.String())
	return writeError
}
