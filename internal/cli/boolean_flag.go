package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	yesNoFlagType          = "bool"
	yesNoImplicitValue     = "true"
	yesNoAcceptedValues    = "yes, no, on, off, true, false, 1, 0"
	errorYesNoValueFormat  = "invalid value %q for --%s (accepted: %s)"
	errorYesNoTargetFormat = "flag --%s has no target"
	flagPrefix             = "--"
	argumentTerminator     = "--"
)

// yesNoLiterals lists every spelling accepted for a boolean flag value.
var yesNoLiterals = map[string]bool{
	"yes": true, "y": true, "on": true, "true": true, "t": true, "1": true,
	"no": false, "n": false, "off": false, "false": false, "f": false, "0": false,
}

func parseYesNo(input string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		normalized = yesNoImplicitValue
	}
	value, known := yesNoLiterals[normalized]
	return value, known
}

// yesNoValue is a pflag value for switches such as --tree that read naturally
// with a spelled-out answer: "--tree no", "--copy=on".
type yesNoValue struct {
	name   string
	target *bool
}

func (value *yesNoValue) Set(input string) error {
	if value.target == nil {
		return fmt.Errorf(errorYesNoTargetFormat, value.name)
	}
	parsed, known := parseYesNo(input)
	if !known {
		return fmt.Errorf(errorYesNoValueFormat, input, value.name, yesNoAcceptedValues)
	}
	*value.target = parsed
	return nil
}

func (value *yesNoValue) String() string {
	if value == nil || value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *yesNoValue) Type() string {
	return yesNoFlagType
}

// registerBooleanFlag adds a switch that works bare (--name) or with a yes/no value.
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	if flagSet == nil || target == nil {
		return
	}
	*target = defaultValue
	flag := flagSet.VarPF(&yesNoValue{name: name, target: target}, name, "", usage)
	flag.DefValue = strconv.FormatBool(defaultValue)
	flag.NoOptDefVal = yesNoImplicitValue
}

// normalizeBooleanFlagArguments joins "--flag value" into "--flag=value" for
// boolean flags followed by a yes/no literal, since pflag only reads attached
// values for flags that have an implicit value.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	if command == nil || len(arguments) == 0 {
		return arguments
	}
	index := newCommandIndex(command)
	if len(index.booleanFlags) == 0 {
		return arguments
	}

	normalized := make([]string, 0, len(arguments))
	for position := 0; position < len(arguments); position++ {
		argument := arguments[position]
		if argument == argumentTerminator {
			return append(normalized, arguments[position:]...)
		}
		if position+1 < len(arguments) && index.takesAnswer(argument, arguments[position+1]) {
			normalized = append(normalized, argument+"="+arguments[position+1])
			position++
			continue
		}
		normalized = append(normalized, argument)
	}
	return normalized
}

// commandIndex records the boolean flags and the subcommand names of a command tree.
type commandIndex struct {
	booleanFlags map[string]struct{}
	commandNames map[string]struct{}
}

func newCommandIndex(root *cobra.Command) commandIndex {
	index := commandIndex{booleanFlags: map[string]struct{}{}, commandNames: map[string]struct{}{}}
	index.visit(root)
	return index
}

func (index commandIndex) visit(command *cobra.Command) {
	recordBooleans := func(flag *pflag.Flag) {
		if flag.Value != nil && flag.Value.Type() == yesNoFlagType {
			index.booleanFlags[flag.Name] = struct{}{}
		}
	}
	command.PersistentFlags().VisitAll(recordBooleans)
	command.Flags().VisitAll(recordBooleans)
	for _, child := range command.Commands() {
		index.commandNames[child.Name()] = struct{}{}
		for _, alias := range child.Aliases {
			index.commandNames[alias] = struct{}{}
		}
		index.visit(child)
	}
}

// takesAnswer reports whether next is the value of the boolean flag argument.
// A subcommand name is never taken, so "--verbose t" still runs the t alias.
func (index commandIndex) takesAnswer(argument string, next string) bool {
	if !strings.HasPrefix(argument, flagPrefix) || strings.Contains(argument, "=") {
		return false
	}
	if _, isBoolean := index.booleanFlags[strings.TrimPrefix(argument, flagPrefix)]; !isBoolean {
		return false
	}
	if strings.HasPrefix(next, "-") {
		return false
	}
	if _, isCommand := index.commandNames[next]; isCommand {
		return false
	}
	_, known := parseYesNo(next)
	return known && strings.TrimSpace(next) != ""
}
