package models

import (
	"errors"
	"fmt"
)

// ErrUnknownFlag is returned when an action receives a flag outside its recognised set.
var ErrUnknownFlag = errors.New("unknown action flag")

// ActionKind names a terminal action.
type ActionKind string

const (
	ActionLint     ActionKind = "lint"
	ActionTest     ActionKind = "test"
	ActionMarkdown ActionKind = "markdown"
)

// Action flags
const (
	FlagNoGlobInputPaths = "globInputPaths:false" // inputs were already discovered
	FlagAimCheck         = "aim:check"
	FlagAimFix           = "aim:fix"
	FlagAimCI            = "aim:ci"
	FlagAimUnit          = "aim:unit"
	FlagAimCoverage      = "aim:coverage"
)

var recognisedFlags = map[ActionKind]map[string]bool{
	ActionLint: {
		FlagNoGlobInputPaths: true,
		FlagAimCheck:         true,
		FlagAimFix:           true,
		FlagAimCI:            true,
	},
	ActionTest: {
		FlagNoGlobInputPaths: true,
		FlagAimUnit:          true,
		FlagAimCoverage:      true,
		FlagAimCI:            true,
	},
	ActionMarkdown: {
		FlagNoGlobInputPaths: true,
		FlagAimCheck:         true,
		FlagAimFix:           true,
		FlagAimCI:            true,
	},
}

// ActionOptions are the parameters of the terminal instruction.
// Values are copied on construction and never modified afterwards.
type ActionOptions struct {
	Kind        ActionKind `yaml:"kind" json:"kind"`
	TargetFiles []string   `yaml:"targetFiles" json:"targetFiles"`
	Extensions  []string   `yaml:"extensions" json:"extensions"`
	Flags       []string   `yaml:"flags" json:"flags"`
}

// NewLintOptions returns lint options carrying the given flags.
func NewLintOptions(flags ...string) (ActionOptions, error) {
	return newActionOptions(ActionLint, flags)
}

// NewTestOptions returns test options carrying the given flags.
func NewTestOptions(flags ...string) (ActionOptions, error) {
	return newActionOptions(ActionTest, flags)
}

// NewMarkdownOptions returns markdown options carrying the given flags.
func NewMarkdownOptions(flags ...string) (ActionOptions, error) {
	return newActionOptions(ActionMarkdown, flags)
}

// NewActionOptions dispatches to the constructor of kind.
func NewActionOptions(kind ActionKind, flags ...string) (ActionOptions, error) {
	if _, ok := recognisedFlags[kind]; !ok {
		return ActionOptions{}, fmt.Errorf("unknown action %q", kind)
	}
	return newActionOptions(kind, flags)
}

func newActionOptions(kind ActionKind, flags []string) (ActionOptions, error) {
	allowed := recognisedFlags[kind]
	for _, flag := range flags {
		if !allowed[flag] {
			return ActionOptions{}, fmt.Errorf("%w %q for %s", ErrUnknownFlag, flag, kind)
		}
	}
	return ActionOptions{
		Kind:        kind,
		TargetFiles: []string{},
		Extensions:  []string{},
		Flags:       append([]string{}, flags...),
	}, nil
}

// WithTargets returns a copy of the options with the given discovery inputs.
func (o ActionOptions) WithTargets(targetFiles, extensions []string) ActionOptions {
	o.TargetFiles = append([]string{}, targetFiles...)
	o.Extensions = append([]string{}, extensions...)
	o.Flags = append([]string{}, o.Flags...)
	return o
}

// WithLeadingFlag returns a copy with flag placed before the existing flags.
func (o ActionOptions) WithLeadingFlag(flag string) ActionOptions {
	flags := make([]string, 0, len(o.Flags)+1)
	flags = append(flags, flag)
	for _, f := range o.Flags {
		if f != flag {
			flags = append(flags, f)
		}
	}
	o.TargetFiles = append([]string{}, o.TargetFiles...)
	o.Extensions = append([]string{}, o.Extensions...)
	o.Flags = flags
	return o
}

// HasFlag reports whether flag is set.
func (o ActionOptions) HasFlag(flag string) bool {
	for _, f := range o.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// AutoDiscover reports whether the engine must find its own inputs.
func (o ActionOptions) AutoDiscover() bool {
	return !o.HasFlag(FlagNoGlobInputPaths)
}
