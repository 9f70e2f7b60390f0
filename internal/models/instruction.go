package models

import (
	"fmt"
	"strings"
)

// InstructionName identifies a primitive plan step.
type InstructionName string

// Primitive instructions. Action instructions are named after their ActionKind.
const (
	InstructionFiles  InstructionName = "files"
	InstructionLoad   InstructionName = "load"
	InstructionGlob   InstructionName = "glob"
	InstructionFilter InstructionName = "filter"
)

// Instruction parameter names
const (
	ParamTargetFiles = "targetFiles"
	ParamQuery       = "query"
)

// Instruction is one immutable step of a plan. Primitive steps carry Params;
// the terminal step carries Action instead.
type Instruction struct {
	Name   InstructionName     `yaml:"name" json:"name"`
	Params map[string][]string `yaml:"params,omitempty" json:"params,omitempty"`
	Action *ActionOptions      `yaml:"action,omitempty" json:"action,omitempty"`
}

// NewInstruction creates a primitive instruction with a single parameter.
func NewInstruction(name InstructionName, param string, values []string) Instruction {
	copied := append([]string(nil), values...)
	return Instruction{Name: name, Params: map[string][]string{param: copied}}
}

// NewActionInstruction creates the terminal instruction for opts.
func NewActionInstruction(opts ActionOptions) Instruction {
	return Instruction{Name: InstructionName(opts.Kind), Action: &opts}
}

// IsTerminal reports whether the instruction hands off to an action engine.
func (i Instruction) IsTerminal() bool {
	return i.Action != nil
}

// Param returns the values of a parameter, nil when absent.
func (i Instruction) Param(name string) []string {
	return i.Params[name]
}

// String renders the instruction on one line, e.g. "glob targetFiles=[src/**/*]".
func (i Instruction) String() string {
	if i.Action != nil {
		return fmt.Sprintf("%s targetFiles=[%s] extensions=[%s] flags=[%s]",
			i.Name,
			strings.Join(i.Action.TargetFiles, " "),
			strings.Join(i.Action.Extensions, " "),
			strings.Join(i.Action.Flags, " "))
	}
	var parts []string
	for _, key := range []string{ParamTargetFiles, ParamQuery} {
		if values, ok := i.Params[key]; ok {
			parts = append(parts, fmt.Sprintf("%s=[%s]", key, strings.Join(values, " ")))
		}
	}
	if len(parts) == 0 {
		return string(i.Name)
	}
	return string(i.Name) + " " + strings.Join(parts, " ")
}
