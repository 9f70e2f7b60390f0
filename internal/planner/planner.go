// Package planner compiles a FileSearching into the ordered instruction list
// the executor runs. Planning is pure: no filesystem access, no state.
package planner

import (
	"github.com/harrison/plumb/internal/filtering"
	"github.com/harrison/plumb/internal/models"
)

// globSuffix turns a path prefix into a recursive pattern.
const globSuffix = "**/*"

// Mode classifies how inputs reach the terminal action.
type Mode int

const (
	// ModeSimple lets the action discover inputs from prefixes and extensions.
	ModeSimple Mode = iota
	// ModeExplicit starts from user-supplied entries (files and/or list files).
	ModeExplicit
	// ModeGlob expands prefixes on disk, then filters.
	ModeGlob
)

func (m Mode) String() string {
	switch m {
	case ModeSimple:
		return "simple"
	case ModeExplicit:
		return "explicit"
	case ModeGlob:
		return "glob"
	default:
		return "unknown"
	}
}

// Classify picks the planning mode for searching under policy.
func Classify(searching models.FileSearching, policy filtering.Policy) Mode {
	switch {
	case len(searching.PathInfos) > 0:
		return ModeExplicit
	case policy.HasAdvanced(searching.Filtering):
		return ModeGlob
	default:
		return ModeSimple
	}
}

// Plan returns the instructions needed to select files for action.
// The terminal action instruction is always last.
func Plan(searching models.FileSearching, action models.ActionOptions, policy filtering.Policy) []models.Instruction {
	predicate := searching.Filtering
	mode := Classify(searching, policy)

	var plan []models.Instruction
	needsFilter := false

	switch mode {
	case ModeExplicit:
		direct, lists := partition(searching.PathInfos)
		// loaded content has not been filtered yet
		needsFilter = len(lists) > 0 && !filtering.IsEmpty(predicate)
		if kept := filtering.Apply(predicate, direct); len(kept) > 0 {
			plan = append(plan, models.NewInstruction(models.InstructionFiles, models.ParamTargetFiles, fileTargets(kept, needsFilter)))
		}
		if len(lists) > 0 {
			plan = append(plan, models.NewInstruction(models.InstructionLoad, models.ParamTargetFiles, models.Paths(lists)))
		}
	case ModeGlob:
		plan = append(plan, models.NewInstruction(models.InstructionGlob, models.ParamTargetFiles, globTargets(predicate.WithPathStarting)))
		needsFilter = true
	}

	if needsFilter {
		plan = append(plan, models.NewInstruction(models.InstructionFilter, models.ParamQuery, filtering.Serialize(predicate)))
	}

	if mode == ModeSimple {
		action = action.WithTargets(predicate.WithPathStarting, predicate.WithExtension)
	} else {
		action = action.WithTargets(nil, nil).WithLeadingFlag(models.FlagNoGlobInputPaths)
	}
	return append(plan, models.NewActionInstruction(action))
}

func partition(infos []models.PathInfo) (direct, lists []models.PathInfo) {
	for _, info := range infos {
		if info.IsLoadList() {
			lists = append(lists, info)
		} else {
			direct = append(direct, info)
		}
	}
	return direct, lists
}

// fileTargets renders direct entries for a files instruction. Entries that
// still face a filter step keep their tags ("path;tag1 tag2") so the filter
// sees what the inline check saw.
func fileTargets(infos []models.PathInfo, withTags bool) []string {
	if !withTags {
		return models.Paths(infos)
	}
	targets := make([]string, 0, len(infos))
	for _, info := range infos {
		targets = append(targets, info.String())
	}
	return targets
}

// globTargets expands each prefix to a recursive pattern. Without prefixes the
// whole working directory is searched.
func globTargets(prefixes []string) []string {
	if len(prefixes) == 0 {
		return []string{globSuffix}
	}
	targets := make([]string, 0, len(prefixes))
	for _, prefix := range prefixes {
		targets = append(targets, prefix+globSuffix)
	}
	return targets
}
