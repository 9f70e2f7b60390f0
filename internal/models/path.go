package models

import (
	"bufio"
	"io"
	"strings"
)

// LoadMarker is the reserved tag marking a path as a list file to expand.
const LoadMarker = "@load"

// PathInfo is a file path plus the free-form tags attached to it.
// Written flat as "path;tag1 tag2".
type PathInfo struct {
	Path string   `yaml:"path" json:"path"`
	Tags []string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// ParsePathInfo parses a flat "path;tag1 tag2" string. The path is trimmed,
// tags are split on whitespace. A string without ';' has no tags.
func ParsePathInfo(line string) PathInfo {
	path, rest, found := strings.Cut(line, ";")
	info := PathInfo{Path: strings.TrimSpace(path)}
	if found {
		info.Tags = strings.Fields(rest)
	}
	return info
}

// String renders the flat form accepted by ParsePathInfo.
func (p PathInfo) String() string {
	if len(p.Tags) == 0 {
		return p.Path
	}
	return p.Path + ";" + strings.Join(p.Tags, " ")
}

// HasTag reports whether tag is one of the entry's tags.
func (p PathInfo) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// IsLoadList reports whether the entry names a list file rather than a target.
func (p PathInfo) IsLoadList() bool {
	return p.HasTag(LoadMarker)
}

// Paths returns the path of every entry, in order.
func Paths(infos []PathInfo) []string {
	paths := make([]string, 0, len(infos))
	for _, info := range infos {
		paths = append(paths, info.Path)
	}
	return paths
}

// DedupeByPath keeps the first entry seen for each path.
func DedupeByPath(infos []PathInfo) []PathInfo {
	seen := make(map[string]bool, len(infos))
	out := make([]PathInfo, 0, len(infos))
	for _, info := range infos {
		if seen[info.Path] {
			continue
		}
		seen[info.Path] = true
		out = append(out, info)
	}
	return out
}

// ParsePathList reads list-file lines: one entry per line, blank lines and
// lines starting with '#' ignored.
func ParsePathList(r io.Reader) ([]PathInfo, error) {
	var infos []PathInfo
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		infos = append(infos, ParsePathInfo(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return infos, nil
}
