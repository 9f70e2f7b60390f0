package models

// FileFiltering is a predicate over path and tag attributes.
// An empty field imposes no constraint; fields are ANDed, values within a field ORed.
type FileFiltering struct {
	WithPathStarting    []string `yaml:"withPathStarting,omitempty" json:"withPathStarting,omitempty"`
	WithoutPathStarting []string `yaml:"withoutPathStarting,omitempty" json:"withoutPathStarting,omitempty"`
	WithExtension       []string `yaml:"withExtension,omitempty" json:"withExtension,omitempty"`
	WithoutExtension    []string `yaml:"withoutExtension,omitempty" json:"withoutExtension,omitempty"`
	WithPathSegment     []string `yaml:"withPathSegment,omitempty" json:"withPathSegment,omitempty"`
	WithoutPathSegment  []string `yaml:"withoutPathSegment,omitempty" json:"withoutPathSegment,omitempty"`
	WithTag             []string `yaml:"withTag,omitempty" json:"withTag,omitempty"`
	WithoutTag          []string `yaml:"withoutTag,omitempty" json:"withoutTag,omitempty"`
	WithTagStarting     []string `yaml:"withTagStarting,omitempty" json:"withTagStarting,omitempty"`
	WithoutTagStarting  []string `yaml:"withoutTagStarting,omitempty" json:"withoutTagStarting,omitempty"`
}

// FileSearching is the raw user intent: explicit entries plus a predicate.
type FileSearching struct {
	PathInfos []PathInfo    `yaml:"pathInfos,omitempty" json:"pathInfos,omitempty"`
	Filtering FileFiltering `yaml:"filtering" json:"filtering"`
}
