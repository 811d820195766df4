package model

// MappingEntry associates a single file with the regular expression used to
// locate its current version string. The pattern must declare exactly one
// capturing group holding the version substring.
type MappingEntry struct {
	// File is the path of the text file to rewrite. Relative paths are
	// resolved against the project directory by the project loader.
	File string `json:"file" yaml:"file"`

	// Pattern is the regular expression source, e.g. `version: (\d+\.\d+\.\d+)`.
	Pattern string `json:"pattern" yaml:"pattern"`
}

// VersionMapping is the ordered list of file → pattern entries from the
// project's `versionMapping` context property. Order is the order in which
// the entries were declared in the project file.
type VersionMapping struct {
	Entries []MappingEntry `json:"entries"`
}

// Len returns the number of mapping entries.
func (m VersionMapping) Len() int {
	return len(m.Entries)
}

// IsEmpty reports whether the mapping has no entries.
func (m VersionMapping) IsEmpty() bool {
	return len(m.Entries) == 0
}

// Add appends an entry, replacing the pattern in place if the file is
// already mapped.
func (m *VersionMapping) Add(file, pattern string) {
	for i := range m.Entries {
		if m.Entries[i].File == file {
			m.Entries[i].Pattern = pattern
			return
		}
	}
	m.Entries = append(m.Entries, MappingEntry{File: file, Pattern: pattern})
}

// ProjectMetadata is the project information the host CLI resolved for the
// current invocation (typically loaded from quickgo.yaml).
type ProjectMetadata struct {
	// Name is the project name from the project file.
	Name string `json:"name"`

	// Dir is the absolute path of the project directory.
	Dir string `json:"dir"`

	// ConfigFile is the absolute path of the project file that was loaded.
	ConfigFile string `json:"configFile"`

	// Context holds the free-form `context` bag of the project file.
	Context map[string]any `json:"context,omitempty"`

	// VersionMapping is the ordered `context.versionMapping` property.
	// Empty when the project does not configure one.
	VersionMapping VersionMapping `json:"versionMapping"`
}
