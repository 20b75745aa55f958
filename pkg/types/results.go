package types

// ArtifactKind names what a create operation produced.
type ArtifactKind string

const (
	KindProject    ArtifactKind = "project"
	KindLibrary    ArtifactKind = "library"
	KindExecutable ArtifactKind = "executable"
	KindTest       ArtifactKind = "test"
)

// Placeholder is a token left in a tree after substitution.
type Placeholder struct {
	Path string `json:"path"`
	Key  string `json:"key"`
	// InName is true when the token sits in the entry name rather than its content.
	InName bool `json:"inName"`
}

// CreateResult reports what a create operation did to its destination.
type CreateResult struct {
	Kind        ArtifactKind  `json:"kind"`
	Name        string        `json:"name"`
	Destination string        `json:"destination"`
	Created     []string      `json:"created"`
	Skipped     []string      `json:"skipped"`
	Unresolved  []Placeholder `json:"unresolved,omitempty"`
}

// UpdateResult reports the outcome of a template refresh.
type UpdateResult struct {
	URL          string `json:"url"`
	ArchivePath  string `json:"archivePath"`
	TemplateRoot string `json:"templateRoot"`
	Entries      int    `json:"entries"`
	Replaced     bool   `json:"replaced"`
}
