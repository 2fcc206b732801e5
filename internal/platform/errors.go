package platform

import "fmt"

// MissingArtifactError reports an upstream input that does not exist.
type MissingArtifactError struct {
	// Kind describes the artifact, e.g. "umbrella header" or "archive".
	Kind string
	Path string
}

func (e *MissingArtifactError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Path)
}

// RequireFile returns a MissingArtifactError unless path is an existing file.
func RequireFile(kind, path string) error {
	if !fileExists(path) {
		return &MissingArtifactError{Kind: kind, Path: path}
	}
	return nil
}
