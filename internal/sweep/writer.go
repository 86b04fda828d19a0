// internal/sweep/writer.go
package sweep

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ArtifactName is the file name of a group's persisted statistics.
func ArtifactName(group string) string {
	return fmt.Sprintf("statistics-%s.json", group)
}

// ArtifactWriter persists the artifact of a finished sweep.
type ArtifactWriter interface {
	Write(group string, artifact *Artifact) (string, error)
}

// FileWriter writes artifacts into Dir, replacing any previous file of the
// same group. The target is replaced by rename, so it is never half-written.
type FileWriter struct {
	Dir string
}

// Path is where the artifact of group is written.
func (w FileWriter) Path(group string) string {
	return filepath.Join(w.Dir, ArtifactName(group))
}

// Write serializes artifact and atomically moves it into place.
func (w FileWriter) Write(group string, artifact *Artifact) (string, error) {
	dir := w.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".statistics-*.json.tmp")
	if err != nil {
		return "", fmt.Errorf("error creating temporary artifact: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return "", fmt.Errorf("error setting artifact permissions: %w", err)
	}

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(artifact); err != nil {
		tmp.Close()
		return "", fmt.Errorf("error writing artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("error closing artifact: %w", err)
	}

	path := w.Path(group)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("error moving artifact into place: %w", err)
	}
	return path, nil
}
