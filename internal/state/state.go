package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Artifact filenames inside the output directory. The three generated
// documents are always persisted under these exact names.
const (
	ArtifactPipeline  = "Jenkinsfile"
	ArtifactJobConfig = "pipeline_job_config.xml"
	ArtifactPlugins   = "required_plugins.xml"
)

// Snapshot filenames inside the output directory.
const (
	AnalysisFile = "repository_analysis.json"
	ContextFile  = "jenkins_context.json"
	ReportFile   = "deployment_report.json"
)

// ArtifactNames lists the three artifact filenames in their canonical order.
func ArtifactNames() []string {
	return []string{ArtifactPipeline, ArtifactJobConfig, ArtifactPlugins}
}

// ArtifactSet maps artifact filename to raw text content. A generation call
// produces a complete new set; sets are replaced, never merged.
type ArtifactSet map[string]string

// Missing returns the canonical artifact names absent or empty in the set.
func (s ArtifactSet) Missing() []string {
	var missing []string
	for _, name := range ArtifactNames() {
		if s[name] == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// EnsureDir creates the output directory.
func EnsureDir(outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output dir %s: %w", outputDir, err)
	}
	return nil
}

// SaveArtifacts writes every artifact in the set to the output directory,
// overwriting existing files. Whole-file overwrite, no merge.
func SaveArtifacts(outputDir string, set ArtifactSet) error {
	for name, content := range set {
		if err := writeFileAtomic(filepath.Join(outputDir, name), []byte(content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return nil
}

// LoadArtifacts reads whichever canonical artifacts exist in the output
// directory. Absent files are simply omitted from the returned set.
func LoadArtifacts(outputDir string) (ArtifactSet, error) {
	set := make(ArtifactSet)
	for _, name := range ArtifactNames() {
		data, err := os.ReadFile(filepath.Join(outputDir, name))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		set[name] = string(data)
	}
	return set, nil
}

// SaveJSON writes v as indented JSON to name inside the output directory.
func SaveJSON(outputDir, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	return writeFileAtomic(filepath.Join(outputDir, name), data, 0644)
}

// LoadJSON reads name from the output directory into v.
func LoadJSON(outputDir, name string, v any) error {
	data, err := os.ReadFile(filepath.Join(outputDir, name))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}
