package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// File names shared between the expansion and build stages.
const (
	// DataFileName is the machine-generated model metadata of a project.
	DataFileName = "parameters.json"
	// ConfigFileName holds the per-project formatting rules.
	ConfigFileName = "config.ini"
	// IntermediateDirName is the working directory inside a project,
	// skipped while scanning and holding build outputs.
	IntermediateDirName = "tmp"
)

// ParameterDecl is one parameter declaration in the data file.
type ParameterDecl struct {
	Title string `json:"title"`
	Name  string `json:"name"`
	Unit  string `json:"unit"`
}

// ModelData is one model entry in the data file. Parameter values are
// kept dynamically typed until processing.
type ModelData struct {
	PartID     string         `json:"part_id"`
	Title      string         `json:"title,omitempty"`
	ModelFiles []string       `json:"model_files"`
	ImageFiles []string       `json:"image_files"`
	Parameters map[string]any `json:"parameters"`
}

// Data is the parameters.json document of one project: the component
// name, the parameter declarations, and every model with its raw
// values. It is written by the expansion stage and read by the build
// stage.
type Data struct {
	ComponentName string          `json:"component_name"`
	Parameters    []ParameterDecl `json:"parameter"`
	Models        []*ModelData    `json:"models"`
}

// LoadData reads and decodes a parameters.json file.
func LoadData(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: reading data file: %w", err)
	}
	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("catalog: decoding %s: %w", path, err)
	}
	if d.ComponentName == "" {
		return nil, fmt.Errorf("%w: %s: component_name is missing", ErrBadConfig, path)
	}
	return &d, nil
}

// Save encodes the data and writes it to path.
func (d *Data) Save(path string) error {
	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("catalog: encoding data: %w", err)
	}
	raw = append(raw, '\n')
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("catalog: writing data file: %w", err)
	}
	return nil
}
