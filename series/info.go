package series

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	catalog "github.com/LuckyResistor/3d-model-catalog-generator"
)

// InfoFileName is the hand-written file in each project directory
// carrying the display title and the model naming template.
const InfoFileName = "series-info.json"

// ProjectInfo is the parsed series-info.json of one project.
type ProjectInfo struct {
	// Title of the project's catalog document.
	Title string `json:"title"`

	// ModelName is a template over the expanded parameter values,
	// e.g. "Storage Box {{.width}} x {{.depth}} mm".
	ModelName string `json:"model_name"`

	nameTemplate *template.Template
}

// LoadProjectInfo reads the series-info.json of a project directory.
func LoadProjectInfo(dir string) (*ProjectInfo, error) {
	path := filepath.Join(dir, InfoFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("series: reading %s: %w", path, err)
	}
	var info ProjectInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("series: parsing %s: %w", path, err)
	}
	if info.Title == "" {
		return nil, fmt.Errorf("series: %s: %w: title is missing", path, catalog.ErrBadConfig)
	}
	if info.ModelName != "" {
		tpl, err := template.New("model_name").
			Option("missingkey=error").
			Parse(info.ModelName)
		if err != nil {
			return nil, fmt.Errorf("series: %s: %w: model_name: %v", path, catalog.ErrBadConfig, err)
		}
		info.nameTemplate = tpl
	}
	return &info, nil
}

// modelTitle renders the model naming template over the expanded
// values. Without a template the model keeps an empty title and the
// catalog shows the part ID alone.
func (info *ProjectInfo) modelTitle(values map[string]any) (string, error) {
	if info.nameTemplate == nil {
		return "", nil
	}
	var sb strings.Builder
	if err := info.nameTemplate.Execute(&sb, values); err != nil {
		return "", fmt.Errorf("series: rendering model name: %w", err)
	}
	return sb.String(), nil
}
