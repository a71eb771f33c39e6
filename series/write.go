package series

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/ini.v1"

	catalog "github.com/LuckyResistor/3d-model-catalog-generator"
)

// WriteProject writes the expansion results into the project
// directory. parameters.json is a generated artifact and always
// rewritten; config.ini is only created when missing, so formatting
// rules tuned by hand survive a re-expansion.
func (e *Expander) WriteProject(exp *Expansion) error {
	dataPath := filepath.Join(exp.Dir, catalog.DataFileName)
	if err := exp.Data.Save(dataPath); err != nil {
		return fmt.Errorf("series: %w", err)
	}
	e.log.Info("wrote parameter data",
		zap.String("file", dataPath),
		zap.Int("models", len(exp.Data.Models)))

	configPath := filepath.Join(exp.Dir, catalog.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil {
		e.log.Debug("keeping existing configuration", zap.String("file", configPath))
		return nil
	}
	if err := writeConfig(configPath, exp); err != nil {
		return err
	}
	e.log.Info("wrote configuration", zap.String("file", configPath))
	return nil
}

// writeConfig emits the initial config.ini of a project.
func writeConfig(path string, exp *Expansion) error {
	cfg := ini.Empty()
	main := cfg.Section("main")
	main.Key("title").SetValue(exp.Info.Title)
	main.Key("parameter_order").SetValue(strings.Join(exp.ParameterOrder, " "))
	main.Key("primary_group").SetValue(exp.PrimaryGroup)
	main.Key("title_image").SetValue(exp.TitleImage)
	main.Key("table_columns").SetValue(strconv.Itoa(exp.TableColumns))

	if len(exp.Recommendations) > 0 {
		section := cfg.Section("recommendations")
		for _, rec := range catalog.OrderRecommendations(exp.Recommendations) {
			section.Key(rec.Key).SetValue(rec.Value)
		}
	}
	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("series: writing %s: %w", path, err)
	}
	return nil
}
