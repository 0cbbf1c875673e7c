package models

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Document is a single configurator export listed in a batch plan.
type Document struct {
	Name               string `yaml:"name"`
	FilePath           string `yaml:"file"`
	QuantityConvention string `yaml:"quantity_convention,omitempty"`
	Preset             string `yaml:"preset,omitempty"`
}

// File returns the absolute path to the document, expanding ~.
func (d *Document) File() (string, error) {
	if strings.HasPrefix(d.FilePath, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, d.FilePath[2:]), nil
	}
	return d.FilePath, nil
}

// DisplayName is the plan name, falling back to the file's base name.
func (d *Document) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return strings.TrimSuffix(filepath.Base(d.FilePath), filepath.Ext(d.FilePath))
}

// Load reads the document, returning its contents and base file name.
func (d *Document) Load() ([]byte, string, error) {
	filePath, err := d.File()
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read document %s: %w", filePath, err)
	}
	return data, filepath.Base(filePath), nil
}
