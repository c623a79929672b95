package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Dataset is the on-disk shape of chart inputs. JSON files load as well,
// since YAML is a superset.
type Dataset struct {
	EventTypes []EventType `yaml:"eventTypes" json:"eventTypes"`
	Events     []Record    `yaml:"events" json:"events"`
	Lines      []Record    `yaml:"lines" json:"lines"`
}

// LoadDataset reads a dataset file.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	return ParseDataset(data)
}

// ParseDataset decodes a YAML or JSON dataset.
func ParseDataset(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	return &ds, nil
}
