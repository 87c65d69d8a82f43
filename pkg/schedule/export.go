package schedule

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// ExportVersion is written into every export document.
const ExportVersion = 1

// ExportDocument is the YAML layout of an export file.
type ExportDocument struct {
	Version    int        `yaml:"version"`
	ExportedAt time.Time  `yaml:"exported_at"`
	Schedules  []Schedule `yaml:"schedules"`
}

// Export writes schedules to w as YAML.
func Export(w io.Writer, schedules []*Schedule, at time.Time) error {
	doc := ExportDocument{
		Version:    ExportVersion,
		ExportedAt: at.UTC(),
		Schedules:  make([]Schedule, 0, len(schedules)),
	}
	for _, sch := range schedules {
		doc.Schedules = append(doc.Schedules, *sch)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return enc.Close()
}

// ReadExport parses an export document from r.
func ReadExport(r io.Reader) (*ExportDocument, error) {
	var doc ExportDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode export: %w", err)
	}
	if doc.Version != ExportVersion {
		return nil, fmt.Errorf("unsupported export version %d", doc.Version)
	}
	return &doc, nil
}
