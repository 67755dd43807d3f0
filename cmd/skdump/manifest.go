package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bsm/sktable/sink"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Manifest describes a batch export.
//
//	sink:
//	  kind: leveldb
//	  path: out/dict.ldb
//	strip: true
//	tables:
//	  - config: words.ini
//	    columns: [ID, HEADWORD]
//	  - config: examples.ini
//	    name: samples
//	    strip: false
type Manifest struct {
	Sink   ManifestSink    `yaml:"sink"`
	Strip  bool            `yaml:"strip"`
	Tables []ManifestTable `yaml:"tables"`
}

// ManifestSink selects the export target.
type ManifestSink struct {
	Kind string `yaml:"kind"`
	Path string `yaml:"path"`
}

// ManifestTable is a single table to export.
type ManifestTable struct {
	Config  string   `yaml:"config"`
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns"`
	Strip   *bool    `yaml:"strip"`
}

// LoadManifest reads a manifest and resolves relative paths against its
// directory.
func LoadManifest(path string, logger *slog.Logger) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "manifest")
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "manifest %s", path)
	}
	if err := m.Normalize(filepath.Dir(path), logger); err != nil {
		return nil, errors.Wrapf(err, "manifest %s", path)
	}
	return &m, nil
}

// Normalize applies defaults and validates the manifest.
func (m *Manifest) Normalize(baseDir string, logger *slog.Logger) error {
	m.Sink.Kind = strings.ToLower(strings.TrimSpace(m.Sink.Kind))
	if m.Sink.Kind == "" {
		logger.Warn("manifest: no sink kind, defaulting to 'text'")
		m.Sink.Kind = "text"
	}
	if !isSinkKind(m.Sink.Kind) {
		return errors.Errorf("unknown sink kind %q", m.Sink.Kind)
	}
	if m.Sink.Path == "" && m.Sink.Kind != "text" {
		return errors.Errorf("sink %s requires a path", m.Sink.Kind)
	}
	if m.Sink.Path != "" && m.Sink.Path != "-" {
		m.Sink.Path = resolvePath(baseDir, m.Sink.Path)
	}

	if len(m.Tables) == 0 {
		return errors.New("no tables")
	}
	for i := range m.Tables {
		t := &m.Tables[i]
		if t.Config == "" {
			return errors.Errorf("table #%d has no config", i+1)
		}
		t.Config = resolvePath(baseDir, t.Config)
		if t.Strip == nil {
			strip := m.Strip
			t.Strip = &strip
		}
	}
	return nil
}

func isSinkKind(kind string) bool {
	for _, k := range sink.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func resolvePath(baseDir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(baseDir, name)
}
