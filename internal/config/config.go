// Package config loads the YAML file that declares named sources for the
// tabsrc command.
//
//	sources:
//	  - name: people
//	    kind: sqlite
//	    path: people.db
//	    query: SELECT * FROM people
//	    subtypes:
//	      age: Int
//	  - name: events
//	    kind: file
//	    path: events.csv
//	    drop: [internal_id]
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Kind selects the adapter behind a source.
type Kind string

const (
	KindSQLite Kind = "sqlite"
	KindFile   Kind = "file"
)

// ErrSourceNotFound is returned by Lookup for undeclared names.
var ErrSourceNotFound = errors.New("source not declared")

// Config is the top-level document.
type Config struct {
	Sources []SourceConfig `yaml:"sources"`
}

// SourceConfig declares one source.
type SourceConfig struct {
	Name     string            `yaml:"name"`
	Kind     Kind              `yaml:"kind"`
	Path     string            `yaml:"path"`
	Query    string            `yaml:"query,omitempty"`
	Subtypes map[string]string `yaml:"subtypes,omitempty"`
	Drop     []string          `yaml:"drop,omitempty"`
	// Strict rejects conditions the in-memory filter cannot evaluate.
	Strict bool `yaml:"strict,omitempty"`
}

// Load reads and validates the file at path. Relative source paths are
// resolved against the directory containing the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i := range cfg.Sources {
		if p := cfg.Sources[i].Path; p != "" && !filepath.IsAbs(p) {
			cfg.Sources[i].Path = filepath.Join(dir, p)
		}
	}
	return cfg, nil
}

// Parse decodes and validates a YAML document. Unknown keys are errors;
// an empty document declares no sources.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every problem in the declared sources.
func (c *Config) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(c.Sources))

	for i, s := range c.Sources {
		where := fmt.Sprintf("sources[%d]", i)
		if s.Name == "" {
			errs = append(errs, fmt.Errorf("%s: name is required", where))
		} else {
			where = fmt.Sprintf("source %q", s.Name)
			if seen[s.Name] {
				errs = append(errs, fmt.Errorf("%s: declared more than once", where))
			}
			seen[s.Name] = true
		}

		if s.Path == "" {
			errs = append(errs, fmt.Errorf("%s: path is required", where))
		}

		switch s.Kind {
		case KindSQLite:
			if s.Query == "" {
				errs = append(errs, fmt.Errorf("%s: sqlite sources need a query", where))
			}
		case KindFile:
			if s.Query != "" {
				errs = append(errs, fmt.Errorf("%s: file sources cannot have a query", where))
			}
		default:
			errs = append(errs, fmt.Errorf("%s: unknown kind %q (want %s or %s)", where, s.Kind, KindSQLite, KindFile))
		}
	}

	return errors.Join(errs...)
}

// Lookup returns the source declared under name.
func (c *Config) Lookup(name string) (SourceConfig, error) {
	for _, s := range c.Sources {
		if s.Name == name {
			return s, nil
		}
	}
	return SourceConfig{}, fmt.Errorf("%w: %q", ErrSourceNotFound, name)
}
