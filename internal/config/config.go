// Package config holds GoxLang's fixed toolchain constants and the
// optional goxc.yaml project-file format.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SourceFileExt is GoxLang's conventional source extension (not
// enforced by the CLI — spec §6).
const SourceFileExt = ".gox"

// DefaultMemorySize is the VM's default linear memory size in cells,
// overridable via -mem or a project file.
const DefaultMemorySize = 1024

// MaxCallDepth is a recursion-depth figure for GoxLang function calls.
// The VM does not consult it: calls recurse on Go's own stack with no
// depth counter.
const MaxCallDepth = 4096

// Project is the optional goxc.yaml project file: per-project
// overrides for verbosity and memory sizing, so a project doesn't
// need to repeat CLI flags on every invocation.
type Project struct {
	Verbose    bool `yaml:"verbose,omitempty"`
	MemorySize int  `yaml:"memory_size,omitempty"`
	DumpIR     bool `yaml:"dump_ir,omitempty"`
}

// LoadProject reads and parses a goxc.yaml file at path. A missing
// file is not an error — it returns the zero Project, so callers fall
// back to CLI flags and built-in defaults.
func LoadProject(path string) (Project, error) {
	var p Project
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return p, fmt.Errorf("reading project file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parsing project file %s: %w", path, err)
	}
	return p, nil
}
