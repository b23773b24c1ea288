package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Paths is where a run reads its platform/input files from and writes
// its log artifacts to. Generalized from the teacher's package-level
// Config map into an explicit value loaded once by the CLI entry point,
// rather than a side effect of package init.
type Paths struct {
	Platform string            `yaml:"platform"`
	Input    string            `yaml:"input"`
	Output   string            `yaml:"output"`
	Extra    map[string]string `yaml:"extra,omitempty"`
}

// LoadPaths reads a YAML document of the shape:
//
//	paths:
//	  platform: ./platform.xml
//	  input: ./input
//	  output: ./out
func LoadPaths(file string) (Paths, error) {
	var doc struct {
		Paths Paths `yaml:"paths"`
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return Paths{}, errors.Wrapf(err, "reading paths file %q", file)
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Paths{}, errors.Wrapf(err, "parsing paths file %q", file)
	}
	return doc.Paths, nil
}
