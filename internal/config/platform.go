package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"mrsg/internal/kernel"
)

// platformDoc is the on-disk shape of a platform description: one
// named master host (no compute role) and a list of worker hosts with
// their simulated speed and bandwidth. Deployment XML/platform-file
// parsing is explicitly out of scope for this rewrite; this is a
// minimal stand-in consistent with the rest of the configuration
// surface.
type platformDoc struct {
	Master  string `yaml:"master"`
	Workers []struct {
		Name      string  `yaml:"name"`
		Speed     float64 `yaml:"speed"`
		Bandwidth float64 `yaml:"bandwidth"`
	} `yaml:"workers"`
}

// Platform is a parsed platform description: the master host's name
// (never assigned a worker role) and the worker hosts with their
// simulated speed and bandwidth.
type Platform struct {
	MasterName string
	Workers    []kernel.Host
}

// LoadPlatform reads a platform YAML file.
func LoadPlatform(file string) (Platform, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return Platform{}, errors.Wrapf(err, "reading platform file %q", file)
	}

	var doc platformDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Platform{}, errors.Wrapf(err, "parsing platform file %q", file)
	}
	if doc.Master == "" {
		return Platform{}, errors.Errorf("platform file %q: missing master host", file)
	}
	if len(doc.Workers) == 0 {
		return Platform{}, errors.Errorf("platform file %q: no worker hosts", file)
	}

	hosts := make([]kernel.Host, len(doc.Workers))
	for i, w := range doc.Workers {
		hosts[i] = kernel.Host{Name: w.Name, Speed: w.Speed, Bandwidth: w.Bandwidth}
	}

	return Platform{MasterName: doc.Master, Workers: hosts}, nil
}
