// Package config loads the two configuration surfaces a run needs: the
// whitespace-delimited MapReduce job parameters and the YAML artifact
// paths file.
package config

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// MRConfig is the job-sizing configuration read from the whitespace
// key-value file: chunking, replication, slot counts and the master
// host name.
type MRConfig struct {
	Reduces      int
	ChunkSizeMB  float64
	InputChunks  int
	DFSReplicas  int
	MapOutputPct float64
	MapCost      float64
	ReduceCost   float64
	MapSlots     int
	ReduceSlots  int
	Master       string
}

// ParseMRConfig reads "key value" pairs, one per line, blank lines and
// lines starting with # ignored. Every recognized key has a numeric or
// string value; an unrecognized key is a fatal error, matching the
// original's read_mr_config_file behavior.
func ParseMRConfig(r io.Reader) (MRConfig, error) {
	cfg := MRConfig{}
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return cfg, errors.Errorf("config: malformed line %q", line)
		}
		key, val := fields[0], fields[1]

		var err error
		switch key {
		case "reduces":
			cfg.Reduces, err = strconv.Atoi(val)
		case "chunk_size":
			cfg.ChunkSizeMB, err = strconv.ParseFloat(val, 64)
		case "input_chunks":
			cfg.InputChunks, err = strconv.Atoi(val)
		case "dfs_replicas":
			cfg.DFSReplicas, err = strconv.Atoi(val)
		case "map_output":
			cfg.MapOutputPct, err = strconv.ParseFloat(val, 64)
		case "map_cost":
			cfg.MapCost, err = strconv.ParseFloat(val, 64)
		case "reduce_cost":
			cfg.ReduceCost, err = strconv.ParseFloat(val, 64)
		case "map_slots":
			cfg.MapSlots, err = strconv.Atoi(val)
		case "reduce_slots":
			cfg.ReduceSlots, err = strconv.Atoi(val)
		case "master":
			cfg.Master = val
		default:
			return cfg, errors.Errorf("config: unknown property %q", key)
		}
		if err != nil {
			return cfg, errors.Wrapf(err, "config: bad value for %q", key)
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, errors.Wrap(err, "config: reading job config")
	}

	return cfg, nil
}

// ChunkSizeBytes converts the configured chunk size from MB to bytes,
// matching the original's chunk_size MB -> bytes conversion at load
// time.
func (c MRConfig) ChunkSizeBytes() float64 {
	return c.ChunkSizeMB * 1024 * 1024
}
