// Command mrsg runs a single MapReduce simulation job end to end: load
// a platform description and job configuration, distribute chunks,
// drive the simulation kernel to quiescence, and report statistics.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"mrsg/internal/bootstrap"
	"mrsg/internal/config"
	"mrsg/internal/metrics"
	"mrsg/internal/mrlog"

	"mrsg/cmd/mrsg/wordcount"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		platformFile string
		configFile   string
		pathsFile    string
		seed         int64
		logLevel     string
		workload     string
		keysPerByte  float64
	)

	cmd := &cobra.Command{
		Use:   "mrsg",
		Short: "Discrete-event simulator of a MapReduce cluster",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(platformFile, configFile, pathsFile, seed, logLevel, workload, keysPerByte)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&platformFile, "platform", "", "platform YAML file (master + worker hosts)")
	flags.StringVar(&configFile, "config", "", "MapReduce job config file")
	flags.StringVar(&pathsFile, "paths", "", "artifact paths YAML file (output directory)")
	flags.Int64Var(&seed, "seed", bootstrap.FixedSeed, "RNG seed (defaults to the reproducible fixed seed)")
	flags.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.StringVar(&workload, "workload", "default", "cost-model workload: default or wordcount")
	flags.Float64Var(&keysPerByte, "keys-per-byte", 0.1, "wordcount workload: distinct keys produced per input byte")

	cmd.MarkFlagRequired("platform")
	cmd.MarkFlagRequired("config")
	cmd.MarkFlagRequired("paths")

	return cmd
}

func run(platformFile, configFile, pathsFile string, seed int64, logLevel, workload string, keysPerByte float64) error {
	log, err := mrlog.New(logLevel)
	if err != nil {
		return errors.Wrap(err, "constructing logger")
	}
	defer log.Sync() //nolint:errcheck

	plat, err := config.LoadPlatform(platformFile)
	if err != nil {
		return err
	}

	f, err := os.Open(configFile)
	if err != nil {
		return errors.Wrapf(err, "opening config file %q", configFile)
	}
	mrCfg, err := config.ParseMRConfig(f)
	f.Close()
	if err != nil {
		return err
	}

	paths, err := config.LoadPaths(pathsFile)
	if err != nil {
		return err
	}

	built, err := bootstrap.Build(bootstrap.Platform{MasterName: plat.MasterName, Workers: plat.Workers}, mrCfg)
	if err != nil {
		return err
	}
	if seed != bootstrap.FixedSeed {
		built.Rng = newSeededRNG(seed)
	}

	switch workload {
	case "", "default":
	case "wordcount":
		params := wordcount.Params{
			ChunkSizeBytes:   mrCfg.ChunkSizeBytes(),
			FlopsPerByte:     mrCfg.MapCost,
			ReduceFlopsPerKV: mrCfg.ReduceCost,
			KeysPerByte:      keysPerByte,
			NumberOfMaps:     mrCfg.InputChunks,
			NumberOfReduces:  mrCfg.Reduces,
		}
		built.TaskCostF = wordcount.TaskCostF(params)
		built.MapOutputF = wordcount.MapOutputF(params)
	default:
		return errors.Errorf("unknown workload %q (want \"default\" or \"wordcount\")", workload)
	}

	result, err := bootstrap.Run(built, bootstrap.Platform{MasterName: plat.MasterName, Workers: plat.Workers}, paths.Output, log)
	if err != nil {
		return err
	}

	log.Infow("simulation complete",
		"run_id", result.RunID,
		"map_local", result.Stats.MapLocal,
		"map_remote", result.Stats.MapRemote,
		"map_spec_local", result.Stats.MapSpecL,
		"map_spec_remote", result.Stats.MapSpecR,
		"reduce_normal", result.Stats.ReduceNormal,
		"reduce_spec", result.Stats.ReduceSpec,
	)

	return writeStatsSnapshot(paths.Output, result)
}

// writeStatsSnapshot renders the run's final stats through the
// Prometheus text exposition format into <output>/<run_id>-stats.prom,
// giving embedders a scrape-free artifact alongside the log banner.
func writeStatsSnapshot(outputDir string, result bootstrap.RunResult) error {
	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg, result.RunID)
	if err != nil {
		return errors.Wrap(err, "registering stats collector")
	}
	collector.Set(result.Stats)

	families, err := reg.Gather()
	if err != nil {
		return errors.Wrap(err, "gathering stats")
	}

	statsPath := filepath.Join(outputDir, fmt.Sprintf("%s-stats.prom", result.RunID))
	f, err := os.Create(statsPath)
	if err != nil {
		return errors.Wrap(err, "creating stats snapshot file")
	}
	defer f.Close()

	enc := expfmt.NewEncoder(f, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return errors.Wrap(err, "writing stats snapshot")
		}
	}
	return nil
}

func newSeededRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
