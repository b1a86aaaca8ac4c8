// Package config resolves the parameters of a run from flags, environment
// variables, and a YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sarchlab/paxflow/pipeline"
	"github.com/sarchlab/paxflow/report"
	"github.com/sarchlab/paxflow/sim"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "PAXFLOW"

// Keys of the configuration values.
const (
	KeyNumPassengers  = "num_passengers"
	KeyArrivalRate    = "arrival_rate"
	KeyStages         = "stages"
	KeyCheckInRate    = "check_in_rate"
	KeySecurityRate   = "security_rate"
	KeyBoardingRate   = "boarding_rate"
	KeySeed           = "seed"
	KeyBins           = "bins"
	KeyParallelChunks = "parallel_chunks"
	KeyRecord         = "record"
	KeyRecordPath     = "record_path"
	KeyTrace          = "trace"
	KeyFormat         = "format"
	KeyMonitor        = "monitor"
	KeyMonitorPort    = "monitor_port"
	KeyOpenBrowser    = "open_browser"
)

var allKeys = []string{
	KeyNumPassengers, KeyArrivalRate, KeyStages,
	KeyCheckInRate, KeySecurityRate, KeyBoardingRate,
	KeySeed, KeyBins, KeyParallelChunks,
	KeyRecord, KeyRecordPath, KeyTrace, KeyFormat,
	KeyMonitor, KeyMonitorPort, KeyOpenBrowser,
}

// Config is everything a run needs.
type Config struct {
	NumPassengers int                  `mapstructure:"num_passengers" yaml:"num_passengers"`
	ArrivalRate   float64              `mapstructure:"arrival_rate" yaml:"arrival_rate"`
	Stages        []pipeline.StageSpec `mapstructure:"stages" yaml:"stages"`
	Seed          int64                `mapstructure:"seed" yaml:"seed"`

	Bins           int    `mapstructure:"bins" yaml:"bins"`
	ParallelChunks int    `mapstructure:"parallel_chunks" yaml:"parallel_chunks"`
	Record         bool   `mapstructure:"record" yaml:"record"`
	RecordPath     string `mapstructure:"record_path" yaml:"record_path,omitempty"`
	Trace          bool   `mapstructure:"trace" yaml:"trace"`
	Format         string `mapstructure:"format" yaml:"format"`
	Monitor        bool   `mapstructure:"monitor" yaml:"monitor"`
	MonitorPort    int    `mapstructure:"monitor_port" yaml:"monitor_port"`
	OpenBrowser    bool   `mapstructure:"open_browser" yaml:"open_browser"`
}

// SetDefaults registers the defaults of the optional values. Required values
// have no default.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyBins, report.DefaultBins)
	v.SetDefault(KeyParallelChunks, 0)
	v.SetDefault(KeyRecord, false)
	v.SetDefault(KeyRecordPath, "")
	v.SetDefault(KeyTrace, false)
	v.SetDefault(KeyFormat, string(report.FormatText))
	v.SetDefault(KeyMonitor, false)
	v.SetDefault(KeyMonitorPort, 0)
	v.SetDefault(KeyOpenBrowser, false)
}

// BindEnv makes every key readable from PAXFLOW_<KEY>.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	for _, key := range allKeys {
		if err := v.BindEnv(key); err != nil {
			panic(err)
		}
	}
}

// LoadDotEnv loads environment variables from the given files. Missing files
// are ignored. Variables already set in the environment are kept.
func LoadDotEnv(filenames ...string) error {
	for _, f := range filenames {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}

	return nil
}

// ReadFile merges a YAML file into v.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	return nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	if !v.IsSet(KeySeed) {
		return nil, &sim.ParameterError{
			Name:   KeySeed,
			Value:  nil,
			Reason: "is required",
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := c.applyStageRates(v); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

var stageRateKeys = []struct {
	key, stage string
}{
	{KeyCheckInRate, pipeline.StageCheckIn},
	{KeySecurityRate, pipeline.StageSecurity},
	{KeyBoardingRate, pipeline.StageBoarding},
}

// applyStageRates lets the per-stage rate keys override the rates of the
// listed stages. Without a stage list, the three rates make up the airport
// topology and all of them are required.
func (c *Config) applyStageRates(v *viper.Viper) error {
	if len(c.Stages) == 0 {
		rates := make([]float64, len(stageRateKeys))
		for i, k := range stageRateKeys {
			if !v.IsSet(k.key) {
				return &sim.ParameterError{
					Name:   k.key,
					Value:  nil,
					Reason: "is required when no stage list is given",
				}
			}

			rates[i] = v.GetFloat64(k.key)
		}

		c.Stages = pipeline.AirportStages(rates[0], rates[1], rates[2])

		return nil
	}

	for _, k := range stageRateKeys {
		if !v.IsSet(k.key) {
			continue
		}

		found := false
		for i := range c.Stages {
			if c.Stages[i].Name == k.stage {
				c.Stages[i].Rate = v.GetFloat64(k.key)
				found = true
			}
		}

		if !found {
			return &sim.ParameterError{
				Name:   k.key,
				Value:  v.Get(k.key),
				Reason: "no stage named " + k.stage,
			}
		}
	}

	return nil
}

// Validate checks every value. The returned error wraps
// sim.ErrInvalidParameter and names the offending parameter.
func (c *Config) Validate() error {
	if err := sim.CheckPositiveCount(
		KeyNumPassengers, c.NumPassengers); err != nil {
		return err
	}

	if err := sim.CheckPositiveRate(KeyArrivalRate, c.ArrivalRate); err != nil {
		return err
	}

	if len(c.Stages) == 0 {
		return &sim.ParameterError{
			Name:   KeyStages,
			Value:  c.Stages,
			Reason: "at least one stage is required",
		}
	}

	seen := make(map[string]bool)
	for i, s := range c.Stages {
		if strings.TrimSpace(s.Name) == "" || strings.ContainsAny(s.Name, " \t\n") {
			return &sim.ParameterError{
				Name:   fmt.Sprintf("stages[%d].name", i),
				Value:  s.Name,
				Reason: "must be a non-empty word",
			}
		}

		if seen[s.Name] {
			return &sim.ParameterError{
				Name:   fmt.Sprintf("stages[%d].name", i),
				Value:  s.Name,
				Reason: "is a duplicate",
			}
		}
		seen[s.Name] = true

		if err := sim.CheckPositiveRate(
			fmt.Sprintf("stages[%d].rate", i), s.Rate); err != nil {
			return err
		}
	}

	if err := report.CheckBins(KeyBins, c.Bins); err != nil {
		return err
	}

	if c.ParallelChunks < 0 {
		return &sim.ParameterError{
			Name:   KeyParallelChunks,
			Value:  c.ParallelChunks,
			Reason: "must not be negative",
		}
	}

	if _, err := report.ParseFormat(c.Format); err != nil {
		return err
	}

	if c.Trace && !c.Record {
		return &sim.ParameterError{
			Name:   KeyTrace,
			Value:  c.Trace,
			Reason: "needs " + KeyRecord,
		}
	}

	if c.MonitorPort < 0 || c.MonitorPort > 65535 {
		return &sim.ParameterError{
			Name:   KeyMonitorPort,
			Value:  c.MonitorPort,
			Reason: "must be a TCP port",
		}
	}

	return nil
}

// Params converts the configuration into the parameters of a simulation.
func (c *Config) Params() pipeline.Params {
	stages := make([]pipeline.StageSpec, len(c.Stages))
	copy(stages, c.Stages)

	return pipeline.Params{
		NumPassengers:  c.NumPassengers,
		ArrivalRate:    c.ArrivalRate,
		Stages:         stages,
		Seed:           c.Seed,
		ParallelChunks: c.ParallelChunks,
	}
}
