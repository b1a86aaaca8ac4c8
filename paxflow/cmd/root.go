// Package cmd provides the command-line interface for paxflow.
package cmd

import (
	"github.com/sarchlab/paxflow/config"
	"github.com/sarchlab/paxflow/report"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tebeka/atexit"
)

var (
	cfgFile     string
	envFile     string
	verbose     bool
	logServices bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "paxflow",
	Short: "Paxflow simulates passengers queueing through an airport.",
	Long: `Paxflow generates passenger arrivals and feeds them through a ` +
		`chain of single-server queues, by default check-in, security, and ` +
		`boarding. It reports the average waiting time and the average ` +
		`total time in the airport.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return initConfig(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

var flagKeys = map[string]string{
	"num-passengers":  config.KeyNumPassengers,
	"arrival-rate":    config.KeyArrivalRate,
	"check-in-rate":   config.KeyCheckInRate,
	"security-rate":   config.KeySecurityRate,
	"boarding-rate":   config.KeyBoardingRate,
	"seed":            config.KeySeed,
	"bins":            config.KeyBins,
	"parallel-chunks": config.KeyParallelChunks,
	"record":          config.KeyRecord,
	"record-path":     config.KeyRecordPath,
	"trace":           config.KeyTrace,
	"format":          config.KeyFormat,
	"monitor":         config.KeyMonitor,
	"monitor-port":    config.KeyMonitorPort,
	"open-browser":    config.KeyOpenBrowser,
}

func init() {
	f := rootCmd.PersistentFlags()

	f.StringVar(&cfgFile, "config", "", "YAML config file")
	f.StringVar(&envFile, "env-file", ".env",
		"file with PAXFLOW_ environment variables")
	f.BoolVarP(&verbose, "verbose", "v", false, "log per-stage traces")
	f.BoolVar(&logServices, "log-services", false,
		"log every service a stage performs")

	f.Int("num-passengers", 0, "number of passengers")
	f.Float64("arrival-rate", 0, "arrivals per minute")
	f.Float64("check-in-rate", 0, "check-in services per minute")
	f.Float64("security-rate", 0, "security services per minute")
	f.Float64("boarding-rate", 0, "boarding services per minute")
	f.Int64("seed", 0, "random seed")
	f.Int("bins", report.DefaultBins, "histogram bins")
	f.Int("parallel-chunks", 0,
		"serve each stage as a parallel scan over this many chunks")
	f.Bool("record", false, "record the run into a SQLite file")
	f.String("record-path", "",
		"database name, without the .sqlite3 extension")
	f.Bool("trace", false, "also record queue and service tasks")
	f.String("format", string(report.FormatText), "text, json, or yaml")
	f.Bool("monitor", false, "serve the results over HTTP after the run")
	f.Int("monitor-port", 0, "port of the monitoring server")
	f.Bool("open-browser", false, "open the monitoring page")

	f.VisitAll(func(flag *pflag.Flag) {
		key, ok := flagKeys[flag.Name]
		if !ok {
			return
		}

		if err := viper.BindPFlag(key, flag); err != nil {
			panic(err)
		}
	})
}

func initConfig(_ *cobra.Command) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	v := viper.GetViper()
	config.SetDefaults(v)
	config.BindEnv(v)

	return config.ReadFile(v, cfgFile)
}

func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}
