package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration.",
	Long: "Resolves flags, PAXFLOW_ environment variables, and the config " +
		"file, validates the result, and prints it as YAML.",
	RunE: func(_ *cobra.Command, _ []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}

		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}

		return enc.Close()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
