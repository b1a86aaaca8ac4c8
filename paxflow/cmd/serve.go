package cmd

import (
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Simulate a batch and serve the results over HTTP.",
	Long: "Same as run with --monitor. The server stays up until " +
		"interrupted.",
	RunE: func(_ *cobra.Command, _ []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}

		c.Monitor = true

		return runSimulation(c)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
