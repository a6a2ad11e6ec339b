package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bueltan/repharsely/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize repharsely configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the LLM provider and Slack app settings and generates a .repharsely.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
