package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "repharsely",
	Short: "Slack slash command that rewrites your messages with an LLM",
	Long: `Repharsely is a Slack integration that takes the text of a slash
command, asks an LLM to translate it to clear natural English and fix
grammar and tone, and opens an editable modal with the suggestion. On
submit the final text is posted to the channel as the user.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".repharsely.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
