package cmd

import (
	"mixfm/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the MixFM HTTP server",
	Long:  `Start the MixFM HTTP server serving the track library, tag and mix generation APIs.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
