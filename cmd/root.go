package cmd

import "github.com/spf13/cobra"

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "todos",
		Short: "A multi-user todo list service",
		Long:  `Todos lets users register, obtain a bearer token and manage a private list of todos over HTTP`,

		SilenceUsage: true,
	}
)

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (environment only when empty)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}
