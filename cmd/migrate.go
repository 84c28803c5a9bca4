package cmd

import (
	"github.com/spf13/cobra"

	"github.com/timada-org/todos/internal/store"
)

var (
	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the users and todos tables",

		RunE: func(cmd *cobra.Command, args []string) error {
			config, log, err := load()
			if err != nil {
				return err
			}

			s, err := store.Open(config.DatabaseURL, log)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Migrate(cmd.Context()); err != nil {
				return err
			}

			log.Info("migration complete")

			return nil
		},
	}
)
