package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/timada-org/todos/internal/api"
	"github.com/timada-org/todos/internal/core"
	"github.com/timada-org/todos/internal/store"
	"github.com/timada-org/todos/pkg/client"
)

var (
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the todos server",

		RunE: func(cmd *cobra.Command, args []string) error {
			config, log, err := load()
			if err != nil {
				return err
			}

			if err := config.Validate(); err != nil {
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

			options := api.Options{
				Config: config,
				Store:  s,
				Logger: log,
			}

			if config.Broker.URL != "" {
				c, err := client.New(client.ClientOptions{
					URL:    config.Broker.URL,
					Topic:  config.Broker.Topic,
					Name:   config.Broker.Name,
					Logger: log,
				})
				if err != nil {
					return err
				}
				defer c.Close()

				options.Publisher = c
			}

			app, err := api.New(options)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return app.Listen(ctx)
		},
	}
)

// load reads the config file and environment and builds the logger. Callers
// validate what they need.
func load() (*core.Config, *logrus.Logger, error) {
	config, err := core.NewConfig(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	log, err := core.NewLogger(config.Log)
	if err != nil {
		return nil, nil, err
	}

	return config, log, nil
}
