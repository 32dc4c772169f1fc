package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/lazharichir/holdem/config"
	"github.com/lazharichir/holdem/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	v := config.New()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and websocket server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			if err := setupLogger(cfg); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info().
				Int("port", cfg.Port).
				Int("maxRooms", cfg.MaxRooms).
				Bool("killOnIdle", cfg.KillOnIdle).
				Bool("disableTicker", cfg.DisableTicker).
				Msg("configuration loaded")
			return server.NewServer(cfg).Start(ctx)
		},
	}
	if err := config.BindFlags(v, cmd); err != nil {
		panic(err)
	}
	return cmd
}
