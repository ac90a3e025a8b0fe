package cli

import (
	"github.com/spf13/cobra"

	"github.com/okrause/tikzcanvas/internal/server"
	"github.com/okrause/tikzcanvas/pkg/apperr"
	"github.com/okrause/tikzcanvas/pkg/config"
	"github.com/okrause/tikzcanvas/pkg/store"
)

// newServeCmd creates the serve command running the HTTP API.
func newServeCmd() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if cfg.Server.JWTSecret == "" {
				return apperr.New(apperr.CodeInvalidInput, "server.jwt_secret must be set in %s", configPath)
			}

			st, err := store.OpenSQLite(cfg.Server.DatabasePath)
			if err != nil {
				return err
			}
			defer st.Close()
			logger.Debug("store opened", "path", cfg.Server.DatabasePath)

			printInfo("starting tikzcanvas API")
			printKeyValue("Address", cfg.Server.Addr)
			printKeyValue("Database", cfg.Server.DatabasePath)

			return server.New(cfg, st, logger).ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "tikzcanvas.toml", "path to the config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides the config)")
	return cmd
}
