package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/novawl/compositor/internal/compositor"
	"github.com/novawl/compositor/internal/config"
	"github.com/novawl/compositor/internal/displaybackend"
	"github.com/novawl/compositor/internal/displaybackend/headless"
	_ "github.com/novawl/compositor/internal/render/compat"
	_ "github.com/novawl/compositor/internal/render/explicit"
	"github.com/novawl/compositor/internal/server"
)

func newRunCmd() *cobra.Command {
	var logLevel string
	var headlessMode bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the compositor",
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				level = zerolog.InfoLevel
			}
			zerolog.SetGlobalLevel(level)
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			var disp displaybackend.Backend
			if headlessMode {
				hb := headless.New()
				hb.AddConnector(displaybackend.Connector{
					Name:  "HEADLESS-1",
					Modes: []displaybackend.Mode{{Width: 1920, Height: 1080, RefreshMHz: 60000}},
				})
				disp = hb
			}

			st, err := compositor.New(cfg, disp)
			if err != nil {
				return fmt.Errorf("initializing compositor state: %w", err)
			}

			path, err := server.SocketPath(cfg.SocketName)
			if err != nil {
				return fmt.Errorf("resolving socket path: %w", err)
			}

			ln, err := server.Listen(path, nil)
			if err != nil {
				return fmt.Errorf("listening on %s: %w", path, err)
			}
			defer ln.Close()

			log.Info().Str("socket", path).Msg("novawl listening")
			return st.Serve(ln)
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	cmd.Flags().BoolVar(&headlessMode, "headless", true, "use the headless display backend instead of DRM/KMS")
	return cmd
}
