package cmds

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/matiasleandrokruk/relaychat/internal/api"
	"github.com/matiasleandrokruk/relaychat/internal/domain/relay"
	"github.com/matiasleandrokruk/relaychat/internal/infra/config"
	"github.com/matiasleandrokruk/relaychat/internal/infra/llm"
	"github.com/matiasleandrokruk/relaychat/internal/server"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(st *rootState) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the relay HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := st.cfg
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides HOST)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides PORT)")
	return cmd
}

func newProvider(cfg config.Config) *llm.OpenRouterProvider {
	return llm.NewOpenRouterProvider(llm.OpenRouterConfig{
		APIKey:       cfg.OpenRouterAPIKey,
		BaseURL:      cfg.OpenRouterBaseURL,
		DefaultModel: cfg.DefaultModel,
		Referer:      cfg.HTTPReferer,
		Title:        cfg.AppTitle,
		Timeout:      cfg.UpstreamTimeout,
	})
}

// newRelayHandler builds the relay's full HTTP handler from cfg.
func newRelayHandler(cfg config.Config) http.Handler {
	gateway := relay.NewGateway(newProvider(cfg))
	if !gateway.Configured() {
		log.Warn().Msg("OPENROUTER_API_KEY is not set; every chat request will fail until it is")
	}
	return api.NewRouter(api.Deps{
		Relay:          gateway,
		Logger:         log.Logger,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})
}

func runServer(ctx context.Context, cfg config.Config) error {
	srvCfg := server.DefaultConfig()
	srvCfg.Host = cfg.Host
	srvCfg.Port = cfg.Port
	if floor := cfg.UpstreamTimeout + 15*time.Second; srvCfg.WriteTimeout < floor {
		srvCfg.WriteTimeout = floor
	}
	srv := server.NewServer(newRelayHandler(cfg), srvCfg)

	errc := make(chan error, 1)
	go func() { errc <- srv.Start(ctx) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
