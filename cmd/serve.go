package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bueltan/repharsely/internal/auth"
	"github.com/bueltan/repharsely/internal/bot"
	"github.com/bueltan/repharsely/internal/server"
	"github.com/bueltan/repharsely/internal/slack"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Slack webhook server",
	Long: `Starts the HTTP server that handles the slash command, the modal
interaction callbacks, and the OAuth pages for installing the app.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		logger := newLogger()
		slog.SetDefault(logger)

		store, err := auth.DefaultStore()
		if err != nil {
			return fmt.Errorf("opening credential store: %w", err)
		}

		// The token source re-reads the store on every call so a token
		// obtained through the OAuth flow is picked up without a restart.
		client := slack.New(slack.TokenFunc(func() string {
			return store.Get(auth.SlackUserToken)
		}))
		if store.Get(auth.SlackUserToken) == "" {
			logger.Warn("no Slack user token stored, complete the OAuth flow at /",
				"credential", auth.SlackUserToken)
		}

		rewriter := createRewriterFromConfig(cfg, store, logger)
		gateway := bot.NewGateway(client, logger)
		handler := bot.NewHandler(gateway, rewriter, logger)

		port := cfg.Server.Port
		if servePort != 0 {
			port = servePort
		}
		srv := server.New(server.Config{Port: port}, logger)
		bot.RegisterRoutes(srv.Router(), handler, cfg.Slack.SigningSecret)

		oauthHandler := auth.NewOAuthHandler(client, store,
			cfg.Slack.ClientID, cfg.Slack.ClientSecret, cfg.Slack.RedirectURI, logger)
		auth.RegisterRoutes(srv.Router(), oauthHandler)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			logger.Info("shutting down server")
			srv.Shutdown(context.Background())
		}()

		logger.Info("repharsely starting",
			"version", Version,
			"port", port,
			"provider", cfg.Provider,
			"model", cfg.Model,
		)
		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
