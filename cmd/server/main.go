package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/adspay/console/auth"
	"github.com/adspay/console/credstore"
	"github.com/adspay/console/credstore/bolt"
	"github.com/adspay/console/dashboard"
	"github.com/adspay/console/gateway"
	"github.com/adspay/console/idp"
	"github.com/adspay/console/internal/config"
	"github.com/adspay/console/server"
	"github.com/adspay/console/session"
	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()

	cfg := config.New()
	setupLogging(cfg)
	displayAppname(cfg.GetAppName())

	if err := cfg.ValidateIdp(); err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	ctx := context.Background()

	// Durable credential store under the data folder.
	if err := os.MkdirAll(cfg.GetDataFolder(), 0o700); err != nil {
		return fmt.Errorf("creating data folder: %w", err)
	}
	kv, err := bolt.NewFromFile(filepath.Join(cfg.GetDataFolder(), cfg.GetCredentialFile()), nil)
	if err != nil {
		return fmt.Errorf("opening credential store: %w", err)
	}
	defer kv.Close()

	sessions := session.NewManager(credstore.New(kv))

	// Identity-provider client per auth mode.
	var (
		idpClient idp.Client
		keycloak  *idp.Keycloak
	)
	switch cfg.GetAuthMode() {
	case config.AuthModeProxy:
		idpClient = idp.NewProxy(cfg.GetAPIBaseURL(), http.DefaultClient)
	default:
		keycloak, err = idp.NewKeycloak(ctx, cfg.GetIssuerURL(), cfg.GetKeycloakClientID())
		if err != nil {
			return fmt.Errorf("discovering identity provider: %w", err)
		}
		idpClient = keycloak
	}

	authService, err := auth.NewService(sessions, idpClient)
	if err != nil {
		return fmt.Errorf("creating auth service: %w", err)
	}

	// The dashboard client rides the gateway transport, which refreshes
	// through the same auth service the scheduler uses; the profile
	// fetcher closes that loop, so it is wired last.
	apiClient := dashboard.NewClient(cfg.GetAPIBaseURL(), gateway.NewClient(sessions, authService))
	authService.SetProfileFetcher(apiClient)

	// Restore any previous session, then keep it fresh for the process
	// lifetime. Hydrating an expired tuple triggers an immediate refresh.
	scheduler := auth.NewScheduler(sessions, authService, auth.WithRefreshLead(cfg.GetRefreshLead()))
	scheduler.Start()
	defer scheduler.Stop()
	sessions.Hydrate()

	consoleServer, err := server.New(cfg, server.Deps{
		Sessions:  sessions,
		Auth:      authService,
		Dashboard: apiClient,
		Keycloak:  keycloak,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	httpServer := &http.Server{Addr: cfg.GetPort(), Handler: consoleServer}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

func listenAndServe(server *http.Server) {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func setupLogging(cfg config.Config) {
	if cfg.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
