package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/darts-scoreboard/internal/board"
	"github.com/DoyleJ11/darts-scoreboard/internal/config"
	"github.com/DoyleJ11/darts-scoreboard/internal/engine"
	"github.com/DoyleJ11/darts-scoreboard/internal/httpapi"
	"github.com/DoyleJ11/darts-scoreboard/internal/lobby"
	"github.com/DoyleJ11/darts-scoreboard/internal/logging"
	"github.com/DoyleJ11/darts-scoreboard/internal/roster"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	ctrl, err := engine.NewController(cfg.GameMode(), engine.Options{StandardStart: cfg.Start})
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	names := cfg.SeedPlayers()
	var lobbyOpts []lobby.Option
	lobbyOpts = append(lobbyOpts, lobby.WithLogger(logger.Named("lobby")))
	if cfg.DatabaseURL != "" {
		store, err := roster.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer store.Close()

		if names, err = roster.LoadOr(ctx, store, names); err != nil {
			return err
		}
		saver := roster.NewSaver(store, logger.Named("roster"))
		lobbyOpts = append(lobbyOpts, lobby.WithRosterHook(saver.Submit))
		g.Go(func() error { return saver.Run(ctx) })
	}
	for _, name := range names {
		if err := ctrl.AddPlayer(name); err != nil {
			return fmt.Errorf("seed player %q: %w", name, err)
		}
	}

	lb := lobby.NewLobby(ctx, ctrl, lobbyOpts...)

	device, err := cfg.Device()
	if err != nil {
		return err
	}
	if device != "" {
		reader := &board.Reader{
			Open:   board.SerialOpener(device, cfg.SerialBaud),
			Logger: logger.Named("board").With(zap.String("device", device)),
			Sink: func(ctx context.Context, token string) error {
				return lb.Send(ctx, lobby.FromClient{Cmd: engine.Command{Type: engine.CmdRecordHit, Hit: token}})
			},
		}
		g.Go(func() error { return reader.Run(ctx) })
	} else {
		logger.Info("no board configured; hits only from websocket clients")
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.SetupRoutes(lb, httpapi.Options{OriginPatterns: cfg.AllowedOrigins, Logger: logger}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Addr), zap.String("mode", cfg.Mode), zap.Strings("players", names))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
