package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/minaorangina/coopdeck"
	"github.com/minaorangina/coopdeck/config"
	"github.com/minaorangina/coopdeck/game"
	"github.com/minaorangina/coopdeck/server"
	"go.uber.org/zap"
)

// runs autoplayed games back to back and serves them to watchers
func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatal(err.Error())
	}

	logger, err := settings.Logger()
	if err != nil {
		log.Fatal(err.Error())
	}
	defer logger.Sync()

	catalog, err := config.LoadCatalog(settings.CatalogPath)
	if err != nil {
		logger.Fatal("could not load catalog", zap.Error(err))
	}
	opts, err := settings.Options(catalog, nil, logger)
	if err != nil {
		logger.Fatal("could not build session options", zap.Error(err))
	}

	host := coopdeck.NewHost(nil, logger)
	if _, err := host.Open(opts); err != nil {
		logger.Fatal("could not open session", zap.Error(err))
	}
	defer host.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	feed := server.NewServer(host, logger)
	feed.Addr = settings.ListenAddr
	go func() {
		logger.Info("listening", zap.String("addr", settings.ListenAddr))
		if err := feed.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			cancel()
		}
	}()

	autoplayer := coopdeck.NewAutoplayer(2, logger)
	restart := func(s *game.Session) error {
		if s.State() == game.MainMenu || s.State() == game.GameOver {
			return s.StartNewGame()
		}
		return nil
	}

	if err := host.Run(ctx, settings.TickInterval, restart, autoplayer.Step); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("game loop stopped", zap.Error(err))
	}

	shutdown, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if err := feed.Shutdown(shutdown); err != nil {
		logger.Warn("unclean shutdown", zap.Error(err))
	}
}
