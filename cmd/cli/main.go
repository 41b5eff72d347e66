package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"

	"github.com/minaorangina/coopdeck"
	"github.com/minaorangina/coopdeck/config"
	"github.com/minaorangina/coopdeck/game"
	"github.com/minaorangina/coopdeck/protocol"
	"go.uber.org/zap"
)

// plays one headless game with every seat on autoplay, logging each event
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

	bus, err := host.Bus()
	if err != nil {
		logger.Fatal("no session bus", zap.Error(err))
	}
	bus.Subscribe(func(e protocol.Event) {
		logger.Info(e.Kind.String(),
			zap.Int("turn", e.Turn),
			zap.Int("player", e.Player),
			zap.String("card", e.CardName),
			zap.String("state", e.State),
			zap.String("phase", e.Phase),
			zap.Int("amount", e.Amount),
		)
	})
	bus.SubscribeKinds(func(protocol.Event) { cancel() }, protocol.GameEnded)

	if err := host.Do(func(s *game.Session) error { return s.StartNewGame() }); err != nil {
		logger.Fatal("could not start game", zap.Error(err))
	}

	autoplayer := coopdeck.NewAutoplayer(2, logger)
	if err := host.Run(ctx, settings.TickInterval, autoplayer.Step); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("game loop stopped", zap.Error(err))
	}

	snap, err := host.Snapshot()
	if err != nil {
		return
	}
	logger.Info("final state",
		zap.Stringer("state", snap.State),
		zap.Int("turn", snap.Turn),
		zap.Int("victoryPoints", snap.VictoryPoints),
	)
}
