package main

import (
	"context"
	"fmt"
	"net/rpc"
	"os/signal"
	"syscall"

	"github.com/sidestack/sidestacker/config"
	"github.com/sidestack/sidestacker/logger"
	"github.com/sidestack/sidestacker/monitor"
	"github.com/sidestack/sidestacker/persistence"
	sidestacker_rpc "github.com/sidestack/sidestacker/rpc"
	"github.com/sidestack/sidestacker/scheduler"
	"github.com/sidestack/sidestacker/server"
	"github.com/sidestack/sidestacker/services"
	"github.com/sidestack/sidestacker/session"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize logger
	logger.Init(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Database
	store, err := newStore(cfg)
	if err != nil {
		logger.Log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()
	logger.Log.Info("Database connection successful.")

	// Metrics endpoint
	mon := monitor.NewMonitor("sidestacker")
	mon.StartServer(cfg.Server.MetricsAddress)

	// Session dispatcher owns the one session for the process lifetime.
	dispatcher := session.NewDispatcher(store, mon)
	go dispatcher.Run(ctx)

	// Admin RPC
	rpcServer, err := sidestacker_rpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	statsService := services.NewStatsService(store)
	if err := rpc.Register(sidestacker_rpc.NewMatchService(statsService)); err != nil {
		logger.Log.Fatalf("Failed to register RPC service: %v", err)
	}
	go rpcServer.Start()
	defer rpcServer.Stop()

	sched := scheduler.New()
	defer sched.Stop()

	// Start Server
	gameServer := server.NewGameServer(cfg.Server.HTTPAddress, dispatcher, mon, sched)

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Infof("Starting game server on %s", cfg.Server.HTTPAddress)
		errCh <- gameServer.Start()
	}()

	select {
	case err := <-errCh:
		logger.Log.Fatalf("Failed to start server: %v", err)
	case <-ctx.Done():
		logger.Log.Info("Received signal, shutting down")
	}
}

// newStore selects the store implementation from config.
func newStore(cfg *config.Config) (persistence.Store, error) {
	pg := cfg.Database.Postgres

	switch cfg.Database.Driver {
	case "pq":
		return persistence.NewPostgreSQL(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
	default:
		return persistence.NewGormPostgreSQL(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
	}
}
