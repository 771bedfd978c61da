package main

import (
	"github.com/wfunc/tunnelrats/config"
	"github.com/wfunc/tunnelrats/directory"
	"github.com/wfunc/tunnelrats/logger"
	"github.com/wfunc/tunnelrats/monitor"
	"github.com/wfunc/tunnelrats/server"
	"github.com/wfunc/tunnelrats/services"
)

func main() {
	// Initialize logger
	logger.Init()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// The lobby directory is advisory: the engine only pushes player counts
	// to it, so a missing database degrades discovery, not gameplay.
	var store directory.Store
	pg := cfg.Database.Postgres
	switch cfg.Database.Driver {
	case "pq":
		pqStore, err := directory.NewPQStore(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
		if err != nil {
			logger.Log.Warnf("Lobby directory unavailable, running without discovery: %v", err)
		} else {
			store = pqStore
			defer pqStore.Close()
		}
	default:
		gormStore, err := directory.NewGormStore(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
		if err != nil {
			logger.Log.Warnf("Lobby directory unavailable, running without discovery: %v", err)
		} else {
			store = gormStore
			defer gormStore.Close()
		}
	}
	if store != nil {
		logger.Log.Info("Lobby directory connection successful.")
	}
	lobbyService := services.NewLobbyService(store)

	// Metrics endpoint
	mon := monitor.NewMonitor("tunnelrats")
	mon.StartServer(cfg.Server.MetricsAddress)

	// Initialize Game Server
	gameServer := server.NewGameServer(cfg, lobbyService, mon)

	// Start Server
	logger.Log.Infof("Starting game server on %s", cfg.Server.WSAddress)
	if err := gameServer.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}
