package main

import (
	"net/rpc"

	"github.com/wfunc/powerball/config"
	"github.com/wfunc/powerball/game"
	"github.com/wfunc/powerball/logger"
	"github.com/wfunc/powerball/monitor"
	powerball_rpc "github.com/wfunc/powerball/rpc"
	"github.com/wfunc/powerball/scheduler"
	"github.com/wfunc/powerball/server"
)

func main() {
	// Initialize logger
	logger.Init()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// Build the game session
	session := game.NewSession(game.Config{
		MaxPlayers:    cfg.Game.MaxPlayers,
		TicketCost:    cfg.Game.TicketCost,
		JackpotAmount: cfg.Game.JackpotAmount,
		InitialSpeed:  cfg.Game.Speed,
		Prizes:        buildPrizeTable(cfg.Game),
	})

	// Metrics endpoint
	mon := monitor.NewMonitor("powerball")
	mon.StartServer(cfg.Server.MetricsAddress)

	// Drawing driver
	driver := scheduler.New(session, mon)
	driver.Start()
	defer driver.Stop()

	// Admin RPC for the operator panel
	rpcServer, err := powerball_rpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	rpc.Register(powerball_rpc.NewAdminService(session))
	go rpcServer.Start()
	defer rpcServer.Stop()

	// HTTP + websocket surface
	gameServer := server.NewGameServer(cfg.Server.HTTPAddress, cfg.Game.AdminPassword, session, mon)

	logger.Log.Infof("Player API on %s, metrics on %s, admin RPC on %s",
		cfg.Server.HTTPAddress, cfg.Server.MetricsAddress, cfg.Server.RPCAddress)
	if err := gameServer.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}

// buildPrizeTable applies configured overrides onto the default table.
func buildPrizeTable(gc config.GameConfig) game.PrizeTable {
	jackpot := gc.JackpotAmount
	if jackpot <= 0 {
		jackpot = game.DefaultJackpotAmount
	}
	table := game.DefaultPrizeTable(jackpot)
	for _, entry := range gc.Prizes {
		table[game.PrizeKey{Matches: entry.Matches, Powerball: entry.Powerball}] = entry.Amount
	}
	return table
}
