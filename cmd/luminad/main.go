package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"luminashare/config"
	"luminashare/core"
	"luminashare/core/events"
	"luminashare/core/state"
	"luminashare/crypto"
	"luminashare/fhe/mock"
	"luminashare/observability/logging"
	"luminashare/rpc"
	"luminashare/storage"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	memoryFlag := flag.Bool("memory", false, "DEV ONLY: keep all state in memory instead of the data directory")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("LUMINA_ENV"))
	logger := logging.Setup("luminad", env)

	cfg, err := config.Load(*configFile)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	var db storage.Database
	if *memoryFlag {
		db = storage.NewMemDB()
	} else {
		leveldb, err := storage.NewLevelDB(cfg.DataDir)
		if err != nil {
			panic(fmt.Sprintf("Failed to open database: %v", err))
		}
		db = leveldb
	}
	defer db.Close()

	scopeAddr, err := crypto.DecodeAddress(cfg.ScopeAddress)
	if err != nil {
		logger.Error("Invalid scope address in config", slog.Any("error", err))
		os.Exit(1)
	}

	engine := mock.NewEngine(scopeAddr.Array())
	manager := state.NewManager(db)
	node := core.NewNode(manager, engine, scopeAddr.Array())

	bus := events.NewBus()
	node.SetEmitter(bus)

	server := rpc.NewServer(node, bus, cfg.RPCJWTSecret)
	logger.Info("Starting RPC server",
		slog.String("address", cfg.RPCAddress),
		slog.String("network", cfg.NetworkName),
		slog.String("scope", scopeAddr.String()),
	)
	if err := server.Start(cfg.RPCAddress); err != nil {
		logger.Error("RPC server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
