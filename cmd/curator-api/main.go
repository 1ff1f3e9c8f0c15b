package main

import (
	"os"

	"github.com/kiwifruitpeter/curator/internal/api"
	"github.com/kiwifruitpeter/curator/internal/cache"
	"github.com/kiwifruitpeter/curator/internal/config"
	"github.com/kiwifruitpeter/curator/internal/logging"
	"github.com/kiwifruitpeter/curator/internal/store"
)

func main() {
	logging.InitConsole()
	defer logging.Close()

	cfg, err := config.Load()
	if err != nil {
		logging.Error("load config", "err", err)
		os.Exit(1)
	}

	st, err := store.Open(cfg.Files.DBFile)
	if err != nil {
		logging.Error("open store", "err", err)
		os.Exit(1)
	}
	defer st.Close()

	results := cache.New(cfg.Cache.Capacity, cfg.CacheTTL())
	server := api.New(st, results)

	logging.Info("serving curated feed", "addr", cfg.API.ListenAddr)
	if err := server.Run(cfg.API.ListenAddr); err != nil {
		logging.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
