package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Offblink/Flow/internal/config"
	"github.com/Offblink/Flow/internal/storage"
	"github.com/Offblink/Flow/internal/ui"
)

func main() {
	configPath := flag.String("config", config.ResolveConfigPath(), "path to the config file")
	user := flag.String("user", "", "user key, overrides the config")
	flag.Parse()

	cfg, err := config.LoadOrCreate(*configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *user != "" {
		cfg.User = *user
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		fmt.Printf("failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := ui.Run(store, cfg); err != nil {
		fmt.Printf("error running program: %v\n", err)
		os.Exit(1)
	}
}
