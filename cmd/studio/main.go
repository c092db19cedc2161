package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/cipherstudio/studio/config"
	"github.com/cipherstudio/studio/internal/client"
	"github.com/cipherstudio/studio/internal/logging"
	"github.com/cipherstudio/studio/internal/session"
	"github.com/cipherstudio/studio/internal/shell"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	store, err := session.Open(cfg.Client.SessionFile)
	if err != nil {
		log.Fatal("open session store", zap.String("path", cfg.Client.SessionFile), zap.Error(err))
	}

	api := client.New(cfg.Client.APIURL, log)

	sh, err := shell.New(store, api, log)
	if err != nil {
		log.Fatal("start shell", zap.Error(err))
	}
	defer sh.Close()

	if err := sh.Run(); err != nil {
		log.Fatal("shell error", zap.Error(err))
	}
}
