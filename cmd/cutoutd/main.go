package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"cutout/internal/config"
	"cutout/internal/daemon"
)

func main() {
	configPath := flag.String("config", "", "configuration file path")
	flag.Parse()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := daemon.Run(context.Background(), cfg); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
