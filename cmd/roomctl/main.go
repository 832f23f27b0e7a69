// Command roomctl is a terminal client for the meeting room reservation service.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"roombook-client/config"
	"roombook-client/internal/app"
)

const usage = `usage: roomctl <command> [flags]

commands:
  login         -u <username> -p <password>
  register      -u <username> -e <email> -p <password>
  logout
  whoami
  rooms         list | available | create | update | delete
  reservations  list | new | cancel
  users
  dashboard
  watch         poll for upcoming reservations until interrupted
`

func main() {
	logger := log.New(os.Stderr, "roomctl ", log.LstdFlags)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}

	a, err := app.New(cfg)
	if err != nil {
		logger.Fatalf("failed to start client: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	a.Start(ctx)

	cli := newCLI(a, os.Stdin, os.Stdout)
	runErr := cli.run(ctx, os.Args[1], os.Args[2:])
	cli.flush()

	stop()
	if err := a.Close(); err != nil {
		logger.Printf("failed to close client: %v", err)
	}
	if runErr != nil {
		logger.Printf("%s: %v", os.Args[1], runErr)
		os.Exit(1)
	}
}
