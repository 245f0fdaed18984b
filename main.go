package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"nontransitive/cmd"
	"nontransitive/config"

	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cmd.SetupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := dispatch(ctx, cfg, os.Args[1:]); err != nil {
		stop()
		if cmd.IsUsageError(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintln(os.Stderr, cmd.Usage)
			os.Exit(2)
		}
		log.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}

func dispatch(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no dice given", cmd.ErrUsage)
	}

	switch args[0] {
	case "play":
		return cmd.Run(ctx, cfg, args[1:], os.Stdin, os.Stdout)
	case "serve":
		return cmd.Serve(ctx, cfg, args[1:])
	case "analyze":
		return cmd.Analyze(cfg, args[1:], os.Stdout)
	case "migrate":
		return cmd.Migrate(cfg, args[1:], os.Stdout)
	default:
		return cmd.Run(ctx, cfg, args, os.Stdin, os.Stdout)
	}
}
