package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/tick-reader-mcp/internal/config"
	"github.com/ironsheep/tick-reader-mcp/internal/logging"
	"github.com/ironsheep/tick-reader-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("tick-reader-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tick-reader-mcp: %v\n", err)
		os.Exit(2)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tick-reader-mcp: %v\n", err)
		os.Exit(2)
	}
	logger.WithFields(logging.Fields{
		"version":   Version,
		"built":     BuildTime,
		"commit":    GitCommit,
		"gray_mode": cfg.GrayMode,
		"workers":   cfg.Workers,
	}).Debug("starting tick-reader-mcp")

	srv, err := server.New(cfg, logger, Version)
	if err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		logger.WithError(err).Fatal("server error")
	}
}

func printHelp() {
	fmt.Println("tick-reader-mcp - MCP server that reads checkboxes on scanned forms")
	fmt.Println()
	fmt.Println("Usage: tick-reader-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables (also read from ./.env):")
	fmt.Println("  TICK_OUTER_CHECKED_THRESHOLD     Outer fill ratio threshold (default 0.5)")
	fmt.Println("  TICK_OUTER_CHECKED_TRUE_MARGIN   (default 0.1)")
	fmt.Println("  TICK_OUTER_CHECKED_FALSE_MARGIN  (default 0.45)")
	fmt.Println("  TICK_INNER_CHECKED_THRESHOLD     Inner fill ratio threshold (default 0.04)")
	fmt.Println("  TICK_INNER_CHECKED_TRUE_MARGIN   (default 0.03)")
	fmt.Println("  TICK_INNER_CHECKED_FALSE_MARGIN  (default 0.03)")
	fmt.Println("  TICK_INSET                       Outer to inner box margin in pixels (default 3)")
	fmt.Println("  TICK_PEAK_WINDOW                 Border peak window (default 15)")
	fmt.Println("  TICK_PEAK_PROMINENCE             Border peak prominence (default 3)")
	fmt.Println("  TICK_GRAY_MODE                   max, min, luma or lightness (default max)")
	fmt.Println("  TICK_MCP_WORKERS                 Parallel classifications (default: CPU count)")
	fmt.Println("  TICK_MCP_LOG_LEVEL               debug, info, warn, error (default info)")
	fmt.Println("  TICK_MCP_LOG_FILE                Also log to this file, rotated at 100 MB")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}
