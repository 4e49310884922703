// ironquant-mcp exposes the workout log over MCP (stdio transport).
// Local mode connects straight to PostgreSQL; remote mode talks to a running
// IronQuant server's REST API, typically over Tailscale.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/claude/ironquant/internal/config"
	"github.com/claude/ironquant/internal/mcp"
	"github.com/claude/ironquant/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	remoteURL := flag.String("remote", "", "base URL of a running IronQuant server; empty for direct DB access")
	apiKey := flag.String("api-key", "", "API key for remote mode (defaults to IRONQUANT_AUTH_API_KEY)")
	flag.Parse()

	// MCP owns stdout; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	var ds mcp.DataSource
	loc := time.UTC

	if *remoteURL != "" {
		key := *apiKey
		if key == "" {
			key = os.Getenv("IRONQUANT_AUTH_API_KEY")
		}
		if key == "" {
			log.Error("remote mode needs -api-key or IRONQUANT_AUTH_API_KEY")
			os.Exit(1)
		}
		ds = mcp.NewHTTPClient(*remoteURL, key)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		if l, err := time.LoadLocation(cfg.User.Timezone); err == nil {
			loc = l
		}

		db, err := storage.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		ds = db
	}

	s := mcp.New(ds, Version, loc, log)
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
