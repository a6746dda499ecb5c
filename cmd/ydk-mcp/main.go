package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/genesys/internal/catalog"
	"github.com/peterkuimelis/genesys/internal/config"
	"github.com/peterkuimelis/genesys/internal/log"
	genesysmcp "github.com/peterkuimelis/genesys/internal/mcp"
	"github.com/peterkuimelis/genesys/internal/session"
)

func main() {
	configFile := flag.String("config", "", "path to a .yaml or .toml config file")
	cardsFile := flag.String("cards", "", "path to cards_data.json (overrides config)")
	deckFile := flag.String("deck", "", ".ydk file to open at startup")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *cardsFile != "" {
		cfg.Catalog = *cardsFile
	}

	cards, err := catalog.LoadFile(cfg.Catalog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the MCP protocol; the event log goes to stderr.
	logger := log.NewTextLogger(os.Stderr)
	logger.Log(log.NewCatalogLoadedEvent(cfg.Catalog, cards.Len()))

	sess := session.New(cards, session.Options{
		NameKey:  cfg.NameKey(),
		PointCap: cfg.PointCap,
		Creator:  cfg.Creator,
		Logger:   logger,
	})
	if *deckFile != "" {
		if err := sess.Open(*deckFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if cfg.WatchCatalog {
		go sess.WatchCatalog(context.Background(), cfg.Catalog)
	}

	s := server.NewMCPServer("genesys", "1.0.0")
	genesysmcp.RegisterTools(s, sess)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
