package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/peterkuimelis/genesys/internal/catalog"
	"github.com/peterkuimelis/genesys/internal/config"
	dlog "github.com/peterkuimelis/genesys/internal/log"
	"github.com/peterkuimelis/genesys/internal/session"
	"github.com/peterkuimelis/genesys/internal/web"
)

func main() {
	configFile := flag.String("config", "", "path to a .yaml or .toml config file")
	cardsFile := flag.String("cards", "", "path to cards_data.json (overrides config)")
	addr := flag.String("listen", "", "HTTP listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *cardsFile != "" {
		cfg.Catalog = *cardsFile
	}
	if *addr != "" {
		cfg.Listen = *addr
	}

	cards, err := catalog.LoadFile(cfg.Catalog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := dlog.NewTextLogger(os.Stdout)
	logger.Log(dlog.NewCatalogLoadedEvent(cfg.Catalog, cards.Len()))

	srv := web.NewServer(cards, session.Options{
		NameKey:  cfg.NameKey(),
		PointCap: cfg.PointCap,
		Creator:  cfg.Creator,
		Logger:   logger,
	})

	if cfg.WatchCatalog {
		go func() {
			err := catalog.Watch(context.Background(), cfg.Catalog,
				func(c *catalog.Catalog) { srv.SetCatalog(c, cfg.Catalog) },
				func(err error) { log.Printf("catalog reload failed: %v", err) },
			)
			if err != nil {
				log.Printf("catalog watcher stopped: %v", err)
			}
		}()
	}

	log.Printf("genesys deck builder listening on %s", cfg.Listen)
	if err := srv.ListenAndServe(cfg.Listen); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
