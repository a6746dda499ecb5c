package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/peterkuimelis/genesys/internal/catalog"
	"github.com/peterkuimelis/genesys/internal/config"
	"github.com/peterkuimelis/genesys/internal/log"
	"github.com/peterkuimelis/genesys/internal/repl"
	"github.com/peterkuimelis/genesys/internal/session"
)

func main() {
	configFile := flag.String("config", "", "path to a .yaml or .toml config file")
	cardsFile := flag.String("cards", "", "path to cards_data.json (overrides config)")
	pointCap := flag.Int("cap", 0, "point cap (overrides config)")
	nameVariant := flag.String("name", "", "card name variant, e.g. en_name or jp_name (overrides config)")
	watch := flag.Bool("watch", false, "reload the card catalog when the file changes")
	quiet := flag.Bool("quiet", false, "do not print the deck event log")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  ydk-cli [flags] [DECK.ydk]")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "cards":
			cfg.Catalog = *cardsFile
		case "cap":
			cfg.PointCap = *pointCap
		case "name":
			cfg.NameVariant = *nameVariant
		case "watch":
			cfg.WatchCatalog = *watch
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cards, err := catalog.LoadFile(cfg.Catalog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var logger log.EventLogger = log.NewMemoryLogger()
	if !*quiet {
		logger = log.NewTextLogger(os.Stdout)
	}
	logger.Log(log.NewCatalogLoadedEvent(cfg.Catalog, cards.Len()))

	sess := session.New(cards, session.Options{
		NameKey:  cfg.NameKey(),
		PointCap: cfg.PointCap,
		Creator:  cfg.Creator,
		Logger:   logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.WatchCatalog {
		go func() {
			if err := sess.WatchCatalog(ctx, cfg.Catalog); err != nil && ctx.Err() == nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}()
	}

	if path := flag.Arg(0); path != "" {
		if err := sess.Open(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if err := repl.New(sess, os.Stdin, os.Stdout).Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
