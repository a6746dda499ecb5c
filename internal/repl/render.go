package repl

import (
	"fmt"

	"github.com/peterkuimelis/genesys/internal/deck"
	"github.com/peterkuimelis/genesys/internal/session"
)

func (r *REPL) renderState(snap session.Snapshot) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "╔══════════════════════════════════════════════════════╗")
	if snap.Path != "" {
		fmt.Fprintf(r.out, "║  File: %s\n", snap.Path)
	}
	r.renderDeck(deck.Main, snap.Main, snap.MainCount, fmt.Sprintf("%d-%d", deck.MainMin, deck.MainMax))
	fmt.Fprintln(r.out, "║──────────────────────────────────────────────────────")
	r.renderDeck(deck.Extra, snap.Extra, snap.ExtraCount, fmt.Sprintf("0-%d", deck.ExtraMax))
	fmt.Fprintln(r.out, "║──────────────────────────────────────────────────────")
	r.renderDeck(deck.Side, snap.Side, snap.SideCount, fmt.Sprintf("0-%d", deck.SideMax))
	fmt.Fprintln(r.out, "╚══════════════════════════════════════════════════════╝")

	points := fmt.Sprintf("Points: %d/%d", snap.Points.Total, snap.Points.Cap)
	if snap.Points.Over {
		points += " | OVER CAP"
	}
	if len(snap.Violations) == 0 {
		points += " | Legal"
	} else {
		points += fmt.Sprintf(" | %d problem(s), see 'validate'", len(snap.Violations))
	}
	fmt.Fprintln(r.out, points)
}

func (r *REPL) renderDeck(d deck.Name, entries []deck.ListingEntry, count int, limits string) {
	fmt.Fprintf(r.out, "║  %s (%d, allowed %s)\n", d, count, limits)
	for _, e := range entries {
		name := e.Name
		if !e.Known {
			name = "(unknown card)"
		}
		fmt.Fprintf(r.out, "║    %dx %-32s %9d  %2d pts\n", e.Count, name, e.GameID, e.Point)
	}
}
