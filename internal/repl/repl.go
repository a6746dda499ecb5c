package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/peterkuimelis/genesys/internal/catalog"
	"github.com/peterkuimelis/genesys/internal/deck"
	"github.com/peterkuimelis/genesys/internal/session"
)

// searchLimit caps how many search hits are printed.
const searchLimit = 30

// REPL is a line-oriented terminal shell over one deck session.
type REPL struct {
	sess *session.Session
	in   *bufio.Reader
	out  io.Writer

	// lastHits numbers the most recent search so "add #3" can refer to it.
	lastHits []*catalog.Card
}

// New creates a REPL reading commands from in and printing to out.
func New(sess *session.Session, in io.Reader, out io.Writer) *REPL {
	return &REPL{
		sess: sess,
		in:   bufio.NewReader(in),
		out:  out,
	}
}

// Run reads and executes commands until "quit", end of input, or ctx is done.
func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, "Type 'help' for commands.")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(r.out, "> ")
		line, err := r.in.ReadString('\n')
		if strings.TrimSpace(line) != "" {
			if quit := r.Execute(line); quit {
				return nil
			}
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("read command: %w", err)
		}
	}
}

// Execute runs one command line. It reports whether the shell should exit.
func (r *REPL) Execute(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		r.printHelp()
	case "search", "s":
		r.search(strings.Join(args, " "))
	case "info", "i":
		r.info(args)
	case "add", "a":
		r.add(args)
	case "remove", "rm":
		r.remove(args)
	case "show", "deck", "d":
		r.renderState(r.sess.Snapshot())
	case "new":
		r.sess.NewDeck()
		fmt.Fprintln(r.out, "Started a new deck.")
	case "open", "o":
		r.open(args)
	case "save":
		r.save(args)
	case "validate", "v":
		r.validate()
	case "cap":
		r.setCap(args)
	case "name":
		r.setName(args)
	default:
		fmt.Fprintf(r.out, "Unknown command %q. Type 'help' for commands.\n", cmd)
	}
	return false
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.out, "Commands:")
	fmt.Fprintln(r.out, "  search TEXT              Find cards by name")
	fmt.Fprintln(r.out, "  info CARD                Show a card's details")
	fmt.Fprintln(r.out, "  add CARD [main|extra|side]")
	fmt.Fprintln(r.out, "                           Add a copy (default: the card's own deck)")
	fmt.Fprintln(r.out, "  remove DECK CARD [N|all] Remove copies")
	fmt.Fprintln(r.out, "  show                     Show all three decks")
	fmt.Fprintln(r.out, "  validate                 List every rule the decks break")
	fmt.Fprintln(r.out, "  new                      Empty all decks")
	fmt.Fprintln(r.out, "  open PATH                Load a .ydk file")
	fmt.Fprintln(r.out, "  save [PATH]              Save as .ydk (only legal decks)")
	fmt.Fprintln(r.out, "  cap N                    Set the point cap")
	fmt.Fprintln(r.out, "  name VARIANT             Switch card names (en_name, jp_name, cn_name, ...)")
	fmt.Fprintln(r.out, "  quit")
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "CARD is a game id or #N from the last search.")
}

func (r *REPL) search(query string) {
	hits := r.sess.Search(query)
	r.lastHits = hits
	if len(hits) == 0 {
		fmt.Fprintln(r.out, "No cards found.")
		return
	}
	for i, card := range hits {
		if i >= searchLimit {
			fmt.Fprintf(r.out, "  ... and %d more\n", len(hits)-searchLimit)
			break
		}
		fmt.Fprintf(r.out, "  #%-3d %-9d %s (%d pts)%s\n",
			i+1, card.GameID, r.sess.DisplayName(card), card.Point, extraTag(card))
	}
}

func (r *REPL) info(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "Usage: info CARD")
		return
	}
	card, ok := r.resolveArg(args[0])
	if !ok {
		return
	}
	st := r.sess.State()
	fmt.Fprintf(r.out, "%s [%d]%s\n", r.sess.DisplayName(card), card.GameID, extraTag(card))
	fmt.Fprintf(r.out, "  Type:   %s\n", card.TypeText)
	fmt.Fprintf(r.out, "  Points: %d\n", card.Point)
	fmt.Fprintf(r.out, "  Copies: %d (main %d, extra %d, side %d)\n",
		st.CopiesOf(card.GameID), st.Count(deck.Main, card.GameID),
		st.Count(deck.Extra, card.GameID), st.Count(deck.Side, card.GameID))
	if card.Desc != "" {
		fmt.Fprintf(r.out, "  %s\n", card.Desc)
	}
}

func (r *REPL) add(args []string) {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(r.out, "Usage: add CARD [main|extra|side]")
		return
	}
	card, ok := r.resolveArg(args[0])
	if !ok {
		return
	}

	var (
		target deck.Name
		err    error
	)
	if len(args) == 1 {
		target, err = r.sess.AddPreferred(card.GameID)
	} else {
		target, err = deck.ParseName(args[1])
		if err != nil {
			fmt.Fprintf(r.out, "%v\n", err)
			return
		}
		err = r.sess.Add(target, card.GameID)
	}
	if err != nil {
		fmt.Fprintf(r.out, "Cannot add: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "Added %s to the %s.\n", r.sess.DisplayName(card), target)
}

func (r *REPL) remove(args []string) {
	if len(args) < 2 || len(args) > 3 {
		fmt.Fprintln(r.out, "Usage: remove DECK CARD [N|all]")
		return
	}
	target, err := deck.ParseName(args[0])
	if err != nil {
		fmt.Fprintf(r.out, "%v\n", err)
		return
	}
	gameID, ok := r.gameIDArg(args[1])
	if !ok {
		return
	}
	amount := 1
	if len(args) == 3 {
		if strings.EqualFold(args[2], "all") {
			amount = deck.All
		} else if amount, err = strconv.Atoi(args[2]); err != nil || amount < 1 {
			fmt.Fprintln(r.out, "Amount must be a positive number or 'all'.")
			return
		}
	}

	before := r.sess.State().Count(target, gameID)
	r.sess.Remove(target, gameID, amount)
	after := r.sess.State().Count(target, gameID)
	if before == after {
		fmt.Fprintf(r.out, "Card %d is not in the %s.\n", gameID, target)
		return
	}
	fmt.Fprintf(r.out, "Removed %d from the %s.\n", before-after, target)
}

func (r *REPL) open(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "Usage: open PATH")
		return
	}
	if err := r.sess.Open(args[0]); err != nil {
		fmt.Fprintf(r.out, "Could not open deck: %v\n", err)
		return
	}
	r.renderState(r.sess.Snapshot())
}

func (r *REPL) save(args []string) {
	var err error
	switch len(args) {
	case 0:
		err = r.sess.Save()
	case 1:
		err = r.sess.SaveAs(args[0])
	default:
		fmt.Fprintln(r.out, "Usage: save [PATH]")
		return
	}

	var illegal *session.IllegalDeckError
	switch {
	case errors.As(err, &illegal):
		fmt.Fprintln(r.out, "Deck is not legal and was not saved:")
		for _, v := range illegal.Violations {
			fmt.Fprintf(r.out, "  - %s\n", v.Error())
		}
	case errors.Is(err, session.ErrNoPath):
		fmt.Fprintln(r.out, "This deck has no file yet. Use: save PATH")
	case err != nil:
		fmt.Fprintf(r.out, "Could not save deck: %v\n", err)
	default:
		fmt.Fprintf(r.out, "Saved %s\n", r.sess.Path())
	}
}

func (r *REPL) validate() {
	violations := r.sess.Validate()
	if len(violations) == 0 {
		fmt.Fprintln(r.out, "Deck is legal.")
		return
	}
	for _, v := range violations {
		fmt.Fprintf(r.out, "  - %s\n", v.Error())
	}
}

func (r *REPL) setCap(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "Usage: cap N")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		fmt.Fprintln(r.out, "Point cap must be a non-negative number.")
		return
	}
	r.sess.SetPointCap(n)
	p := r.sess.Snapshot().Points
	fmt.Fprintf(r.out, "Points: %d/%d\n", p.Total, p.Cap)
}

func (r *REPL) setName(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "Usage: name VARIANT")
		return
	}
	key := catalog.NameKey(args[0])
	if !catalog.ValidNameKey(key) {
		fmt.Fprintf(r.out, "Unknown name variant %q.\n", args[0])
		return
	}
	r.sess.SetNameKey(key)
	fmt.Fprintf(r.out, "Showing %s names.\n", key)
}

// resolveArg turns a game id or #N search reference into a catalog card.
func (r *REPL) resolveArg(arg string) (*catalog.Card, bool) {
	if strings.HasPrefix(arg, "#") {
		n, err := strconv.Atoi(arg[1:])
		if err != nil || n < 1 || n > len(r.lastHits) {
			fmt.Fprintf(r.out, "No search result %s.\n", arg)
			return nil, false
		}
		return r.lastHits[n-1], true
	}
	gameID, ok := r.gameIDArg(arg)
	if !ok {
		return nil, false
	}
	card, ok := r.sess.Resolve(gameID)
	if !ok {
		fmt.Fprintf(r.out, "Unknown card %d.\n", gameID)
	}
	return card, ok
}

// gameIDArg parses a game id without requiring the catalog to know it, so
// unknown ids loaded from a file can still be removed.
func (r *REPL) gameIDArg(arg string) (int, bool) {
	if strings.HasPrefix(arg, "#") {
		card, ok := r.resolveArg(arg)
		if !ok {
			return 0, false
		}
		return card.GameID, true
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Fprintf(r.out, "%q is not a card id.\n", arg)
		return 0, false
	}
	return n, true
}

func extraTag(card *catalog.Card) string {
	if card.IsExtraDeckType() {
		return " [Extra]"
	}
	return ""
}
