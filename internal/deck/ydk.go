package deck

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterkuimelis/genesys/internal/catalog"
)

// DefaultCreator is the tool name written in the deck file header.
const DefaultCreator = "genesys deck builder"

// Section markers of the .ydk format.
const (
	headerPrefix = "#created by"
	markerMain   = "#main"
	markerExtra  = "#extra"
	markerSide   = "!side"
)

type section int

const (
	noSection section = iota
	inMain
	inExtra
	inSide
)

func (sec section) deck() Name {
	switch sec {
	case inExtra:
		return Extra
	case inSide:
		return Side
	default:
		return Main
	}
}

// parser is the line-at-a-time state machine behind Parse and ParseLines.
type parser struct {
	catalog *catalog.Catalog
	state   *State
	section section
}

func (p *parser) line(raw string) {
	line := strings.TrimSpace(raw)
	switch {
	case line == "" || strings.HasPrefix(line, headerPrefix):
	case line == markerMain:
		p.section = inMain
	case line == markerExtra:
		p.section = inExtra
	case line == markerSide:
		p.section = inSide
	case p.section != noSection && isDigits(line):
		id, err := strconv.Atoi(line)
		if err != nil {
			return
		}
		// Old files may name cards the catalog has since dropped.
		if _, ok := p.catalog.ResolveByGameID(id); !ok {
			return
		}
		p.state.increment(p.section.deck(), id)
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ParseLines builds a state from deck file lines. Unknown ids, foreign lines
// and card lines outside any section are skipped; sections may come in any
// order or be missing.
func ParseLines(lines []string, c *catalog.Catalog) *State {
	p := &parser{catalog: c, state: New()}
	for _, l := range lines {
		p.line(l)
	}
	return p.state
}

// Parse reads a deck file from r. Only a failure reading r is an error.
func Parse(r io.Reader, c *catalog.Catalog) (*State, error) {
	p := &parser{catalog: c, state: New()}
	br := bufio.NewReader(r)
	for {
		l, err := br.ReadString('\n')
		if l != "" {
			p.line(l)
		}
		if errors.Is(err, io.EOF) {
			return p.state, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// ReadFile parses the deck file at path.
func ReadFile(path string, c *catalog.Catalog) (*State, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	defer f.Close()

	s, err := Parse(f, c)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return s, nil
}

// Write serializes s in .ydk form: a header naming creator, then the Main,
// Extra and Side sections with one line per copy, ids ascending.
func Write(w io.Writer, s *State, creator string) error {
	if creator == "" {
		creator = DefaultCreator
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s %s\n", headerPrefix, creator)
	for _, sec := range []struct {
		marker string
		deck   Name
	}{
		{markerMain, Main},
		{markerExtra, Extra},
		{markerSide, Side},
	} {
		bw.WriteString(sec.marker)
		bw.WriteByte('\n')
		for _, e := range s.Entries(sec.deck) {
			line := strconv.Itoa(e.GameID) + "\n"
			for i := 0; i < e.Count; i++ {
				bw.WriteString(line)
			}
		}
	}
	return bw.Flush()
}

// Serialize returns the .ydk text for s.
func Serialize(s *State, creator string) string {
	var sb strings.Builder
	_ = Write(&sb, s, creator)
	return sb.String()
}

// WriteFile saves s to path. The deck is written to a temporary file next to
// path and renamed into place, so a failed save leaves any existing file
// intact.
func WriteFile(path string, s *State, creator string) (err error) {
	wrap := func(e error) error { return &IOError{Op: "write", Path: path, Err: e} }

	tmp, err := os.CreateTemp(filepath.Dir(path), ".ydk-*")
	if err != nil {
		return wrap(err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if err := Write(tmp, s, creator); err != nil {
		tmp.Close()
		return wrap(err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return wrap(err)
	}
	if err := tmp.Close(); err != nil {
		return wrap(err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return wrap(err)
	}
	return nil
}
