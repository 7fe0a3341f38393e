// ferret-repl is an interactive driver for the ferret match navigator.
// It exercises the library exactly the way an editor host would: load a
// document, start a search, then walk the matches in both directions.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mpickford/ferret"
)

// REPL holds the state of the interactive session
type REPL struct {
	nav    *ferret.Navigator
	doc    string
	query  string
	regex  bool
	reader *bufio.Reader
}

func main() {
	fmt.Println("Ferret REPL - Match Navigation Demo")
	fmt.Println("Type 'help' for available commands, 'quit' to exit")
	fmt.Println()

	repl := &REPL{
		nav:    ferret.New(),
		reader: bufio.NewReader(os.Stdin),
	}

	if len(os.Args) == 2 {
		if !repl.loadFile(os.Args[1]) {
			os.Exit(1)
		}
	}

	for {
		fmt.Print("ferret> ")
		input, err := repl.reader.ReadString('\n')
		if err != nil {
			fmt.Println("\nGoodbye!")
			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if !repl.handleCommand(input) {
			break
		}
	}
}

func (r *REPL) handleCommand(input string) bool {
	cmd := input
	arg := ""
	if i := strings.IndexByte(input, ' '); i >= 0 {
		cmd, arg = input[:i], strings.TrimSpace(input[i+1:])
	}

	switch strings.ToLower(cmd) {
	case "help":
		r.printHelp()

	case "quit", "exit":
		fmt.Println("Goodbye!")
		return false

	case "load":
		if arg == "" {
			fmt.Println("Usage: load <file>")
			break
		}
		r.loadFile(arg)

	case "text":
		r.doc = arg
		fmt.Printf("Document set (%d bytes)\n", len(r.doc))

	case "regex":
		switch strings.ToLower(arg) {
		case "on":
			r.regex = true
			fmt.Println("Regex mode on")
		case "off":
			r.regex = false
			fmt.Println("Regex mode off")
		default:
			fmt.Printf("Regex mode: %v (use 'regex on' or 'regex off')\n", r.regex)
		}

	case "search":
		r.query = arg
		m, err := r.nav.StartSearch(r.doc, r.query, r.regex)
		r.report(m, err)

	case "next":
		m, err := r.nav.Next()
		r.report(m, err)

	case "prev", "previous":
		m, err := r.nav.Previous()
		r.report(m, err)

	case "show":
		if m := r.nav.Current(); m != nil {
			r.printMatch(m)
		} else {
			fmt.Println("No current match")
		}

	case "status":
		fmt.Printf("Document: %d bytes, query: %q, regex: %v, active: %v\n",
			len(r.doc), r.query, r.regex, r.nav.Active())

	default:
		fmt.Printf("Unknown command: %s (type 'help')\n", cmd)
	}

	return true
}

func (r *REPL) loadFile(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Error loading %s: %v\n", path, err)
		return false
	}
	r.doc = string(data)
	fmt.Printf("Loaded %s (%d bytes)\n", path, len(r.doc))
	return true
}

func (r *REPL) report(m *ferret.Match, err error) {
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if m == nil {
		fmt.Println("No match")
		return
	}
	r.printMatch(m)
}

func (r *REPL) printMatch(m *ferret.Match) {
	fmt.Printf("Match [%d,%d): %q\n", m.Start, m.End, m.Text)
	fmt.Printf("  ...%s...\n", excerpt(r.doc, m.Start, m.End))
}

// excerpt returns the match with up to 20 bytes of context on each side,
// newlines flattened.
func excerpt(doc string, start, end int) string {
	lo := start - 20
	if lo < 0 {
		lo = 0
	}
	hi := end + 20
	if hi > len(doc) {
		hi = len(doc)
	}
	s := doc[lo:hi]
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

func (r *REPL) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  load <file>     - load a file as the document")
	fmt.Println("  text <string>   - use a literal string as the document")
	fmt.Println("  regex on|off    - toggle regex interpretation of the query")
	fmt.Println("  search <expr>   - start a new search over the document")
	fmt.Println("  next            - advance to the next match (wraps)")
	fmt.Println("  prev            - step back to the previous match (wraps)")
	fmt.Println("  show            - print the current match")
	fmt.Println("  status          - print session state")
	fmt.Println("  quit            - exit")
}
