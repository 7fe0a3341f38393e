// ferret is a minimal terminal text editor built around a match search and
// navigation engine: Ctrl-F searches (literal or regex), Ctrl-N and Ctrl-P
// cycle forward and backward through the matches with wraparound.
package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
)

// Options describes the command line. The struct tags are interpreted by
// github.com/jessevdk/go-flags.
type Options struct {
	Config  string `short:"f" long:"config" description:"config YAML path (default ~/.config/ferret/config.yaml)"`
	Regex   bool   `short:"r" long:"regex" description:"start with regex search enabled"`
	Version bool   `short:"V" long:"version" description:"print version and exit"`

	Args struct {
		File string `positional-arg-name:"file" description:"file to edit"`
	} `positional-args:"yes"`
}

func main() {
	opts := &Options{}
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.Parse(); err != nil {
		if flags.WroteHelp(err) {
			fmt.Println(err)
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if opts.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	cfg, err := LoadConfig(opts.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading config: %s\n", err)
		os.Exit(1)
	}
	if opts.Regex {
		cfg.RegexSearch = true
	}

	e, err := New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing editor: %s\n", err)
		os.Exit(1)
	}

	if opts.Args.File != "" {
		if err := e.Open(opts.Args.File); err != nil {
			fmt.Fprintf(os.Stderr, "Error opening file: %s\n", err)
			os.Exit(1)
		}
	}

	if err := e.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
