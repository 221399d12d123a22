// Command morphparse segments text into morphemes.
//
// Usage:
//
//	morphparse analyze [-m A|B|C] [-a [-hiragana]] [-json] [-sentences] [-dump DIR] [text]
//	morphparse lookup TEXT
//	morphparse compare TEXT
//	morphparse userdict -db FILE add|list [flags]
//	morphparse serve [-addr :8080]
//
// analyze, lookup, compare and serve also accept -config FILE, -dict ipa|uni,
// -user DB (repeatable) and -oov unknown|simple|grouping.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"morphparse/config"
)

const usage = `usage: morphparse <command> [flags]

commands:
  analyze   segment text (arguments or stdin, one line per analysis)
  lookup    list raw dictionary candidates for a text
  compare   diff our segmentation against kagome's tokenizer
  userdict  add or list words of a SQLite user dictionary
  serve     run the JSON HTTP API
`

var errUsage = errors.New("invalid usage")

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, "morphparse:", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errUsage
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "analyze":
		return runAnalyze(rest, stdin, stdout, stderr)
	case "lookup":
		return runLookup(rest, stdout, stderr)
	case "compare":
		return runCompare(rest, stdout, stderr)
	case "userdict":
		return runUserDict(rest, stdout, stderr)
	case "serve":
		return runServe(rest, stderr)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	}
	fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
	return errUsage
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// commonFlags are shared by every command that loads dictionaries.
type commonFlags struct {
	configPath string
	dict       string
	users      stringList
	oov        string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "JSON configuration file")
	fs.StringVar(&c.dict, "dict", "", "system dictionary: ipa or uni")
	fs.Var(&c.users, "user", "SQLite user dictionary (repeatable)")
	fs.StringVar(&c.oov, "oov", "", "OOV provider: unknown, simple or grouping")
}

// config loads the file (or defaults) and applies the flags that were set.
func (c *commonFlags) config(fs *flag.FlagSet) (config.Config, error) {
	cfg := config.Defaults()
	if c.configPath != "" {
		var err error
		if cfg, err = config.Load(c.configPath); err != nil {
			return cfg, err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dict":
			cfg.Dictionary = c.dict
		case "user":
			cfg.UserDictionaries = append([]string(nil), c.users...)
		case "oov":
			cfg.OOV = c.oov
		}
	})
	return cfg, nil
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// parse treats -h and flag errors as usage errors; the flag package has
// already printed the details.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return nil
}
