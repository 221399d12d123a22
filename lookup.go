package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"morphparse/lookup"
	"morphparse/model"
	"morphparse/reference"
)

func runLookup(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("lookup", stderr)
	var common commonFlags
	common.register(fs)
	asJSON := fs.Bool("json", false, "print candidates as JSON")
	if err := parse(fs, args); err != nil {
		return err
	}
	text := strings.Join(fs.Args(), " ")
	if text == "" {
		return errors.New("lookup: missing text")
	}
	cfg, err := common.config(fs)
	if err != nil {
		return err
	}
	p, err := loadPipeline(cfg, log.New(stderr, "", log.LstdFlags))
	if err != nil {
		return err
	}
	return writeCandidates(stdout, lookup.Candidates(p.lex, p.system, text), *asJSON)
}

func writeCandidates(w io.Writer, cands []lookup.Candidate, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cands)
	}
	for _, c := range cands {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%d\t%d\t%d\t%d\n",
			c.Begin, c.End, c.Surface, strings.Join(c.POS, ","), c.Cost, c.LeftID, c.RightID, c.DictionaryID)
	}
	return nil
}

func runCompare(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("compare", stderr)
	var common commonFlags
	common.register(fs)
	modeFlag := fs.String("m", "C", "split mode of our side")
	if err := parse(fs, args); err != nil {
		return err
	}
	text := strings.Join(fs.Args(), " ")
	if text == "" {
		return errors.New("compare: missing text")
	}
	mode, err := model.ParseSplitMode(*modeFlag)
	if err != nil {
		return err
	}
	cfg, err := common.config(fs)
	if err != nil {
		return err
	}
	p, err := loadPipeline(cfg, log.New(stderr, "", log.LstdFlags))
	if err != nil {
		return err
	}
	cmp, err := reference.New(p.system.Raw())
	if err != nil {
		return err
	}
	ms, err := p.tok.Tokenize(mode, text)
	if err != nil {
		return err
	}
	report := cmp.Compare(text, ms)
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}
	if !report.Agree() {
		fmt.Fprintf(stderr, "boundaries differ: only kagome %v, only ours %v\n", report.OnlyReference, report.OnlyOurs)
	}
	return nil
}
