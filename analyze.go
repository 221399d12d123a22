package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"morphparse/ingest"
	"morphparse/kana"
	"morphparse/logger"
	"morphparse/model"
	"morphparse/tokenize"
)

type analyzeOptions struct {
	mode      model.SplitMode
	all       bool
	json      bool
	sentences bool
	hiragana  bool
	dumpDir   string
}

func runAnalyze(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := newFlagSet("analyze", stderr)
	var common commonFlags
	common.register(fs)
	modeFlag := fs.String("m", "", "split mode: A, B or C")
	all := fs.Bool("a", false, "print all fields")
	asJSON := fs.Bool("json", false, "print one JSON analysis per line")
	sentences := fs.Bool("sentences", false, "analyze sentence by sentence")
	dump := fs.String("dump", "", "write lattice and analysis dumps to this directory")
	hiragana := fs.Bool("hiragana", false, "print readings in hiragana (with -a)")
	if err := parse(fs, args); err != nil {
		return err
	}

	cfg, err := common.config(fs)
	if err != nil {
		return err
	}
	if *modeFlag != "" {
		if cfg.Mode, err = model.ParseSplitMode(*modeFlag); err != nil {
			return err
		}
	}
	if *dump != "" {
		cfg.DumpDir = *dump
	}
	opts := analyzeOptions{
		mode:      cfg.Mode,
		all:       *all,
		json:      *asJSON,
		sentences: *sentences,
		hiragana:  *hiragana,
		dumpDir:   cfg.DumpDir,
	}
	if opts.dumpDir != "" {
		if err := logger.InitLogs(opts.dumpDir); err != nil {
			return err
		}
	}

	logs := log.New(stderr, "", log.LstdFlags)
	p, err := loadPipeline(cfg, logs)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(stdout)
	defer w.Flush()
	if fs.NArg() > 0 {
		return analyzeLine(p.tok, strings.Join(fs.Args(), " "), opts, w, logs)
	}
	sc := bufio.NewScanner(stdin)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		if err := analyzeLine(p.tok, sc.Text(), opts, w, logs); err != nil {
			return err
		}
	}
	return sc.Err()
}

func analyzeLine(tok *tokenize.Tokenizer, line string, opts analyzeOptions, w io.Writer, logs *log.Logger) error {
	s, err := ingest.NewSentence(line)
	if err != nil {
		if strings.TrimSpace(line) == "" {
			fmt.Fprintln(w, "EOS")
			return nil
		}
		return err
	}

	var groups []tokenize.MorphemeList
	if opts.sentences {
		if groups, err = tok.TokenizeSentences(opts.mode, s.Text); err != nil {
			return err
		}
	} else {
		ms, err := tok.Tokenize(opts.mode, s.Text)
		if err != nil {
			return err
		}
		groups = []tokenize.MorphemeList{ms}
	}

	if opts.dumpDir != "" {
		dumpAnalysis(tok, s, opts, groups, logs)
	}

	if opts.json {
		for _, ms := range groups {
			b, err := json.Marshal(model.Analysis{ID: s.ID, Text: ms.Text(), Mode: opts.mode, Tokens: ms.Records()})
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\n", b)
		}
		return nil
	}
	for _, ms := range groups {
		for _, m := range ms {
			writeMorpheme(w, m, opts)
		}
		fmt.Fprintln(w, "EOS")
	}
	return nil
}

// writeMorpheme prints surface, POS and normalized form, tab separated;
// opts.all adds dictionary form, reading, dictionary id and the OOV marker.
func writeMorpheme(w io.Writer, m *tokenize.Morpheme, opts analyzeOptions) {
	fmt.Fprintf(w, "%s\t%s\t%s", m.Surface(), strings.Join(m.PartOfSpeech(), ","), m.NormalizedForm())
	if opts.all {
		reading := m.ReadingForm()
		if opts.hiragana {
			reading = kana.ToHiragana(reading)
		}
		fmt.Fprintf(w, "\t%s\t%s\t%d", m.DictionaryForm(), reading, m.DictionaryID())
		if m.IsOOV() {
			fmt.Fprint(w, "\t(OOV)")
		}
	}
	fmt.Fprintln(w)
}

// dumpAnalysis writes <id>_lattice.json and <id>_analysis.json. Failures
// are logged; they never fail the analysis.
func dumpAnalysis(tok *tokenize.Tokenizer, s ingest.Sentence, opts analyzeOptions, groups []tokenize.MorphemeList, logs *log.Logger) {
	if l, err := tok.Lattice(s.Text); err != nil {
		logs.Printf("[DUMP] lattice %s: %v", s.ID, err)
	} else if err := logger.LogJSON(opts.dumpDir, s.ID+"_lattice", l.Dump()); err != nil {
		logs.Printf("[DUMP] %v", err)
	}
	var toks []model.Token
	for _, ms := range groups {
		toks = append(toks, ms.Records()...)
	}
	a := model.Analysis{ID: s.ID, Text: s.Text, Mode: opts.mode, Tokens: toks}
	if err := logger.LogJSON(opts.dumpDir, s.ID+"_analysis", a); err != nil {
		logs.Printf("[DUMP] %v", err)
	}
}
