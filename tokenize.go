package main

import (
	"fmt"
	"log"

	"morphparse/config"
	"morphparse/dictionary"
	"morphparse/dictionary/kagomedict"
	"morphparse/oov"
	"morphparse/tokenize"
)

// pipeline is everything an analysis needs, wired from a Config.
type pipeline struct {
	system *kagomedict.Dictionary
	lex    dictionary.Lexicon
	tok    *tokenize.Tokenizer
}

func loadPipeline(cfg config.Config, logger *log.Logger) (*pipeline, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	logger.Printf("[MAIN] loading %s dictionary", cfg.Dictionary)
	sys, err := kagomedict.Open(cfg.Dictionary)
	if err != nil {
		return nil, err
	}

	lexicons := []dictionary.Lexicon{sys}
	for i, path := range cfg.UserDictionaries {
		lex, err := loadUserLexicon(path, i+1)
		if err != nil {
			return nil, err
		}
		logger.Printf("[MAIN] user dictionary %s: %d words", path, lex.Len())
		lexicons = append(lexicons, lex)
	}
	lex := dictionary.Chain(lexicons...)

	var provider oov.Provider
	switch cfg.OOV {
	case config.OOVUnknown:
		provider = sys
	case config.OOVSimple:
		provider = oov.NewSimple(sys.UnknownPOS())
	case config.OOVGrouping:
		provider = oov.NewGrouping(oov.Params{POSID: sys.UnknownPOS(), Cost: oov.DefaultCost})
	default:
		return nil, fmt.Errorf("unknown oov provider %q", cfg.OOV)
	}

	tok, err := tokenize.New(lex, sys, provider,
		tokenize.WithLogger(logger),
		tokenize.WithSentenceLimit(cfg.SentenceLimit),
	)
	if err != nil {
		return nil, err
	}
	return &pipeline{system: sys, lex: lex, tok: tok}, nil
}

func loadUserLexicon(path string, dictionaryID int) (*dictionary.MemoryLexicon, error) {
	store, err := dictionary.OpenUserStore(path)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Lexicon(dictionaryID)
}
