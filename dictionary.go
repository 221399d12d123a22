package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"morphparse/dictionary"
	"morphparse/dictionary/kagomedict"
)

func runUserDict(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("userdict", stderr)
	db := fs.String("db", "", "SQLite user dictionary file")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *db == "" || fs.NArg() == 0 {
		fmt.Fprintln(stderr, "usage: morphparse userdict -db FILE add|list [flags]")
		return errUsage
	}
	store, err := dictionary.OpenUserStore(*db)
	if err != nil {
		return err
	}
	defer store.Close()

	switch sub, rest := fs.Arg(0), fs.Args()[1:]; sub {
	case "add":
		return userDictAdd(store, rest, stdout, stderr)
	case "list":
		return userDictList(store, stdout)
	default:
		fmt.Fprintf(stderr, "unknown userdict command %q\n", sub)
		return errUsage
	}
}

func userDictAdd(store *dictionary.UserStore, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("userdict add", stderr)
	surface := fs.String("surface", "", "surface form (required)")
	pos := fs.String("pos", "", "comma separated part of speech, resolved against -dict")
	posID := fs.Int("pos-id", -1, "part-of-speech id, instead of -pos")
	dict := fs.String("dict", "ipa", "system dictionary used to resolve -pos")
	left := fs.Int("left", 0, "left connection id")
	right := fs.Int("right", 0, "right connection id")
	cost := fs.Int("cost", 0, "word cost")
	reading := fs.String("reading", "", "reading form")
	normalized := fs.String("normalized", "", "normalized form")
	dictForm := fs.String("dictionary", "", "dictionary form")
	splitA := fs.String("split-a", "", "row ids of the A-mode constituents")
	splitB := fs.String("split-b", "", "row ids of the B-mode constituents")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *surface == "" {
		return errors.New("userdict add: -surface is required")
	}

	id := *posID
	if *pos != "" {
		sys, err := kagomedict.Open(*dict)
		if err != nil {
			return err
		}
		pid, ok := sys.PartOfSpeechID(strings.Split(*pos, ","))
		if !ok {
			return fmt.Errorf("userdict add: unknown part of speech %q in %s", *pos, *dict)
		}
		id = int(pid)
	}
	if id < 0 {
		return errors.New("userdict add: one of -pos or -pos-id is required")
	}
	for name, v := range map[string]int{"pos-id": id, "left": *left, "right": *right, "cost": *cost} {
		if v < -32768 || v > 32767 {
			return fmt.Errorf("userdict add: -%s %d out of range", name, v)
		}
	}

	a, err := dictionary.ParseIDs(*splitA)
	if err != nil {
		return fmt.Errorf("userdict add: -split-a: %w", err)
	}
	b, err := dictionary.ParseIDs(*splitB)
	if err != nil {
		return fmt.Errorf("userdict add: -split-b: %w", err)
	}
	row, err := store.Add(dictionary.UserWord{
		Word: dictionary.Word{
			Surface:        *surface,
			LeftID:         int16(*left),
			RightID:        int16(*right),
			Cost:           int16(*cost),
			POSID:          int16(id),
			DictionaryForm: *dictForm,
			NormalizedForm: *normalized,
			ReadingForm:    *reading,
		},
		SplitA: a,
		SplitB: b,
	})
	if err != nil {
		return err
	}
	logs := log.New(stderr, "", log.LstdFlags)
	logs.Printf("[USERDICT] added %q as row %d", *surface, row)
	fmt.Fprintln(stdout, row)
	return nil
}

func userDictList(store *dictionary.UserStore, stdout io.Writer) error {
	words, err := store.Words()
	if err != nil {
		return err
	}
	for _, uw := range words {
		w := uw.Word
		fmt.Fprintf(stdout, "%d\t%s\t%d\t%d\t%d\t%d\t%s\t%s\t%s\t%v\t%v\n",
			uw.ID, w.Surface, w.LeftID, w.RightID, w.Cost, w.POSID,
			w.DictionaryForm, w.NormalizedForm, w.ReadingForm, uw.SplitA, uw.SplitB)
	}
	return nil
}
