// Package lattice builds the candidate lattice over a text and finds its
// minimum-cost path. Path costs are computed as nodes are inserted, so the
// search itself is a walk over back-pointers.
package lattice

import (
	"errors"
	"log"
	"math"

	"morphparse/dictionary"
	"morphparse/model"
	"morphparse/oov"
)

// Node is one candidate spanning [Begin, End) in rune offsets.
type Node struct {
	Begin int
	End   int
	Entry *dictionary.Entry
	Total int64 // best cost of a path from BOS through this node
	Prev  int   // index of the best predecessor, -1 for BOS
}

var boundary = &dictionary.Entry{
	LeftID:       dictionary.BoundaryClass,
	RightID:      dictionary.BoundaryClass,
	DictionaryID: dictionary.OOVDictionaryID,
	WordID:       dictionary.UndefinedWordID,
}

const bosIndex = 0

// Lattice owns its nodes; it is not safe for concurrent use.
type Lattice struct {
	text    []rune
	grammar dictionary.Grammar
	logger  *log.Logger
	nodes   []Node
	endAt   [][]int
	eos     int
}

// Option configures Build.
type Option func(*Lattice)

// WithLogger routes fallback and defect messages to l.
func WithLogger(l *log.Logger) Option {
	return func(lt *Lattice) {
		if l != nil {
			lt.logger = l
		}
	}
}

// Build scans text left to right, inserting dictionary and OOV candidates at
// every position some node ends at. provider may be nil, in which case only
// the built-in single-character fallback covers unknown text.
func Build(text []rune, lex dictionary.Lexicon, grammar dictionary.Grammar, provider oov.Provider, opts ...Option) (*Lattice, error) {
	if lex == nil {
		return nil, &model.DictionaryUnavailableError{Name: "lexicon", Err: errors.New("nil lexicon")}
	}
	if grammar == nil {
		return nil, &model.DictionaryUnavailableError{Name: "grammar", Err: errors.New("nil grammar")}
	}
	n := len(text)
	l := &Lattice{
		text:    text,
		grammar: grammar,
		logger:  log.Default(),
		nodes:   make([]Node, 0, 2*n+2),
		endAt:   make([][]int, n+1),
		eos:     -1,
	}
	for _, opt := range opts {
		opt(l)
	}

	l.nodes = append(l.nodes, Node{Entry: boundary, Prev: -1})
	l.endAt[0] = append(l.endAt[0], bosIndex)

	for i := 0; i < n; i++ {
		if len(l.endAt[i]) == 0 {
			continue
		}
		before := len(l.nodes)
		for m := range lex.Lookup(text, i) {
			l.add(i, m)
		}
		matched := len(l.nodes) > before
		if provider != nil {
			for _, m := range provider.Provide(text, i, matched) {
				l.add(i, m)
			}
		}
		if len(l.nodes) == before {
			l.logger.Printf("[LATTICE] no candidate at %d (%q), using single-character fallback", i, text[i])
			l.add(i, dictionary.Match{Length: 1, Entry: oov.Entry(string(text[i]), oov.Params{Cost: oov.DefaultCost})})
		}
	}

	if len(l.endAt[n]) == 0 {
		err := &model.NoPathError{Position: n, Length: n}
		l.logger.Printf("[LATTICE] defect: %v", err)
		return nil, err
	}
	l.eos = l.insert(n, n, boundary)
	return l, nil
}

func (l *Lattice) add(begin int, m dictionary.Match) {
	if m.Entry == nil || m.Length <= 0 || begin+m.Length > len(l.text) {
		return
	}
	l.insert(begin, begin+m.Length, m.Entry)
}

// insert connects the new node to its cheapest predecessor. Predecessors are
// visited in insertion order and only a strictly lower cost replaces the
// current best, so ties go to the earliest candidate.
func (l *Lattice) insert(begin, end int, e *dictionary.Entry) int {
	best, prev := int64(math.MaxInt64), -1
	for _, p := range l.endAt[begin] {
		pn := &l.nodes[p]
		c := pn.Total + int64(l.grammar.ConnectCost(pn.Entry.RightID, e.LeftID))
		if c < best {
			best, prev = c, p
		}
	}
	idx := len(l.nodes)
	l.nodes = append(l.nodes, Node{Begin: begin, End: end, Entry: e, Total: best + int64(e.Cost), Prev: prev})
	if end < len(l.endAt) {
		l.endAt[end] = append(l.endAt[end], idx)
	}
	return idx
}

// Text is the analyzed text.
func (l *Lattice) Text() []rune { return l.text }

// Len is the number of nodes, anchors included.
func (l *Lattice) Len() int { return len(l.nodes) }

// BestPath returns the minimum-cost node sequence from BOS to EOS, anchors
// excluded. Cost ties are broken by insertion order.
func (l *Lattice) BestPath() ([]Node, error) {
	if l.eos < 0 {
		return nil, &model.NoPathError{Position: len(l.text), Length: len(l.text)}
	}
	var path []Node
	for i := l.nodes[l.eos].Prev; i > bosIndex; i = l.nodes[i].Prev {
		path = append(path, l.nodes[i])
	}
	for a, b := 0, len(path)-1; a < b; a, b = a+1, b-1 {
		path[a], path[b] = path[b], path[a]
	}
	return path, nil
}

// Cost is the total cost of the best path.
func (l *Lattice) Cost() int64 {
	if l.eos < 0 {
		return 0
	}
	return l.nodes[l.eos].Total
}

// DumpNode is the JSON form of one lattice node.
type DumpNode struct {
	Index        int    `json:"index"`
	Begin        int    `json:"begin"`
	End          int    `json:"end"`
	Surface      string `json:"surface"`
	LeftID       int16  `json:"left_id"`
	RightID      int16  `json:"right_id"`
	Cost         int16  `json:"cost"`
	Total        int64  `json:"total"`
	Prev         int    `json:"prev"`
	WordID       int32  `json:"word_id"`
	DictionaryID int    `json:"dictionary_id"`
	OOV          bool   `json:"oov,omitempty"`
	Best         bool   `json:"best,omitempty"`
}

// Dump lists every node in insertion order, marking the best path.
func (l *Lattice) Dump() []DumpNode {
	onPath := make(map[int]bool)
	if l.eos >= 0 {
		for i := l.eos; i >= 0; i = l.nodes[i].Prev {
			onPath[i] = true
		}
	}
	out := make([]DumpNode, len(l.nodes))
	for i, n := range l.nodes {
		out[i] = DumpNode{
			Index:        i,
			Begin:        n.Begin,
			End:          n.End,
			Surface:      n.Entry.Surface,
			LeftID:       n.Entry.LeftID,
			RightID:      n.Entry.RightID,
			Cost:         n.Entry.Cost,
			Total:        n.Total,
			Prev:         n.Prev,
			WordID:       n.Entry.WordID,
			DictionaryID: n.Entry.DictionaryID,
			OOV:          n.Entry.OOV,
			Best:         onPath[i],
		}
	}
	return out
}
