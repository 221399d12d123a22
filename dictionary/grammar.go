package dictionary

import "strings"

// MatrixGrammar is a dense connection matrix with a POS table.
// Costs outside the matrix are zero.
type MatrixGrammar struct {
	rows, cols int
	costs      []int16
	pos        [][]string
	posIndex   map[string]int16
}

// NewMatrixGrammar allocates a rows x cols matrix; rows are right classes
// of the preceding node, columns left classes of the following one.
func NewMatrixGrammar(rows, cols int) *MatrixGrammar {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	return &MatrixGrammar{
		rows:     rows,
		cols:     cols,
		costs:    make([]int16, rows*cols),
		posIndex: make(map[string]int16),
	}
}

// SetCost must be called before the grammar is shared.
func (g *MatrixGrammar) SetCost(rightID, leftID, cost int16) {
	if int(rightID) < 0 || int(rightID) >= g.rows || int(leftID) < 0 || int(leftID) >= g.cols {
		return
	}
	g.costs[int(rightID)*g.cols+int(leftID)] = cost
}

func (g *MatrixGrammar) ConnectCost(rightID, leftID int16) int16 {
	if int(rightID) < 0 || int(rightID) >= g.rows || int(leftID) < 0 || int(leftID) >= g.cols {
		return 0
	}
	return g.costs[int(rightID)*g.cols+int(leftID)]
}

// AddPOS interns a part-of-speech tuple and returns its id.
func (g *MatrixGrammar) AddPOS(pos ...string) int16 {
	key := strings.Join(pos, ",")
	if id, ok := g.posIndex[key]; ok {
		return id
	}
	id := int16(len(g.pos))
	g.pos = append(g.pos, append([]string(nil), pos...))
	g.posIndex[key] = id
	return id
}

func (g *MatrixGrammar) PartOfSpeech(posID int16) []string {
	if posID < 0 || int(posID) >= len(g.pos) {
		return nil
	}
	return g.pos[posID]
}

func (g *MatrixGrammar) PartOfSpeechID(pos []string) (int16, bool) {
	id, ok := g.posIndex[strings.Join(pos, ",")]
	return id, ok
}

// POSCount is the number of interned part-of-speech tuples.
func (g *MatrixGrammar) POSCount() int { return len(g.pos) }
