package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/mbisping/earley/grammar"
)

// eosToken terminates the token buffer. The angle brackets keep it from
// colliding with user-supplied tokens.
const eosToken = "<eos>"

// Chart is a vector of item sets, one per input position, plus the token
// buffer the sets describe. Cell k holds every item whose span ends at k.
// A chart is cleared and re-initialised for each sentence; after a parse
// it is read-only until the next one.
type Chart struct {
	cells     []*ItemSet
	tokens    []string
	finalItem *Item
}

func NewChart() *Chart {
	return &Chart{}
}

// Initialise sizes the chart at len(tokens)+1 empty cells, stores the
// tokens followed by the end-of-stream marker, seeds cell 0 with the
// start item, and records the final item whose presence in the last cell
// signals acceptance.
func (c *Chart) Initialise(tokens []string, start *grammar.Rule) {
	n := len(tokens)
	c.cells = make([]*ItemSet, n+1)
	for i := range c.cells {
		c.cells[i] = NewItemSet()
	}
	c.tokens = make([]string, 0, n+1)
	c.tokens = append(c.tokens, tokens...)
	c.tokens = append(c.tokens, eosToken)
	c.Insert(0, NewItem(start, 0, 0, 0))
	c.finalItem = NewItem(start, len(start.RHS()), 0, n)
}

// Insert adds item to cell i. Inserting an item already present is a
// no-op. The index must be in range; the chart never grows after
// Initialise.
func (c *Chart) Insert(i int, item *Item) bool {
	return c.cell(i).Add(item)
}

func (c *Chart) Contains(i int, item *Item) bool {
	return c.cell(i).Contains(item)
}

// Cell returns the item set at position i.
func (c *Chart) Cell(i int) *ItemSet {
	return c.cell(i)
}

func (c *Chart) cell(i int) *ItemSet {
	if i < 0 || i >= len(c.cells) {
		panic(fmt.Sprintf("chart index %v exceeds %v cells", i, len(c.cells)))
	}
	return c.cells[i]
}

// Word returns the token at position i; position Size()-1 holds the
// end-of-stream marker.
func (c *Chart) Word(i int) string {
	if i < 0 || i >= len(c.tokens) {
		panic(fmt.Sprintf("token index %v exceeds %v tokens", i, len(c.tokens)))
	}
	return c.tokens[i]
}

// FinalItem returns the completed start item for the current sentence.
func (c *Chart) FinalItem() *Item {
	return c.finalItem
}

// Size returns the number of cells, which always equals the number of
// buffered tokens.
func (c *Chart) Size() int {
	return len(c.cells)
}

// Dump writes every cell and its items to w, one dotted rule per line.
func (c *Chart) Dump(w io.Writer, g *grammar.Grammar) {
	for i, cell := range c.cells {
		fmt.Fprintf(w, "CHART[%v] ('%v')\n", i, c.tokens[i])
		for _, it := range cell.Items() {
			fmt.Fprintf(w, "    %v\n", it.Format(g))
		}
		fmt.Fprintln(w, strings.Repeat("_", 40))
	}
}
