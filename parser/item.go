package parser

import (
	"strings"

	"github.com/mbisping/earley/grammar"
)

const hashSeed = uint64(0x9e3779b97f4a7c15)

func mixHash(h, v uint64) uint64 {
	h ^= v + hashSeed + (h << 6) + (h >> 2)
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	return h
}

// Item is a dotted rule covering the input span [from, to). Items are
// value-typed: two items are equal iff rule, dot, from, and to all match,
// and that identity is what chart cells deduplicate on.
type Item struct {
	rule *grammar.Rule
	dot  int
	from int
	to   int
	hash uint64
}

func NewItem(rule *grammar.Rule, dot, from, to int) *Item {
	// dot, from, and to are mixed separately so that transposed spans
	// land in different buckets.
	h := rule.Hash()
	h = mixHash(h, uint64(dot))
	h = mixHash(h, uint64(from))
	h = mixHash(h, uint64(to))
	return &Item{
		rule: rule,
		dot:  dot,
		from: from,
		to:   to,
		hash: h,
	}
}

func (it *Item) Rule() *grammar.Rule {
	return it.rule
}

func (it *Item) Dot() int {
	return it.dot
}

func (it *Item) From() int {
	return it.from
}

func (it *Item) To() int {
	return it.to
}

// Complete reports whether the dot is past the last RHS symbol.
func (it *Item) Complete() bool {
	return it.dot >= len(it.rule.RHS())
}

// Next returns the RHS symbol at the dot. The item must be incomplete.
func (it *Item) Next() grammar.Symbol {
	return it.rule.RHS()[it.dot]
}

// LHS returns the rule's category symbol.
func (it *Item) LHS() grammar.Symbol {
	return it.rule.LHS()[0]
}

func (it *Item) Equal(o *Item) bool {
	if it == o {
		return true
	}
	return it.dot == o.dot &&
		it.from == o.from &&
		it.to == o.to &&
		it.rule.Equal(o.rule)
}

func (it *Item) Hash() uint64 {
	return it.hash
}

// Format renders the item as a dotted rule, e.g. "NP --> Det . N".
// The grammar translates ids back to texts; items carry no reference to
// it themselves.
func (it *Item) Format(g *grammar.Grammar) string {
	var b strings.Builder
	text, err := g.Text(it.LHS())
	if err != nil {
		text = "?"
	}
	b.WriteString(text)
	b.WriteString(" ")
	b.WriteString(g.Separator())
	rhs := it.rule.RHS()
	for _, sym := range rhs[:it.dot] {
		text, err := g.Text(sym)
		if err != nil {
			text = "?"
		}
		b.WriteString(" ")
		b.WriteString(text)
	}
	b.WriteString(" .")
	for _, sym := range rhs[it.dot:] {
		text, err := g.Text(sym)
		if err != nil {
			text = "?"
		}
		b.WriteString(" ")
		b.WriteString(text)
	}
	return b.String()
}

// ItemSet is a set of items keyed by item identity. Hash collisions fall
// back to Equal within a bucket.
type ItemSet struct {
	buckets map[uint64][]*Item
	size    int
}

func NewItemSet() *ItemSet {
	return &ItemSet{
		buckets: map[uint64][]*Item{},
	}
}

// Add inserts it unless an equal item is present. It reports whether the
// set grew, so inserting twice is a no-op.
func (s *ItemSet) Add(it *Item) bool {
	for _, o := range s.buckets[it.hash] {
		if o.Equal(it) {
			return false
		}
	}
	s.buckets[it.hash] = append(s.buckets[it.hash], it)
	s.size++
	return true
}

func (s *ItemSet) Contains(it *Item) bool {
	for _, o := range s.buckets[it.hash] {
		if o.Equal(it) {
			return true
		}
	}
	return false
}

func (s *ItemSet) Len() int {
	return s.size
}

// Items returns a snapshot of the set's members in unspecified order.
func (s *ItemSet) Items() []*Item {
	items := make([]*Item, 0, s.size)
	for _, bucket := range s.buckets {
		items = append(items, bucket...)
	}
	return items
}

// AddAll folds every member of o into s.
func (s *ItemSet) AddAll(o *ItemSet) {
	for _, bucket := range o.buckets {
		for _, it := range bucket {
			s.Add(it)
		}
	}
}

// Reset empties the set for reuse.
func (s *ItemSet) Reset() {
	s.buckets = map[uint64][]*Item{}
	s.size = 0
}
