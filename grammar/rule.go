package grammar

import "strings"

const hashSeed = uint64(0x9e3779b97f4a7c15)

// mixHash folds v into h with a multiplicative xor-shift step. The result
// is order-sensitive, so sequences hash by their exact element order.
// Good enough for hash-set use; not cryptographic.
func mixHash(h, v uint64) uint64 {
	h ^= v + hashSeed + (h << 6) + (h >> 2)
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	return h
}

// Rule is one immutable production. sides holds the rule's sides over
// interned symbols; the LHS occupies sides[:rhsBegin] and the RHS is
// sides[rhsBegin:] flattened. For a CFG, sides has exactly two entries
// and rhsBegin is 1.
type Rule struct {
	sides    [][]Symbol
	rhsBegin int
	rhs      []Symbol
	hash     uint64
}

func NewRule(sides [][]Symbol, rhsBegin int) *Rule {
	n := 0
	for _, side := range sides[rhsBegin:] {
		n += len(side)
	}
	rhs := make([]Symbol, 0, n)
	for _, side := range sides[rhsBegin:] {
		rhs = append(rhs, side...)
	}

	h := hashSeed
	for _, side := range sides {
		for _, sym := range side {
			h = mixHash(h, uint64(sym))
		}
		// Side boundaries participate so A B-->C and A-->B C differ.
		h = mixHash(h, uint64(len(side)))
	}

	return &Rule{
		sides:    sides,
		rhsBegin: rhsBegin,
		rhs:      rhs,
		hash:     h,
	}
}

// LHS returns the first LHS side. The grammar only ever builds rules with
// a single-symbol LHS, so callers treat LHS()[0] as the rule's category.
func (r *Rule) LHS() []Symbol {
	return r.sides[0]
}

func (r *Rule) RHS() []Symbol {
	return r.rhs
}

func (r *Rule) Sides() [][]Symbol {
	return r.sides
}

// Equal compares the sides sequences elementwise. rhsBegin is a layout
// hint and does not participate.
func (r *Rule) Equal(o *Rule) bool {
	if r == o {
		return true
	}
	if r.hash != o.hash || len(r.sides) != len(o.sides) {
		return false
	}
	for i, side := range r.sides {
		if len(side) != len(o.sides[i]) {
			return false
		}
		for j, sym := range side {
			if sym != o.sides[i][j] {
				return false
			}
		}
	}
	return true
}

func (r *Rule) Hash() uint64 {
	return r.hash
}

// ruleSet indexes rules by their single LHS symbol and deduplicates them
// by value. Hash collisions fall back to Equal within a bucket.
type ruleSet struct {
	lhs2Rules map[Symbol][]*Rule
	byHash    map[uint64][]*Rule
}

func newRuleSet() *ruleSet {
	return &ruleSet{
		lhs2Rules: map[Symbol][]*Rule{},
		byHash:    map[uint64][]*Rule{},
	}
}

// append adds rule unless an equal rule is already present. It reports
// whether the set grew.
func (rs *ruleSet) append(rule *Rule) bool {
	for _, r := range rs.byHash[rule.hash] {
		if r.Equal(rule) {
			return false
		}
	}
	rs.byHash[rule.hash] = append(rs.byHash[rule.hash], rule)
	lhs := rule.LHS()[0]
	rs.lhs2Rules[lhs] = append(rs.lhs2Rules[lhs], rule)
	return true
}

// findByLHS returns all rules with the given LHS symbol. The miss path
// returns nil without allocating.
func (rs *ruleSet) findByLHS(lhs Symbol) []*Rule {
	return rs.lhs2Rules[lhs]
}

func (rs *ruleSet) count() int {
	n := 0
	for _, rules := range rs.lhs2Rules {
		n += len(rules)
	}
	return n
}

// format renders the rule in its textual form using tab to translate ids
// back to texts and sep as the side separator.
func (r *Rule) format(tab *SymbolTable, sep string) string {
	var b strings.Builder
	for i, sym := range r.LHS() {
		if i > 0 {
			b.WriteString(" ")
		}
		text, err := tab.Text(sym)
		if err != nil {
			text = "?"
		}
		b.WriteString(text)
	}
	b.WriteString(" ")
	b.WriteString(sep)
	for _, sym := range r.RHS() {
		b.WriteString(" ")
		text, err := tab.Text(sym)
		if err != nil {
			text = "?"
		}
		b.WriteString(text)
	}
	return b.String()
}
