package grammar

import "fmt"

// Symbol is a dense id assigned to a symbol text by a SymbolTable.
// Non-terminals and words share the same id space; whether an id denotes
// a word is decided by the grammar's lexicon, not by the id itself.
type Symbol int

// SymbolNil is never issued for a real symbol. ToSymbol returns it on a
// miss.
const SymbolNil = Symbol(0)

func (s Symbol) IsNil() bool {
	return s == SymbolNil
}

func (s Symbol) Int() int {
	return int(s)
}

// SymbolTable is a bijection between symbol texts and Symbols. Ids are
// issued in ascending order starting at 1 and are never reclaimed.
type SymbolTable struct {
	text2Sym map[string]Symbol
	sym2Text []string
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		text2Sym: map[string]Symbol{},
		sym2Text: []string{
			"", // SymbolNil
		},
	}
}

// Intern returns the id already assigned to text, or assigns the next
// ascending id. It never fails.
func (t *SymbolTable) Intern(text string) Symbol {
	if sym, ok := t.text2Sym[text]; ok {
		return sym
	}
	sym := Symbol(len(t.sym2Text))
	t.text2Sym[text] = sym
	t.sym2Text = append(t.sym2Text, text)
	return sym
}

// ToSymbol looks text up without interning it.
func (t *SymbolTable) ToSymbol(text string) (Symbol, bool) {
	if sym, ok := t.text2Sym[text]; ok {
		return sym, true
	}
	return SymbolNil, false
}

// Text returns the text sym was issued for. Passing an id the table never
// issued is a caller bug and reports an error.
func (t *SymbolTable) Text(sym Symbol) (string, error) {
	if sym.IsNil() || sym.Int() >= len(t.sym2Text) {
		return "", fmt.Errorf("unknown symbol: %v", sym.Int())
	}
	return t.sym2Text[sym.Int()], nil
}

// Len returns the number of issued ids.
func (t *SymbolTable) Len() int {
	return len(t.sym2Text) - 1
}
