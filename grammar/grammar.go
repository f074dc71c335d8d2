package grammar

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	verr "github.com/mbisping/earley/error"
)

const (
	defaultSuperStart = "$"
	defaultStart      = "S"
	defaultSeparator  = "-->"
)

type config struct {
	superStart string
	start      string
	separator  string
}

type GrammarOption func(c *config)

// SuperStart overrides the synthetic top-level symbol (default "$").
func SuperStart(text string) GrammarOption {
	return func(c *config) {
		c.superStart = text
	}
}

// Start overrides the user start symbol (default "S").
func Start(text string) GrammarOption {
	return func(c *config) {
		c.start = text
	}
}

// Separator overrides the token separating rule sides (default "-->").
func Separator(text string) GrammarOption {
	return func(c *config) {
		c.separator = text
	}
}

// Grammar is a set of productions indexed by their LHS symbol, together
// with the symbol table all of its ids live in and the lexicon of word
// ids. Construction injects the start rule `$ --> S` before any user
// rule, so the start and super-start symbols always exist.
type Grammar struct {
	symTab    *SymbolTable
	rules     *ruleSet
	start     *Rule
	lexicon   map[Symbol]struct{}
	separator string
}

// New reads one rule per line from src, skipping blank lines. The whole
// source is consumed through a buffered scanner, so src may be a pipe or
// any other non-seekable stream. A malformed rule aborts construction.
func New(src io.Reader, opts ...GrammarOption) (*Grammar, error) {
	c := &config{
		superStart: defaultSuperStart,
		start:      defaultStart,
		separator:  defaultSeparator,
	}
	for _, opt := range opts {
		opt(c)
	}

	g := &Grammar{
		symTab:    NewSymbolTable(),
		rules:     newRuleSet(),
		separator: c.separator,
	}

	start, err := g.ParseRule(fmt.Sprintf("%v %v %v", c.superStart, c.separator, c.start))
	if err != nil {
		return nil, err
	}
	g.start = start
	g.rules.append(start)

	row := 0
	s := bufio.NewScanner(src)
	for s.Scan() {
		row++
		line := s.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rule, err := g.ParseRule(line)
		if err != nil {
			return nil, &verr.FormatError{
				Cause: err,
				Row:   row,
				Line:  line,
			}
		}
		g.rules.append(rule)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	return g, nil
}

// ParseRule builds a rule from its textual form. The line is
// whitespace-tokenized and must consist of a non-empty single-token LHS,
// the separator, and at least one RHS token, with no further occurrence
// of the separator.
func (g *Grammar) ParseRule(line string) (*Rule, error) {
	tokens := strings.Fields(line)
	if len(tokens) < 3 {
		return nil, fmt.Errorf("a rule needs an LHS, %q, and at least one RHS symbol", g.separator)
	}
	if tokens[1] != g.separator {
		return nil, fmt.Errorf("%q must follow a single-token LHS", g.separator)
	}
	if tokens[0] == g.separator {
		return nil, fmt.Errorf("%q may occur just once in a rule", g.separator)
	}
	for _, tok := range tokens[2:] {
		if tok == g.separator {
			return nil, fmt.Errorf("%q may occur just once in a rule", g.separator)
		}
	}

	lhs := []Symbol{g.symTab.Intern(tokens[0])}
	rhs := make([]Symbol, 0, len(tokens)-2)
	for _, tok := range tokens[2:] {
		rhs = append(rhs, g.symTab.Intern(tok))
	}
	return NewRule([][]Symbol{lhs, rhs}, 1), nil
}

// StartRule returns the injected `$ --> S` production.
func (g *Grammar) StartRule() *Rule {
	return g.start
}

// RulesWithLHS returns all rules whose LHS is lhs. An unknown LHS yields
// nil without allocating.
func (g *Grammar) RulesWithLHS(lhs Symbol) []*Rule {
	return g.rules.findByLHS(lhs)
}

// RuleCount returns the number of distinct rules, the start rule included.
func (g *Grammar) RuleCount() int {
	return g.rules.count()
}

// InjectLexicon sets the word-id set used by IsWord. Idempotent.
func (g *Grammar) InjectLexicon(lexicon map[Symbol]struct{}) {
	g.lexicon = lexicon
}

// IsWord reports whether sym is an input word according to the lexicon.
func (g *Grammar) IsWord(sym Symbol) bool {
	_, ok := g.lexicon[sym]
	return ok
}

// Intern maps text to its id, issuing a fresh one if needed.
func (g *Grammar) Intern(text string) Symbol {
	return g.symTab.Intern(text)
}

// ToSymbol maps text to its id without interning.
func (g *Grammar) ToSymbol(text string) (Symbol, bool) {
	return g.symTab.ToSymbol(text)
}

// Text maps an issued id back to its text.
func (g *Grammar) Text(sym Symbol) (string, error) {
	return g.symTab.Text(sym)
}

// Separator returns the side-separating token used in textual rules.
func (g *Grammar) Separator() string {
	return g.separator
}

// FormatRule renders rule in its textual form, e.g. "NP --> Det N".
func (g *Grammar) FormatRule(rule *Rule) string {
	return rule.format(g.symTab, g.separator)
}
