package parser

import (
	"github.com/mbisping/earley/grammar"
)

// Indicator is a sign of life for long derivations. Run is called once
// per processed item and Cancel once per finished parse; both are purely
// cosmetic.
type Indicator interface {
	Run()
	Cancel()
}

// Parser decides whether token sequences are derivable from a grammar's
// start symbol by filling an Earley chart to fixpoint.
//
// Terminal rules are handled in one of two modes. With lexicon rules
// enabled, productions like `V --> goes` may appear in the grammar and
// Predict filters them out via the grammar's lexicon so cells are not
// flooded with lexical productions. With lexicon rules disabled, the
// grammar must not contain terminal rules and Predict skips items whose
// next symbol is a POS tag, since there is nothing to predict from a tag.
// Scan and Complete behave identically in both modes.
type Parser struct {
	grammar      *grammar.Grammar
	tags         map[grammar.Symbol]struct{}
	tagWords     map[grammar.Symbol]map[string]struct{}
	lexiconRules bool
	indicator    Indicator

	chart       *Chart
	toProcess   *ItemSet
	predictBuf  *ItemSet
	completeBuf *ItemSet
}

type ParserOption func(p *Parser)

// LexiconRules makes the parser expect terminal rules in the grammar and
// filter them during Predict.
func LexiconRules() ParserOption {
	return func(p *Parser) {
		p.lexiconRules = true
	}
}

// WithIndicator attaches a busy indicator stepped during recognition.
func WithIndicator(ind Indicator) ParserOption {
	return func(p *Parser) {
		p.indicator = ind
	}
}

// NewParser builds a parser over g. tags is the set of POS-tag ids and
// tagWords maps each tag to the words that can bear it.
func NewParser(g *grammar.Grammar, tags map[grammar.Symbol]struct{}, tagWords map[grammar.Symbol]map[string]struct{}, opts ...ParserOption) *Parser {
	p := &Parser{
		grammar:     g,
		tags:        tags,
		tagWords:    tagWords,
		chart:       NewChart(),
		toProcess:   NewItemSet(),
		predictBuf:  NewItemSet(),
		completeBuf: NewItemSet(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reports whether sentence is derivable from the start symbol.
// The chart from the previous call is discarded. Scanning may intern
// tokens the grammar has not seen before, so a parser must not be shared
// across goroutines.
func (p *Parser) Parse(sentence []string) bool {
	p.chart.Initialise(sentence, p.grammar.StartRule())

	for k := 0; k < p.chart.Size(); k++ {
		p.toProcess.Reset()
		p.toProcess.AddAll(p.chart.Cell(k))

		// Run Predict, Scan, and Complete over the working set until a
		// full pass adds nothing. Predicted and completed items go into
		// buffers first so the pass iterates over a stable snapshot;
		// scanned items go straight into cell k+1, which this loop never
		// revisits.
		for {
			progressed := false
			for _, it := range p.toProcess.Items() {
				if p.indicator != nil {
					p.indicator.Run()
				}
				if !it.Complete() {
					_, isTag := p.tags[it.Next()]
					if p.lexiconRules || !isTag {
						if p.predict(it, k) {
							progressed = true
						}
					}
					if isTag {
						p.scan(it)
					}
				} else if p.complete(it, k) {
					progressed = true
				}
			}

			p.chart.Cell(k).AddAll(p.toProcess)
			p.toProcess.Reset()
			p.toProcess.AddAll(p.predictBuf)
			p.toProcess.AddAll(p.completeBuf)
			p.predictBuf.Reset()
			p.completeBuf.Reset()

			if !progressed {
				break
			}
		}
	}

	if p.indicator != nil {
		p.indicator.Cancel()
	}
	return p.chart.Cell(p.chart.Size() - 1).Contains(p.chart.FinalItem())
}

// Chart exposes the chart filled by the last Parse call as a diagnostic.
func (p *Parser) Chart() *Chart {
	return p.chart
}

// predict adds an item at position k for every rule deriving it.Next().
// With lexicon rules enabled, rules whose RHS starts with a word are
// dropped here; a symbol may double as a POS tag and a category (both
// `A --> A` and `A --> a` in the grammar), in which case the non-terminal
// rules still have to be predicted.
func (p *Parser) predict(it *Item, k int) bool {
	anyNew := false
	for _, r := range p.grammar.RulesWithLHS(it.Next()) {
		if p.lexiconRules {
			rhs := r.RHS()
			if len(rhs) > 0 && p.grammar.IsWord(rhs[0]) {
				continue
			}
		}
		predicted := NewItem(r, 0, it.To(), it.To())
		if p.chart.Contains(k, predicted) || p.toProcess.Contains(predicted) {
			continue
		}
		if p.predictBuf.Add(predicted) {
			anyNew = true
		}
	}
	return anyNew
}

// scan matches the POS tag at the dot against the current token. On a
// match it synthesizes a terminal rule for the token and places the
// resulting item directly into the next cell. This is the only operation
// that reaches across cells.
func (p *Parser) scan(it *Item) {
	if it.To()+1 >= p.chart.Size() {
		return
	}
	words, ok := p.tagWords[it.Next()]
	if !ok {
		return
	}
	word := p.chart.Word(it.To())
	if _, ok := words[word]; !ok {
		return
	}
	wordSym := p.grammar.Intern(word)
	r := grammar.NewRule([][]grammar.Symbol{{it.Next()}, {wordSym}}, 1)
	p.chart.Insert(it.To()+1, NewItem(r, 1, it.To(), it.To()+1))
}

// complete advances every item in cell it.From() that was waiting for
// its category.
func (p *Parser) complete(it *Item, k int) bool {
	anyNew := false
	for _, waiting := range p.chart.Cell(it.From()).Items() {
		if waiting.Complete() || waiting.Next() != it.LHS() {
			continue
		}
		advanced := NewItem(waiting.Rule(), waiting.Dot()+1, waiting.From(), it.To())
		if p.chart.Contains(k, advanced) || p.toProcess.Contains(advanced) {
			continue
		}
		if p.completeBuf.Add(advanced) {
			anyNew = true
		}
	}
	return anyNew
}
