package parser

import (
	"strings"
	"testing"

	"github.com/mbisping/earley/grammar"
)

const arithGrammar = `S --> S + S
S --> S * S
S --> ( S )
S --> a
`

// identityTags declares every given text a POS tag that matches exactly
// itself, which makes grammar terminals scannable without a word file.
func identityTags(g *grammar.Grammar, texts ...string) (map[grammar.Symbol]struct{}, map[grammar.Symbol]map[string]struct{}) {
	tags := map[grammar.Symbol]struct{}{}
	tagWords := map[grammar.Symbol]map[string]struct{}{}
	for _, text := range texts {
		sym := g.Intern(text)
		tags[sym] = struct{}{}
		tagWords[sym] = map[string]struct{}{text: {}}
	}
	return tags, tagWords
}

func arithParser(t *testing.T) *Parser {
	t.Helper()
	g := testGrammar(t, arithGrammar)
	tags, tagWords := identityTags(g, "a", "+", "*", "(", ")")
	return NewParser(g, tags, tagWords)
}

func TestParse_Arithmetic(t *testing.T) {
	tests := []struct {
		sentence string
		accept   bool
	}{
		{sentence: "a", accept: true},
		{sentence: "a + a", accept: true},
		{sentence: "a + a * a", accept: true},
		{sentence: "( a + a ) * a", accept: true},
		{sentence: "a +", accept: false},
		{sentence: "+ a", accept: false},
		{sentence: "a a", accept: false},
		{sentence: "( a", accept: false},
	}
	p := arithParser(t)
	for _, tt := range tests {
		t.Run(tt.sentence, func(t *testing.T) {
			if got := p.Parse(strings.Fields(tt.sentence)); got != tt.accept {
				t.Fatalf("Parse(%q) = %v, want %v", tt.sentence, got, tt.accept)
			}
		})
	}
}

const nlGrammar = `S --> NP VP
NP --> Det N
VP --> V NP
`

func nlLexicon(g *grammar.Grammar) (map[grammar.Symbol]struct{}, map[grammar.Symbol]map[string]struct{}) {
	entries := map[string][]string{
		"Det": {"the"},
		"N":   {"dog", "cat"},
		"V":   {"sees"},
	}
	tags := map[grammar.Symbol]struct{}{}
	tagWords := map[grammar.Symbol]map[string]struct{}{}
	for tag, words := range entries {
		sym := g.Intern(tag)
		tags[sym] = struct{}{}
		tagWords[sym] = map[string]struct{}{}
		for _, word := range words {
			tagWords[sym][word] = struct{}{}
		}
	}
	return tags, tagWords
}

func TestParse_TagFilteredMode(t *testing.T) {
	g := testGrammar(t, nlGrammar)
	tags, tagWords := nlLexicon(g)
	p := NewParser(g, tags, tagWords)

	tests := []struct {
		sentence string
		accept   bool
	}{
		{sentence: "the dog sees the cat", accept: true},
		{sentence: "the cat sees the dog", accept: true},
		{sentence: "dog the sees cat the", accept: false},
		{sentence: "the dog sees", accept: false},
		{sentence: "the dog barks", accept: false},
	}
	for _, tt := range tests {
		t.Run(tt.sentence, func(t *testing.T) {
			if got := p.Parse(strings.Fields(tt.sentence)); got != tt.accept {
				t.Fatalf("Parse(%q) = %v, want %v", tt.sentence, got, tt.accept)
			}
		})
	}
}

// In lexicon mode the grammar itself carries the terminal rules and the
// lexicon keeps Predict from flooding cells with them.
func TestParse_LexiconMode(t *testing.T) {
	g := testGrammar(t, nlGrammar+`Det --> the
N --> dog
N --> cat
V --> sees
`)
	tags, tagWords := nlLexicon(g)
	lexicon := map[grammar.Symbol]struct{}{}
	for _, word := range []string{"the", "dog", "cat", "sees"} {
		lexicon[g.Intern(word)] = struct{}{}
	}
	g.InjectLexicon(lexicon)
	p := NewParser(g, tags, tagWords, LexiconRules())

	tests := []struct {
		sentence string
		accept   bool
	}{
		{sentence: "the dog sees the cat", accept: true},
		{sentence: "dog the sees cat the", accept: false},
	}
	for _, tt := range tests {
		t.Run(tt.sentence, func(t *testing.T) {
			if got := p.Parse(strings.Fields(tt.sentence)); got != tt.accept {
				t.Fatalf("Parse(%q) = %v, want %v", tt.sentence, got, tt.accept)
			}
		})
	}
}

// A symbol may serve as a POS tag and as a category at the same time;
// lexicon mode still has to predict the non-terminal rules for it.
func TestParse_LexiconModeWithOverloadedSymbol(t *testing.T) {
	g := testGrammar(t, `S --> A
A --> A A
A --> a
`)
	aTag, _ := g.ToSymbol("A")
	tags := map[grammar.Symbol]struct{}{aTag: {}}
	tagWords := map[grammar.Symbol]map[string]struct{}{
		aTag: {"a": {}},
	}
	lexicon := map[grammar.Symbol]struct{}{g.Intern("a"): {}}
	g.InjectLexicon(lexicon)
	p := NewParser(g, tags, tagWords, LexiconRules())

	for _, sentence := range [][]string{{"a"}, {"a", "a"}, {"a", "a", "a"}} {
		if !p.Parse(sentence) {
			t.Fatalf("Parse(%v) = false, want true", sentence)
		}
	}
	if p.Parse([]string{"b"}) {
		t.Fatal("Parse([b]) = true, want false")
	}
}

func TestParse_EmptySentence(t *testing.T) {
	p := arithParser(t)
	if p.Parse(nil) {
		t.Fatal("an ε-free grammar accepted the empty sentence")
	}
}

func TestParse_UnknownSingleToken(t *testing.T) {
	g := testGrammar(t, nlGrammar)
	tags, tagWords := nlLexicon(g)
	p := NewParser(g, tags, tagWords)
	if p.Parse([]string{"zebra"}) {
		t.Fatal("a token outside the lexicon was accepted")
	}
}

func TestParse_UnreachableRulesDoNotAffectAcceptance(t *testing.T) {
	base := arithParser(t)
	g := testGrammar(t, arithGrammar+"Z --> Z Z\nQ --> a Z\n")
	tags, tagWords := identityTags(g, "a", "+", "*", "(", ")")
	extended := NewParser(g, tags, tagWords)

	for _, sentence := range []string{"a", "a + a", "a +", "+ a", "( a + a ) * a"} {
		tokens := strings.Fields(sentence)
		if base.Parse(tokens) != extended.Parse(tokens) {
			t.Fatalf("unreachable rules flipped the decision for %q", sentence)
		}
	}
}

func TestParse_IsDeterministic(t *testing.T) {
	p := arithParser(t)
	tokens := []string{"(", "a", "+", "a", ")", "*", "a"}

	first := p.Parse(tokens)
	sizes := make([]int, p.Chart().Size())
	for i := range sizes {
		sizes[i] = p.Chart().Cell(i).Len()
	}

	for round := 0; round < 3; round++ {
		if got := p.Parse(tokens); got != first {
			t.Fatalf("round %v: Parse() = %v, want %v", round, got, first)
		}
		if p.Chart().Size() != len(sizes) {
			t.Fatalf("round %v: chart size changed", round)
		}
		for i := range sizes {
			if p.Chart().Cell(i).Len() != sizes[i] {
				t.Fatalf("round %v: cell %v holds %v items, want %v", round, i, p.Chart().Cell(i).Len(), sizes[i])
			}
		}
	}
}

// Every item a parse leaves in cell k must end its span at k and stay
// inside the sentence.
func TestParse_ChartInvariants(t *testing.T) {
	p := arithParser(t)
	for _, sentence := range []string{"a", "a + a * a", "a +", ""} {
		tokens := strings.Fields(sentence)
		p.Parse(tokens)
		c := p.Chart()
		n := len(tokens)
		for k := 0; k < c.Size(); k++ {
			for _, it := range c.Cell(k).Items() {
				if it.To() != k {
					t.Fatalf("%q: item in cell %v ends at %v", sentence, k, it.To())
				}
				if it.From() < 0 || it.From() > it.To() || it.To() > n {
					t.Fatalf("%q: item span [%v, %v) is out of range", sentence, it.From(), it.To())
				}
				if it.Dot() < 0 || it.Dot() > len(it.Rule().RHS()) {
					t.Fatalf("%q: dot %v is out of range", sentence, it.Dot())
				}
			}
		}
	}
}

func TestParse_FinalItemPresenceMatchesDecision(t *testing.T) {
	p := arithParser(t)
	for _, tt := range []struct {
		sentence string
		accept   bool
	}{
		{sentence: "a + a", accept: true},
		{sentence: "a +", accept: false},
	} {
		got := p.Parse(strings.Fields(tt.sentence))
		if got != tt.accept {
			t.Fatalf("Parse(%q) = %v, want %v", tt.sentence, got, tt.accept)
		}
		c := p.Chart()
		if c.Cell(c.Size()-1).Contains(c.FinalItem()) != tt.accept {
			t.Fatalf("%q: final item presence disagrees with the decision", tt.sentence)
		}
	}
}
