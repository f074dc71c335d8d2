// Package loader reads the tag, word, and sentence formats surrounding
// the recognizer. All sources are tokenized by a shared DFA lexer and
// fully buffered on the way through, so none of them needs to be
// seekable.
package loader

import (
	"fmt"
	"io"
	"strings"

	verr "github.com/mbisping/earley/error"
	"github.com/mbisping/earley/grammar"
)

// Lexicon is the word knowledge loaded from a word file.
type Lexicon struct {
	// TagWords maps each POS tag to the words that can bear it.
	TagWords map[grammar.Symbol]map[string]struct{}

	// Words holds the interned id of every word, for grammars that carry
	// terminal rules.
	Words map[grammar.Symbol]struct{}
}

// LoadTags reads one POS tag per line, interning each through g. Blank
// lines are skipped; a line with more than one token is malformed.
func LoadTags(src io.Reader, g *grammar.Grammar) (map[grammar.Symbol]struct{}, error) {
	tags := map[grammar.Symbol]struct{}{}
	s, err := newLineScanner(src)
	if err != nil {
		return nil, err
	}
	row := 0
	for {
		tokens, ok, err := s.scan()
		if err != nil {
			return nil, err
		}
		if !ok {
			return tags, nil
		}
		row++
		if len(tokens) == 0 {
			continue
		}
		if len(tokens) != 1 {
			return nil, &verr.FormatError{
				Cause: fmt.Errorf("a tag entry is a single token"),
				Row:   row,
				Line:  strings.Join(tokens, " "),
			}
		}
		tags[g.Intern(tokens[0])] = struct{}{}
	}
}

// LoadWords reads one lexical entry per line: one or more word tokens
// followed by the POS tag bearing them. The word tokens join with single
// spaces, so multi-word entries are allowed. Blank lines are skipped; a
// line with fewer than two tokens is malformed.
func LoadWords(src io.Reader, g *grammar.Grammar) (*Lexicon, error) {
	lex := &Lexicon{
		TagWords: map[grammar.Symbol]map[string]struct{}{},
		Words:    map[grammar.Symbol]struct{}{},
	}
	s, err := newLineScanner(src)
	if err != nil {
		return nil, err
	}
	row := 0
	for {
		tokens, ok, err := s.scan()
		if err != nil {
			return nil, err
		}
		if !ok {
			return lex, nil
		}
		row++
		if len(tokens) == 0 {
			continue
		}
		if len(tokens) < 2 {
			return nil, &verr.FormatError{
				Cause: fmt.Errorf("a word entry is at least one token followed by a tag"),
				Row:   row,
				Line:  strings.Join(tokens, " "),
			}
		}
		word := strings.Join(tokens[:len(tokens)-1], " ")
		tag := g.Intern(tokens[len(tokens)-1])
		words, ok := lex.TagWords[tag]
		if !ok {
			words = map[string]struct{}{}
			lex.TagWords[tag] = words
		}
		words[word] = struct{}{}
		lex.Words[g.Intern(word)] = struct{}{}
	}
}

// LoadSentences reads whitespace-separated tokens from src; blank lines
// separate sentences. A trailing sentence without a closing blank line is
// still yielded.
func LoadSentences(src io.Reader) ([][]string, error) {
	s, err := newLineScanner(src)
	if err != nil {
		return nil, err
	}
	var sentences [][]string
	var sentence []string
	for {
		tokens, ok, err := s.scan()
		if err != nil {
			return nil, err
		}
		if !ok {
			if len(sentence) > 0 {
				sentences = append(sentences, sentence)
			}
			return sentences, nil
		}
		if len(tokens) == 0 {
			if len(sentence) > 0 {
				sentences = append(sentences, sentence)
				sentence = nil
			}
			continue
		}
		sentence = append(sentence, tokens...)
	}
}

// Tokenize splits a single sentence given as one string.
func Tokenize(sentence string) ([]string, error) {
	s, err := newLineScanner(strings.NewReader(sentence))
	if err != nil {
		return nil, err
	}
	var tokens []string
	for {
		lineTokens, ok, err := s.scan()
		if err != nil {
			return nil, err
		}
		if !ok {
			return tokens, nil
		}
		tokens = append(tokens, lineTokens...)
	}
}
