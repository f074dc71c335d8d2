package loader

import (
	"fmt"
	"io"
	"strings"
	"sync"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
)

// The tag, word, and sentence formats are all line-structured streams of
// whitespace-separated tokens, so one lexical spec serves all of them:
// newlines are significant (they delimit lines and, doubled, sentences),
// horizontal whitespace separates tokens, and any other run of characters
// is a token.
const (
	kindNewline    = mlspec.LexKindName("newline")
	kindWhiteSpace = mlspec.LexKindName("white_space")
	kindText       = mlspec.LexKindName("text")
)

var (
	lexOnce     sync.Once
	compiledLex *mlspec.CompiledLexSpec
	lexCompErr  error
)

func lexSpec() (*mlspec.CompiledLexSpec, error) {
	lexOnce.Do(func() {
		spec := &mlspec.LexSpec{
			Name: "earley_loader",
			Entries: []*mlspec.LexEntry{
				{
					Kind:    kindNewline,
					Pattern: mlspec.LexPattern(`\u{000D}\u{000A}|\u{000A}|\u{000D}`),
				},
				{
					Kind:    kindWhiteSpace,
					Pattern: mlspec.LexPattern(`[\u{0009}\u{0020}]+`),
				},
				{
					Kind:    kindText,
					Pattern: mlspec.LexPattern(`[^\u{0009}\u{000A}\u{000D}\u{0020}]+`),
				},
			},
		}
		var cErrs []*mlcompiler.CompileError
		compiledLex, lexCompErr, cErrs = mlcompiler.Compile(spec, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
		if lexCompErr != nil && len(cErrs) > 0 {
			var b strings.Builder
			for _, cErr := range cErrs {
				fmt.Fprintf(&b, "%v: %v; ", cErr.Kind, cErr.Cause)
			}
			lexCompErr = fmt.Errorf("cannot compile the lexical spec: %v", b.String())
		}
	})
	return compiledLex, lexCompErr
}

// lineScanner yields one line at a time as a slice of its tokens. A blank
// line comes out as an empty slice. The source is consumed through the
// lexer's own buffering, so it may be a pipe or stdin.
type lineScanner struct {
	lex       *mldriver.Lexer
	kindNames []mlspec.LexKindName
	done      bool
}

func newLineScanner(src io.Reader) (*lineScanner, error) {
	spec, err := lexSpec()
	if err != nil {
		return nil, err
	}
	lex, err := mldriver.NewLexer(mldriver.NewLexSpec(spec), src)
	if err != nil {
		return nil, err
	}
	return &lineScanner{
		lex:       lex,
		kindNames: spec.KindNames,
	}, nil
}

// scan returns the tokens of the next line. The second result is false
// once the source is exhausted. A final line without a trailing newline
// is still yielded.
func (s *lineScanner) scan() ([]string, bool, error) {
	if s.done {
		return nil, false, nil
	}
	tokens := []string{}
	for {
		tok, err := s.lex.Next()
		if err != nil {
			return nil, false, err
		}
		if tok.EOF {
			s.done = true
			if len(tokens) == 0 {
				return nil, false, nil
			}
			return tokens, true, nil
		}
		if tok.Invalid {
			return nil, false, fmt.Errorf("invalid input at row %v, column %v", tok.Row+1, tok.Col+1)
		}
		switch s.kindNames[tok.KindID] {
		case kindNewline:
			return tokens, true, nil
		case kindWhiteSpace:
			// token separator
		case kindText:
			tokens = append(tokens, string(tok.Lexeme))
		}
	}
}
