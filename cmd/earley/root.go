package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	verr "github.com/mbisping/earley/error"
	"github.com/mbisping/earley/grammar"
	"github.com/mbisping/earley/internal/indicator"
	"github.com/mbisping/earley/loader"
	"github.com/mbisping/earley/parser"
)

var rootCmd = &cobra.Command{
	Use:   "earley -g <grammar> -t <tags> -w <words> [-f <file> | -s <sentence>] [-v <verbosity>]",
	Short: "Decide whether sentences are derivable from a context-free grammar",
	Long: `earley recognizes sentences with Earley's algorithm:
it reads a CFG, a POS-tag set, and a tag-to-word lexicon, then decides
for each input sentence whether the grammar's start symbol derives it.
Sentences come from a file, a command line string, or piped stdin;
in files and on stdin, blank lines separate sentences.`,
	RunE:          runParse,
	SilenceErrors: true,
	SilenceUsage:  true,
}

var flags = struct {
	grammar      *string
	tags         *string
	words        *string
	file         *string
	sentence     *string
	verbosity    *int
	lexiconRules *bool
}{}

func init() {
	flags.grammar = rootCmd.Flags().StringP("grammar", "g", "", "CFG file; one rule per line")
	flags.tags = rootCmd.Flags().StringP("tags", "t", "", "POS-tag file; one tag per line")
	flags.words = rootCmd.Flags().StringP("words", "w", "", "word file; one or more tokens followed by a tag per line")
	flags.file = rootCmd.Flags().StringP("file", "f", "", "file with sentences to parse; blank lines separate sentences")
	flags.sentence = rootCmd.Flags().StringP("sentence", "s", "", "single sentence to parse")
	flags.verbosity = rootCmd.Flags().IntP("verbosity", "v", 0, "verbosity (0-3)")
	flags.lexiconRules = rootCmd.Flags().Bool("lexicon-rules", false, "the grammar contains terminal rules for words")
	cobra.CheckErr(rootCmd.MarkFlagRequired("grammar"))
	cobra.CheckErr(rootCmd.MarkFlagRequired("tags"))
	cobra.CheckErr(rootCmd.MarkFlagRequired("words"))
}

func Execute() error {
	return rootCmd.Execute()
}

func runParse(cmd *cobra.Command, args []string) error {
	verbosity := *flags.verbosity
	logVerbosity := verbosity - 1
	if logVerbosity < 0 {
		logVerbosity = 0
	}
	commonlog.Configure(logVerbosity, nil)
	logger := commonlog.GetLogger("earley")

	g, err := loadGrammar(*flags.grammar)
	if err != nil {
		return err
	}
	logger.Infof("loaded %v rules from %v", g.RuleCount(), *flags.grammar)

	tags, err := loadTags(*flags.tags, g)
	if err != nil {
		return err
	}
	logger.Infof("loaded %v tags from %v", len(tags), *flags.tags)

	lex, err := loadWords(*flags.words, g)
	if err != nil {
		return err
	}
	logger.Infof("loaded %v lexical entries from %v", len(lex.Words), *flags.words)

	sentences, err := readSentences()
	if err != nil {
		return err
	}

	var opts []parser.ParserOption
	if *flags.lexiconRules {
		g.InjectLexicon(lex.Words)
		opts = append(opts, parser.LexiconRules())
	}
	opts = append(opts, parser.WithIndicator(indicator.New()))
	p := parser.NewParser(g, tags, lex.TagWords, opts...)

	out := termenv.NewOutput(os.Stdout)
	for _, sentence := range sentences {
		if verbosity >= 2 {
			fmt.Printf("'%v'\n", strings.Join(sentence, " "))
		}
		recognised := p.Parse(sentence)
		if verbosity >= 3 {
			p.Chart().Dump(os.Stdout, g)
		}
		switch {
		case verbosity >= 1:
			if recognised {
				fmt.Println(out.String("parse complete, input recognised.").Foreground(termenv.ANSIGreen))
			} else {
				fmt.Println(out.String("parse incomplete, input not recognised.").Foreground(termenv.ANSIRed))
			}
			fmt.Println()
		case recognised:
			fmt.Println("1")
		default:
			fmt.Println("0")
		}
	}

	return nil
}

func loadGrammar(path string) (*grammar.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open the grammar file: %w", err)
	}
	defer f.Close()
	g, err := grammar.New(f)
	if err != nil {
		return nil, withSourceName(err, path)
	}
	return g, nil
}

func loadTags(path string, g *grammar.Grammar) (map[grammar.Symbol]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open the tag file: %w", err)
	}
	defer f.Close()
	tags, err := loader.LoadTags(f, g)
	if err != nil {
		return nil, withSourceName(err, path)
	}
	return tags, nil
}

func loadWords(path string, g *grammar.Grammar) (*loader.Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open the word file: %w", err)
	}
	defer f.Close()
	lex, err := loader.LoadWords(f, g)
	if err != nil {
		return nil, withSourceName(err, path)
	}
	return lex, nil
}

// readSentences picks the input source: an input file, a command line
// sentence, or piped stdin, in that order. The file and the sentence
// exclude each other; stdin is read only when neither is given.
func readSentences() ([][]string, error) {
	if *flags.file != "" && *flags.sentence != "" {
		return nil, errors.New("one input to parse only")
	}
	if *flags.file != "" {
		f, err := os.Open(*flags.file)
		if err != nil {
			return nil, fmt.Errorf("cannot open the input file: %w", err)
		}
		defer f.Close()
		return loader.LoadSentences(f)
	}
	if *flags.sentence != "" {
		tokens, err := loader.Tokenize(*flags.sentence)
		if err != nil {
			return nil, err
		}
		return [][]string{tokens}, nil
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return loader.LoadSentences(os.Stdin)
	}
	return nil, errors.New("nothing to parse; pass -f, -s, or pipe sentences on stdin")
}

func withSourceName(err error, path string) error {
	var fErr *verr.FormatError
	if errors.As(err, &fErr) {
		fErr.SourceName = path
	}
	return err
}
