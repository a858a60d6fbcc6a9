/*
Dokeparse compiles a dokedef grammar file and either parses a single
statement given on the command line or drops into an interactive shell
where each line typed is parsed and the resulting value or error is
printed.

Usage:

	dokeparse -g FILE -s START [flags]

The flags are:

	-g, --grammar FILE
		The dokedef source file to compile. Falls back to the config
		file's grammar_file if not given.

	-s, --start NAME
		The nonterminal to parse statements as. Falls back to the
		config file's start if not given.

	-i, --input STATEMENT
		Parse STATEMENT once and exit, instead of starting the shell.

	-c, --children STATEMENTS
		Child statements available to -i's top-level statement for
		`<`/`<*` capture fields, separated by ";".

	-d, --direct
		Read shell input directly from stdin instead of through
		GNU-readline-backed editing and history.

	--config FILE
		Session config file (default "dokeparse.toml").

	--dump-grammar
		Print the compiled grammar's productions and exit.

	--dump-tree
		With -i, print the selected parse tree instead of the evaluated
		value.
*/
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/pflag"

	"github.com/Hasenn/dokearley"
	"github.com/Hasenn/dokearley/internal/config"
)

var (
	flagGrammar     = pflag.StringP("grammar", "g", "", "The dokedef source file to compile")
	flagStart       = pflag.StringP("start", "s", "", "The nonterminal to parse statements as")
	flagInput       = pflag.StringP("input", "i", "", "Parse this statement once and exit")
	flagChildren    = pflag.StringP("children", "c", "", "';'-separated child statements for -i")
	flagDirect      = pflag.BoolP("direct", "d", false, "Read shell input directly instead of via readline")
	flagConfig      = pflag.String("config", "dokeparse.toml", "Session config file")
	flagDumpGrammar = pflag.Bool("dump-grammar", false, "Print the compiled grammar and exit")
	flagDumpTree    = pflag.Bool("dump-tree", false, "With -i, print the parse tree instead of the value")
)

func main() {
	pflag.Parse()

	sess, err := config.Load(*flagConfig)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	grammarFile := *flagGrammar
	if grammarFile == "" {
		grammarFile = sess.GrammarFile
	}
	if grammarFile == "" {
		log.Fatal("no grammar file given: pass -g or set grammar_file in the config")
	}

	src, err := os.ReadFile(grammarFile)
	if err != nil {
		log.Fatalf("read grammar file: %s", err)
	}

	d, err := dokearley.FromDokedef(string(src))
	if err != nil {
		log.Fatalf("compile grammar: %s", err)
	}

	if *flagDumpGrammar {
		fmt.Print(d.Grammar().String())
		return
	}

	start := *flagStart
	if start == "" {
		start = sess.Start
	}
	if start == "" {
		log.Fatal("no start nonterminal given: pass -s or set start in the config")
	}

	if *flagInput != "" {
		if *flagDumpTree {
			dumpTree(d, *flagInput, start)
			return
		}
		runOnce(d, *flagInput, start, splitChildren(*flagChildren))
		return
	}

	runShell(d, start, sess, *flagDirect)
}

func splitChildren(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ";")
}

func runOnce(d *dokearley.Dokearley, input, start string, children []string) {
	val, err := d.ParseWithChildren(input, start, children)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
	fmt.Println(val.String())
}

func dumpTree(d *dokearley.Dokearley, input, start string) {
	tree, err := d.ParseTree(input, start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
	fmt.Println(tree.String(d.Grammar()))
}

// runShell reads statements one per line and parses each against start,
// printing the resulting Value or error, until EOF or ":quit". Grounded on
// cmd/tqi/main.go and internal/input's readline-vs-direct reader split.
func runShell(d *dokearley.Dokearley, start string, sess config.Session, direct bool) {
	fmt.Printf("dokearley shell (start: %s). Type :quit to exit, :examples to list saved statements.\n", start)

	if direct {
		runShellDirect(d, start, sess)
		return
	}

	rl, err := readline.NewEx(&readline.Config{Prompt: "dokearley> "})
	if err != nil {
		log.Fatalf("init readline: %s", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			return
		}
		if !handleLine(d, start, sess, line) {
			return
		}
	}
}

func runShellDirect(d *dokearley.Dokearley, start string, sess config.Session) {
	scanBuf := make([]byte, 0, 4096)
	reader := os.Stdin
	for {
		fmt.Print("dokearley> ")
		line, err := readLineDirect(reader, scanBuf)
		if err != nil {
			return
		}
		if !handleLine(d, start, sess, line) {
			return
		}
	}
}

func readLineDirect(f *os.File, buf []byte) (string, error) {
	var sb strings.Builder
	one := make([]byte, 1)
	for {
		n, err := f.Read(one)
		if n == 0 && err != nil {
			if sb.Len() > 0 {
				return sb.String(), nil
			}
			return "", err
		}
		if one[0] == '\n' {
			return sb.String(), nil
		}
		sb.WriteByte(one[0])
	}
}

// handleLine processes one shell line and reports whether the shell loop
// should continue.
func handleLine(d *dokearley.Dokearley, start string, sess config.Session, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}

	switch line {
	case ":quit", ":exit":
		return false
	case ":examples":
		printExamples(sess)
		return true
	}

	val, err := d.Parse(line, start)
	if err != nil {
		fmt.Printf("error: %s\n", err)
		return true
	}
	fmt.Println(val.String())
	return true
}

func printExamples(sess config.Session) {
	if len(sess.Examples) == 0 {
		fmt.Println("(no examples configured)")
		return
	}
	for _, ex := range sess.Examples {
		fmt.Printf("%s: %s\n", ex.Name, ex.Statement)
	}
}
