// Package config loads cmd/dokeparse's session settings. It has nothing to
// do with parsing itself: a Dokearley is built straight from dokedef source
// text, and nothing in the library surface touches TOML. This mirrors the
// teacher's split between its TOML-based TQW world format (internal/tqw)
// and the engine/library code that never imports it directly.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Example is one named statement a user wants quick access to from the
// REPL's ":examples" command, without retyping it.
type Example struct {
	Name      string `toml:"name"`
	Statement string `toml:"statement"`
	Start     string `toml:"start"`
}

// Session holds the REPL-facing defaults a user can pin in a dokeparse.toml
// file instead of repeating as flags every run.
type Session struct {
	// GrammarFile is the dokedef source file loaded at startup when -g is
	// not given on the command line.
	GrammarFile string `toml:"grammar_file"`

	// Start is the default start nonterminal used when -s is not given.
	Start string `toml:"start"`

	// Examples is a list of named example statements, surfaced by the
	// REPL's ":examples" command.
	Examples []Example `toml:"examples"`
}

// Default returns the Session used when no config file is found.
func Default() Session {
	return Session{}
}

// Load reads a Session from path, falling back to Default() values for any
// field the file leaves unset. A missing file is not an error: it is
// treated the same as an empty one.
func Load(path string) (Session, error) {
	sess := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return sess, nil
		}
		return Session{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	return sess, nil
}
