package earley

import (
	"fmt"
	"strings"

	"github.com/Hasenn/dokearley/internal/dokerrors"
	"github.com/Hasenn/dokearley/internal/grammar"
	"github.com/Hasenn/dokearley/internal/toklex"
	"github.com/Hasenn/dokearley/internal/util"
)

// ChildKind distinguishes the three ChildNode shapes of spec.md §4.5.
type ChildKind int

const (
	ChildTerminal ChildKind = iota
	ChildPlaceholder
	ChildSub
)

// ChildNode is one element of a ParseTree node's children.
type ChildNode struct {
	Kind ChildKind

	// Token is set for ChildTerminal and ChildPlaceholder.
	Token toklex.Token

	// Name is the placeholder field name, set for ChildPlaceholder and
	// ChildSub (empty for a disjunction pass-through's single child).
	Name string

	// Sub is set for ChildSub.
	Sub *ParseTree
}

// ParseTree is a single selected derivation: a matched production plus one
// ChildNode per RHS symbol, in RHS order.
type ParseTree struct {
	ProductionID int
	Children     []ChildNode
}

// Extract builds the single selected parse tree for startID from a chart
// produced by Recognize, applying the deterministic tie-break rules of
// spec.md §4.5 (earlier production wins, leftmost-longest nonterminal
// span). It returns a *dokerrors.ParseFailure built from the chart's live
// items when recognition did not succeed.
func Extract(g *grammar.Grammar, toks []toklex.Token, c *chart, startID int) (*ParseTree, error) {
	n := len(toks)

	for _, pid := range g.ByLHS[startID] {
		p := g.Productions[pid]
		if c.sets[n].has(item{prodID: pid, dot: len(p.RHS), origin: 0}) {
			tree, ok := extractProduction(g, toks, c, pid, 0, n)
			if ok {
				return tree, nil
			}
		}
	}

	return nil, buildParseFailure(g, toks, c)
}

func extractProduction(g *grammar.Grammar, toks []toklex.Token, c *chart, pid, start, end int) (*ParseTree, bool) {
	p := g.Productions[pid]
	children, ok := decomposeFrom(g, toks, c, p.RHS, 0, start, end)
	if !ok {
		return nil, false
	}
	return &ParseTree{ProductionID: pid, Children: children}, true
}

// decomposeFrom recursively splits [start,end) across rhs[idx:], trying the
// longest possible span for each nonterminal position first (leftmost-
// longest) and backtracking on failure, which together with earlier-
// production-wins in bestCompletedProduction gives a fully deterministic
// decomposition.
func decomposeFrom(g *grammar.Grammar, toks []toklex.Token, c *chart, rhs []grammar.RHSSymbol, idx, start, end int) ([]ChildNode, bool) {
	if idx == len(rhs) {
		if start == end {
			return nil, true
		}
		return nil, false
	}

	sym := rhs[idx]
	last := idx == len(rhs)-1

	var candidates []int
	if sym.IsNonterminalPosition() {
		for m := end; m >= start; m-- {
			candidates = append(candidates, m)
		}
	} else if start < end {
		candidates = []int{start + 1}
	}

	for _, m := range candidates {
		if last && m != end {
			continue
		}
		node, ok := matchSymbol(g, toks, c, sym, start, m)
		if !ok {
			continue
		}
		rest, ok := decomposeFrom(g, toks, c, rhs, idx+1, m, end)
		if !ok {
			continue
		}
		return append([]ChildNode{node}, rest...), true
	}

	return nil, false
}

func matchSymbol(g *grammar.Grammar, toks []toklex.Token, c *chart, sym grammar.RHSSymbol, start, end int) (ChildNode, bool) {
	switch sym.Kind {
	case grammar.RHSLiteral:
		if end != start+1 || start >= len(toks) {
			return ChildNode{}, false
		}
		tok := toks[start]
		if tok.Kind != toklex.Lit || tok.TerminalID != sym.TerminalID {
			return ChildNode{}, false
		}
		return ChildNode{Kind: ChildTerminal, Token: tok}, true

	case grammar.RHSBuiltin:
		if end != start+1 || start >= len(toks) {
			return ChildNode{}, false
		}
		tok := toks[start]
		if !tok.BuiltinMatch(sym.Builtin) {
			return ChildNode{}, false
		}
		return ChildNode{Kind: ChildPlaceholder, Name: sym.Name, Token: tok}, true

	case grammar.RHSNonterm, grammar.RHSNontermPassthrough:
		pid, ok := bestCompletedProduction(g, c, sym.NonterminalID, start, end)
		if !ok {
			return ChildNode{}, false
		}
		sub, ok := extractProduction(g, toks, c, pid, start, end)
		if !ok {
			return ChildNode{}, false
		}
		return ChildNode{Kind: ChildSub, Name: sym.Name, Sub: sub}, true

	default:
		return ChildNode{}, false
	}
}

// bestCompletedProduction returns the earliest-in-source production of nt
// that completed exactly over [start,end), implementing tie-break rule (i).
func bestCompletedProduction(g *grammar.Grammar, c *chart, nt, start, end int) (int, bool) {
	for _, pid := range g.ByLHS[nt] {
		p := g.Productions[pid]
		if c.sets[end].has(item{prodID: pid, dot: len(p.RHS), origin: start}) {
			return pid, true
		}
	}
	return 0, false
}

// buildParseFailure implements spec.md §4.8: find the first k where S_k is
// non-empty but S_{k+1} is empty (or, failing that, treat S_n itself as the
// failure point), and render the distinct literals/builtin types expected
// next from that state set's live items. Items waiting on a nonterminal are
// skipped: predict has already closed the state set, so the literals and
// builtins reachable through that nonterminal are already present in the
// same set as their own items.
func buildParseFailure(g *grammar.Grammar, toks []toklex.Token, c *chart) error {
	n := len(c.sets) - 1

	failAt := n
	for k := 0; k < n; k++ {
		if len(c.sets[k].items) > 0 && len(c.sets[k+1].items) == 0 {
			failAt = k
			break
		}
	}

	expected := util.NewStringSet()
	for _, it := range c.sets[failAt].items {
		p := g.Productions[it.prodID]
		if it.dot == len(p.RHS) {
			continue
		}
		sym := p.RHS[it.dot]
		switch sym.Kind {
		case grammar.RHSLiteral:
			expected.Add(g.Terminals[sym.TerminalID])
		case grammar.RHSBuiltin:
			expected.Add(sym.Builtin.String())
		}
	}

	return dokerrors.NewParseFailure(failurePosition(toks, failAt, n), expected.Sorted())
}

// String renders a leveled tree dump of t against g, in the same drawing
// style as the teacher's ParseTree.leveledStr (boxed branch prefixes rather
// than plain indentation), useful for debugging a dokedef grammar through
// cmd/dokeparse's --dump-tree flag.
func (t *ParseTree) String(g *grammar.Grammar) string {
	return t.leveledStr(g, "", "")
}

const (
	treeLevelEmpty      = "        "
	treeLevelOngoing    = "  |     "
	treeLevelPrefix     = "  |-- "
	treeLevelPrefixLast = `  \-- `
)

func (t *ParseTree) leveledStr(g *grammar.Grammar, firstPrefix, contPrefix string) string {
	var sb strings.Builder

	sb.WriteString(firstPrefix)
	p := g.Productions[t.ProductionID]
	sb.WriteString("(" + g.NonterminalName(p.LHS) + ")")

	for i, ch := range t.Children {
		sb.WriteRune('\n')
		var leveledFirst, leveledCont string
		if i+1 < len(t.Children) {
			leveledFirst = contPrefix + treeLevelPrefix
			leveledCont = contPrefix + treeLevelOngoing
		} else {
			leveledFirst = contPrefix + treeLevelPrefixLast
			leveledCont = contPrefix + treeLevelEmpty
		}
		sb.WriteString(ch.leveledStr(g, leveledFirst, leveledCont))
	}

	return sb.String()
}

func (ch ChildNode) leveledStr(g *grammar.Grammar, firstPrefix, contPrefix string) string {
	switch ch.Kind {
	case ChildTerminal:
		return fmt.Sprintf("%s(TERM %q)", firstPrefix, ch.Token.Lexeme)
	case ChildPlaceholder:
		return fmt.Sprintf("%s(%s = %q)", firstPrefix, ch.Name, ch.Token.Lexeme)
	case ChildSub:
		sub := ch.Sub.leveledStr(g, "", contPrefix)
		return fmt.Sprintf("%s%s: %s", firstPrefix, ch.Name, sub)
	default:
		return firstPrefix + "(?)"
	}
}

// Copy returns a deep copy of t.
func (t *ParseTree) Copy() *ParseTree {
	cp := &ParseTree{ProductionID: t.ProductionID, Children: make([]ChildNode, len(t.Children))}
	for i, ch := range t.Children {
		cp.Children[i] = ch
		if ch.Sub != nil {
			cp.Children[i].Sub = ch.Sub.Copy()
		}
	}
	return cp
}

// Equal reports whether t and o are structurally identical: same production
// chosen at every node and the same child tokens/sub-trees, following the
// teacher's Equal(o any) bool convention.
func (t *ParseTree) Equal(o any) bool {
	other, ok := o.(*ParseTree)
	if !ok || other == nil {
		return false
	}
	if t.ProductionID != other.ProductionID {
		return false
	}
	if len(t.Children) != len(other.Children) {
		return false
	}
	for i := range t.Children {
		if !t.Children[i].equal(other.Children[i]) {
			return false
		}
	}
	return true
}

func (ch ChildNode) equal(o ChildNode) bool {
	if ch.Kind != o.Kind || ch.Name != o.Name {
		return false
	}
	switch ch.Kind {
	case ChildTerminal, ChildPlaceholder:
		return ch.Token == o.Token
	case ChildSub:
		if ch.Sub == nil || o.Sub == nil {
			return ch.Sub == o.Sub
		}
		return ch.Sub.Equal(o.Sub)
	default:
		return true
	}
}

// failurePosition converts a chart index into the byte offset reported in
// ParseFailure: the offending token's own offset when one exists, or the
// offset just past the last token when failure is "ran out of input".
func failurePosition(toks []toklex.Token, failAt, n int) int {
	if failAt < len(toks) {
		return toks[failAt].ByteOffset
	}
	if len(toks) == 0 {
		return 0
	}
	last := toks[len(toks)-1]
	return last.ByteOffset + len(last.Lexeme)
}
