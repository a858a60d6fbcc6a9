package earley

import (
	"github.com/Hasenn/dokearley/internal/grammar"
	"github.com/Hasenn/dokearley/internal/toklex"
)

// Recognize runs the Earley algorithm over toks against g, seeded to expect
// startID at position 0, and returns the full chart. Acceptance is
// determined separately by Accepted, matching spec.md §4.4's description of
// a dummy seed item: seeding every production of startID into S_0 and
// checking for one of them completed, spanning the whole input, in S_n is
// equivalent to seeding one literal dummy item and need not be represented
// as a distinct production.
func Recognize(g *grammar.Grammar, toks []toklex.Token, startID int) *chart {
	n := len(toks)
	c := newChart(n)

	for _, pid := range g.ByLHS[startID] {
		c.sets[0].add(item{prodID: pid, dot: 0, origin: 0})
	}

	for k := 0; k <= n; k++ {
		processState(g, toks, c, k)
	}

	return c
}

// Accepted reports whether the chart accepts the full input for startID.
func Accepted(g *grammar.Grammar, c *chart, startID int) bool {
	n := len(c.sets) - 1
	for _, it := range c.sets[n].items {
		p := g.Productions[it.prodID]
		if p.LHS == startID && it.dot == len(p.RHS) && it.origin == 0 {
			return true
		}
	}
	return false
}

// processState closes S_k under predict/complete and scans token k (if any)
// into S_{k+1}. It uses a single growing worklist over s.items: items added
// by predict or complete during this call are themselves visited later in
// the same loop, since len(s.items) is re-read every iteration.
func processState(g *grammar.Grammar, toks []toklex.Token, c *chart, k int) {
	s := c.sets[k]

	for idx := 0; idx < len(s.items); idx++ {
		it := s.items[idx]
		p := g.Productions[it.prodID]

		if it.dot == len(p.RHS) {
			complete(g, c, k, it)
			continue
		}

		sym := p.RHS[it.dot]
		if sym.IsNonterminalPosition() {
			predict(g, c, k, it, sym)
		} else if k < len(toks) {
			scan(toks, c, k, it, sym)
		}
	}
}

func symbolNonterminalID(sym grammar.RHSSymbol) int {
	return sym.NonterminalID
}

// predict adds (p, 0, k) for every production p of sym's nonterminal, and,
// per the Aycock-Horspool fix, immediately advances the originating item it
// past sym when sym's nonterminal is nullable - this is what lets a single
// forward pass over each state set handle nullable rules without a second,
// dynamic completion pass.
func predict(g *grammar.Grammar, c *chart, k int, it item, sym grammar.RHSSymbol) {
	nt := symbolNonterminalID(sym)

	for _, pid := range g.ByLHS[nt] {
		c.sets[k].add(item{prodID: pid, dot: 0, origin: k})
	}

	if g.Nullable[nt] {
		c.sets[k].add(item{prodID: it.prodID, dot: it.dot + 1, origin: it.origin})
	}
}

// scan advances it into S_{k+1} if the symbol at its dot matches toks[k].
func scan(toks []toklex.Token, c *chart, k int, it item, sym grammar.RHSSymbol) {
	tok := toks[k]

	matched := false
	switch sym.Kind {
	case grammar.RHSLiteral:
		matched = tok.Kind == toklex.Lit && tok.TerminalID == sym.TerminalID
	case grammar.RHSBuiltin:
		matched = tok.BuiltinMatch(sym.Builtin)
	}

	if matched {
		c.sets[k+1].add(item{prodID: it.prodID, dot: it.dot + 1, origin: it.origin})
	}
}

// complete advances every item in S_origin that was waiting on it's LHS.
// For origin == k (a production completing with zero width) correctness is
// still guaranteed by the Aycock-Horspool advance performed in predict, not
// by this dynamic scan, so no special-casing is needed here.
func complete(g *grammar.Grammar, c *chart, k int, it item) {
	p := g.Productions[it.prodID]
	lhs := p.LHS

	waiting := c.sets[it.origin].items
	for _, oit := range waiting {
		op := g.Productions[oit.prodID]
		if oit.dot >= len(op.RHS) {
			continue
		}
		osym := op.RHS[oit.dot]
		if osym.IsNonterminalPosition() && symbolNonterminalID(osym) == lhs {
			c.sets[k].add(item{prodID: oit.prodID, dot: oit.dot + 1, origin: oit.origin})
		}
	}
}
