// Package earley implements the Earley recognizer with Aycock-Horspool
// nullable-rule support (spec.md §4.4) and the deterministic parse-forest
// tree extraction that follows it (spec.md §4.5). It is grounded on the
// classic chart/item-set Earley shape seen across the retrieved pack (the
// dhamidi/sai EBNF Earley parser's ItemSet/Item split in particular), kept
// to what this grammar's two RHS shapes (literal-with-holes, disjunction)
// actually need.
package earley

// item is one Earley item: a production, how far the dot has advanced into
// its RHS, and the chart position where the item's match began.
type item struct {
	prodID int
	dot    int
	origin int
}

// stateSet is S_k: the deduplicated collection of items live at chart
// position k, in the order they were first added (processState walks items
// in that order as a worklist, visiting items appended while it runs).
type stateSet struct {
	items []item
	seen  map[item]bool
}

func newStateSet() *stateSet {
	return &stateSet{seen: map[item]bool{}}
}

// add inserts it if not already present, returning whether it was newly
// added. Per spec.md §4.4, duplicate items are never added twice.
func (s *stateSet) add(it item) bool {
	if s.seen[it] {
		return false
	}
	s.seen[it] = true
	s.items = append(s.items, it)
	return true
}

func (s *stateSet) has(it item) bool {
	return s.seen[it]
}

// chart is the full S_0...S_n collection built by Recognize.
type chart struct {
	sets []*stateSet
}

func newChart(n int) *chart {
	c := &chart{sets: make([]*stateSet, n+1)}
	for i := range c.sets {
		c.sets[i] = newStateSet()
	}
	return c
}
