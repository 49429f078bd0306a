package regalloc

import "sort"

// unionFind implements the merge step coalescing uses (spec §4.7 step 3):
// merged virtual registers share one representative id, so the rest of the
// pipeline (interference, simplify, select) only ever has to reason about
// representatives.
type unionFind struct{ parent []int }

func newUnionFind(n int) *unionFind {
	u := &unionFind{parent: make([]int, n)}
	for i := range u.parent {
		u.parent[i] = i
	}
	return u
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) { u.parent[u.find(a)] = u.find(b) }

// coalesce merges MOVE pairs under the Briggs criterion: a and b don't
// interfere, and their merged node would still have degree < k (spec §4.7
// step 3). Merging eliminates the move. Returns the representative for
// each original id and the set of still-distinct representative ids.
func coalesce(g *Graph, k int) (*unionFind, *Graph) {
	uf := newUnionFind(g.n)
	rebuild := func() *Graph {
		ng := newGraph(g.n)
		for a := 0; a < g.n; a++ {
			ra := uf.find(a)
			for b := range g.edges[a] {
				rb := uf.find(b)
				if ra != rb {
					ng.addEdge(ra, rb)
				}
			}
		}
		return ng
	}

	cur := g
	for _, mv := range g.moves {
		a, b := uf.find(mv.a), uf.find(mv.b)
		if a == b {
			continue
		}
		if cur.interferes(a, b) {
			continue
		}
		merged := mergedDegree(cur, a, b)
		if merged >= k {
			continue
		}
		uf.union(a, b)
		cur = rebuild()
	}
	return uf, cur
}

func mergedDegree(g *Graph, a, b int) int {
	seen := make(map[int]bool)
	for n := range g.edges[a] {
		if n != b {
			seen[n] = true
		}
	}
	for n := range g.edges[b] {
		if n != a {
			seen[n] = true
		}
	}
	return len(seen)
}

// colorResult is the outcome of simplify/select over the (post-coalesce)
// interference graph: every representative id not spilled gets a color in
// [0,k); spilled ids need a reload/store pass instead (spec §4.7 steps
// 4-5).
type colorResult struct {
	color  map[int]int
	spills map[int]bool
}

// colorGraph runs Chaitin's simplify/select with spilling (spec §4.7):
// repeatedly push degree<k nodes onto a stack; if none remain, push the
// max-degree node as a "potential spill"; pop the stack assigning the
// lowest unused color among live neighbors, and any potential spill that
// finds no free color becomes an actual spill.
func colorGraph(g *Graph, candidates []int, k int) *colorResult {
	present := make(map[int]bool, len(candidates))
	for _, c := range candidates {
		present[c] = true
	}
	degree := make(map[int]int, len(candidates))
	for _, c := range candidates {
		d := 0
		for n := range g.edges[c] {
			if present[n] {
				d++
			}
		}
		degree[c] = d
	}

	var stack []int
	removed := make(map[int]bool)
	remaining := append([]int(nil), candidates...)

	for len(remaining) > 0 {
		progressed := false
		sort.Ints(remaining)
		for idx, n := range remaining {
			if degree[n] < k {
				stack = append(stack, n)
				removed[n] = true
				remaining = append(remaining[:idx], remaining[idx+1:]...)
				for nb := range g.edges[n] {
					if present[nb] && !removed[nb] {
						degree[nb]--
					}
				}
				progressed = true
				break
			}
		}
		if progressed {
			continue
		}
		// No degree<k node remains: pick the max-degree node as a
		// potential spill (spec step 4 "max-degree/lowest-use-frequency
		// heuristic") -- degree is the proxy used here.
		best := remaining[0]
		for _, n := range remaining[1:] {
			if degree[n] > degree[best] {
				best = n
			}
		}
		stack = append(stack, best)
		removed[best] = true
		for i, n := range remaining {
			if n == best {
				remaining = append(remaining[:i], remaining[i+1:]...)
				break
			}
		}
		for nb := range g.edges[best] {
			if present[nb] && !removed[nb] {
				degree[nb]--
			}
		}
	}

	res := &colorResult{color: map[int]int{}, spills: map[int]bool{}}
	for i := len(stack) - 1; i >= 0; i-- {
		n := stack[i]
		used := make(map[int]bool)
		for nb := range g.edges[n] {
			if c, ok := res.color[nb]; ok {
				used[c] = true
			}
		}
		chosen := -1
		for c := 0; c < k; c++ {
			if !used[c] {
				chosen = c
				break
			}
		}
		if chosen < 0 {
			res.spills[n] = true
			continue
		}
		res.color[n] = chosen
	}
	return res
}
