package regalloc

import "github.com/fuellabs-lite/swayc/internal/vasm"

// Graph is the interference graph over virtual-register ids (spec §4.7
// step 2): an edge (a,b) means a and b are simultaneously live at a point
// where one of them is defined, so they can never share a physical
// register.
type Graph struct {
	n     int
	edges []map[int]bool
	// moves records MOVE pairs (spec step 3): "move instructions do not
	// create interference between their source and destination".
	moves []movePair
}

type movePair struct{ a, b int }

func newGraph(n int) *Graph {
	g := &Graph{n: n, edges: make([]map[int]bool, n)}
	for i := range g.edges {
		g.edges[i] = make(map[int]bool)
	}
	return g
}

func (g *Graph) addEdge(a, b int) {
	if a == b {
		return
	}
	g.edges[a][b] = true
	g.edges[b][a] = true
}

func (g *Graph) interferes(a, b int) bool { return g.edges[a][b] }

func (g *Graph) degree(a int) int { return len(g.edges[a]) }

func (g *Graph) neighbors(a int) []int {
	out := make([]int, 0, len(g.edges[a]))
	for b := range g.edges[a] {
		out = append(out, b)
	}
	return out
}

// buildInterference constructs the interference graph from a liveness
// result: for every instruction that defines d, d interferes with every
// other register live immediately after it, except the move-instruction's
// own source (spec §4.7 step 2).
func buildInterference(ops []vasm.Op, live *Liveness, n int) *Graph {
	g := newGraph(n)
	for i, o := range ops {
		if o.Class != vasm.ClassVirtual {
			continue
		}
		def, ok, _ := defUse(o.Virtual)
		if !ok {
			continue
		}
		isMoveSrc := -1
		if o.Virtual.Kind == vasm.VMove && o.Virtual.Src1.Kind == vasm.RVirtual && !o.Virtual.Src1.IsNone() {
			isMoveSrc = o.Virtual.Src1.Id
			g.moves = append(g.moves, movePair{a: def, b: isMoveSrc})
		}
		for _, other := range live.LiveOut[i].ids() {
			if other == def || other == isMoveSrc {
				continue
			}
			g.addEdge(def, other)
		}
	}
	return g
}
