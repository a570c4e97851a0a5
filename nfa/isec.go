package nfa

import (
	"github.com/corelex/corelex/ast"
	"github.com/corelex/corelex/byteset"
)

// buildProduct builds the isec/diff fragment for (a, b) by determinizing
// each operand into a throwaway, actionless plain DFA and then running a
// product construction over the two: isec keeps pairs where both accept,
// diff keeps pairs where a accepts and b does not. This sidesteps a
// dfa<->nfa import cycle (full subset construction over an NFA already
// belongs to the dfa package) at the cost of dropping any actions or
// preconditions nested inside a or b's own subtree; only the isec/diff
// node's own boundary annotations, applied by fragment's normal wrapping,
// survive.
func (b *builder) buildProduct(aNode, bNode *ast.Node, negateB bool) (start, accept int, err error) {
	aStart, aAccept, err := b.fragment(aNode)
	if err != nil {
		return 0, 0, err
	}
	bStart, bAccept, err := b.fragment(bNode)
	if err != nil {
		return 0, 0, err
	}
	aStates := b.determinizePlain(aStart, aAccept)
	bStates := b.determinizePlain(bStart, bAccept)

	bAcceptOf := func(bi int) bool {
		if bi == -1 {
			return false
		}
		return bStates[bi].accept
	}
	bTransOf := func(bi int, byteVal byte) int {
		if bi == -1 {
			return -1
		}
		return bStates[bi].trans[byteVal]
	}

	type pair struct{ a, b int }
	nodeIDs := map[pair]int{}
	getNode := func(p pair) int {
		if id, ok := nodeIDs[p]; ok {
			return id
		}
		id := b.g.newNode()
		nodeIDs[p] = id
		return id
	}

	startPair := pair{0, 0}
	start = getNode(startPair)
	accept = b.g.newNode()

	queue := []pair{startPair}
	visited := map[pair]bool{startPair: true}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		curID := getNode(p)
		aSt := aStates[p.a]

		isAccept := aSt.accept && !bAcceptOf(p.b)
		if !negateB {
			isAccept = aSt.accept && bAcceptOf(p.b)
		}
		if isAccept {
			b.g.addEpsilon(curID, accept)
		}

		groups := map[pair][]byte{}
		for bv := 0; bv < 256; bv++ {
			byteVal := byte(bv)
			ad := aSt.trans[byteVal]
			if ad == -1 {
				continue
			}
			var bdNext int
			if negateB {
				bdNext = bTransOf(p.b, byteVal)
			} else {
				bd := bTransOf(p.b, byteVal)
				if bd == -1 {
					continue
				}
				bdNext = bd
			}
			key := pair{ad, bdNext}
			groups[key] = append(groups[key], byteVal)
		}

		for dst, bytes := range groups {
			dstID := getNode(dst)
			b.g.addByteEdge(curID, dstID, byteset.FromBytes(bytes...))
			if !visited[dst] {
				visited[dst] = true
				queue = append(queue, dst)
			}
		}
	}

	return start, accept, nil
}

type plainState struct {
	nodes  []int
	trans  [256]int
	accept bool
}

// determinizePlain runs subset construction over the shared arena's raw
// (epsilon-bearing) edges reachable from start, ignoring all actions and
// preconditions: it only needs language membership for the product
// construction above.
func (b *builder) determinizePlain(start, accept int) []*plainState {
	seen := map[string]int{}
	var states []*plainState

	startClosure := b.g.EpsilonClosure([]int{start})
	key, nodes := closureKey(startClosure)
	states = append(states, &plainState{nodes: nodes, accept: startClosure[accept]})
	seen[key] = 0

	queue := []int{0}
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		st := states[idx]
		for bv := 0; bv < 256; bv++ {
			byteVal := byte(bv)
			var dsts []int
			for _, u := range st.nodes {
				for _, e := range b.g.Nodes[u].Edges {
					if !e.Epsilon && e.Label.Contains(byteVal) {
						dsts = append(dsts, e.Dst)
					}
				}
			}
			if len(dsts) == 0 {
				st.trans[byteVal] = -1
				continue
			}
			closure := b.g.EpsilonClosure(dsts)
			key2, nodes2 := closureKey(closure)
			if existing, ok := seen[key2]; ok {
				st.trans[byteVal] = existing
				continue
			}
			newIdx := len(states)
			states = append(states, &plainState{nodes: nodes2, accept: closure[accept]})
			seen[key2] = newIdx
			st.trans[byteVal] = newIdx
			queue = append(queue, newIdx)
		}
	}
	return states
}

func closureKey(closure map[int]bool) (string, []int) {
	nodes := make([]int, 0, len(closure))
	for n := range closure {
		nodes = append(nodes, n)
	}
	sortInts(nodes)
	key := make([]byte, 0, len(nodes)*4)
	for _, n := range nodes {
		key = append(key, byte(n), byte(n>>8), byte(n>>16), byte(n>>24))
	}
	return string(key), nodes
}

func sortInts(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}
