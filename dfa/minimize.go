package dfa

// Minimize collapses equivalent states via iterative partition refinement.
// Two states are equivalent only if they agree on acceptance, eof
// alternatives, and, for every byte, the full guarded alternative list
// (guard, actions, and target partition) — not just reachability, since
// ordinary DFA minimization's "same accept/reject behavior" criterion
// would silently merge states that differ only in which actions fire,
// corrupting the action stream spec §4.5 requires.
func Minimize(m *Machine) *Machine {
	n := len(m.States)
	partition := make([]int, n) // partition[id] = equivalence class id; 0 unused
	classOf := make(map[string]int)
	for id := 1; id < n; id++ {
		sig := baseSignature(m.States[id])
		cls, ok := classOf[sig]
		if !ok {
			cls = len(classOf) + 1
			classOf[sig] = cls
		}
		partition[id] = cls
	}

	for {
		changed := false
		classOf = map[string]int{}
		next := make([]int, n)
		for id := 1; id < n; id++ {
			sig := refinedSignature(m.States[id], partition)
			cls, ok := classOf[sig]
			if !ok {
				cls = len(classOf) + 1
				classOf[sig] = cls
			}
			next[id] = cls
			if cls != partition[id] {
				changed = true
			}
		}
		partition = next
		if !changed {
			break
		}
	}

	// Build the minimized machine: one state per class, id = class number,
	// keeping the representative with the lowest original id as the
	// template (arbitrary but deterministic) for its transition shape.
	numClasses := 0
	for id := 1; id < n; id++ {
		if partition[id] > numClasses {
			numClasses = partition[id]
		}
	}
	out := &Machine{Start: partition[m.Start]}
	out.States = make([]*State, numClasses+1)
	representative := make([]int, numClasses+1)
	for id := 1; id < n; id++ {
		cls := partition[id]
		if representative[cls] == 0 || id < representative[cls] {
			representative[cls] = id
		}
	}
	for cls := 1; cls <= numClasses; cls++ {
		src := m.States[representative[cls]]
		dst := &State{ID: cls, NFANodes: src.NFANodes, Accept: src.Accept, EOF: src.EOF}
		for bv := 0; bv < 256; bv++ {
			for _, alt := range src.Trans[bv] {
				dst.Trans[bv] = append(dst.Trans[bv], Alt{
					Guard:   alt.Guard,
					Dst:     partition[alt.Dst],
					Actions: alt.Actions,
				})
			}
		}
		out.States[cls] = dst
	}
	return out
}

func baseSignature(st *State) string {
	s := ""
	if st.Accept {
		s += "A:"
		for _, e := range st.EOF {
			s += precondKey(e.Guard) + "/" + joinStrings(e.Actions) + "|"
		}
	}
	return s
}

func refinedSignature(st *State, partition []int) string {
	s := baseSignature(st)
	for bv := 0; bv < 256; bv++ {
		if len(st.Trans[bv]) == 0 {
			continue
		}
		s += string(rune(bv)) + ":"
		for _, alt := range st.Trans[bv] {
			s += precondKey(alt.Guard) + ">" + itoa(partition[alt.Dst]) + "/" + joinStrings(alt.Actions) + ","
		}
		s += ";"
	}
	return s
}

func joinStrings(xs []string) string {
	s := ""
	for _, x := range xs {
		s += x + ","
	}
	return s
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
