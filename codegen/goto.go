package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/corelex/corelex/ast"
	"github.com/corelex/corelex/byteset"
	"github.com/corelex/corelex/dfa"
)

// edgeGroup is one outgoing edge of a goto-generator state block: a set
// of bytes sharing the exact same ordered list of guarded alternatives,
// grounded on the teacher's per-state switch in writeFamily but keyed on
// byte ranges instead of rule indices.
type edgeGroup struct {
	bytes []byte
	alts  []dfa.Alt
}

func groupEdges(st *dfa.State) []edgeGroup {
	sigOf := func(alts []dfa.Alt) string {
		s := ""
		for _, a := range alts {
			s += precondKeyGoto(a.Guard) + ">" + fmt.Sprint(a.Dst) + "/" + strings.Join(a.Actions, ",") + ";"
		}
		return s
	}
	groups := map[string]*edgeGroup{}
	var order []string
	for b := 0; b < 256; b++ {
		if len(st.Trans[b]) == 0 {
			continue
		}
		sig := sigOf(st.Trans[b])
		g, ok := groups[sig]
		if !ok {
			g = &edgeGroup{alts: st.Trans[b]}
			groups[sig] = g
			order = append(order, sig)
		}
		g.bytes = append(g.bytes, byte(b))
	}
	out := make([]edgeGroup, 0, len(order))
	for _, sig := range order {
		out = append(out, *groups[sig])
	}
	sort.Slice(out, func(i, j int) bool { return len(out[i].bytes) > len(out[j].bytes) })
	return out
}

func precondKeyGoto(p map[string]ast.Polarity) string {
	if len(p) == 0 {
		return ""
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	s := ""
	for _, k := range keys {
		s += fmt.Sprintf("%s:%d;", k, p[k])
	}
	return s
}

func rangeTest(byteVar string, s byteset.Set) string {
	ranges := s.IterRanges()
	parts := make([]string, 0, len(ranges))
	for _, r := range ranges {
		if r.Lo == r.Hi {
			parts = append(parts, fmt.Sprintf("%s == %d", byteVar, r.Lo))
		} else {
			parts = append(parts, fmt.Sprintf("(%s >= %d && %s <= %d)", byteVar, r.Lo, byteVar, r.Hi))
		}
	}
	return strings.Join(parts, " || ")
}

func guardExpr(g map[string]ast.Polarity) string {
	if len(g) == 0 {
		return "true"
	}
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var parts []string
	for _, k := range keys {
		switch g[k] {
		case ast.PolarityTrue:
			parts = append(parts, fmt.Sprintf("precond(%q)", k))
		case ast.PolarityFalse:
			parts = append(parts, fmt.Sprintf("!precond(%q)", k))
		}
	}
	if len(parts) == 0 {
		return "true"
	}
	return strings.Join(parts, " && ")
}

// genGotoExec emits the exec phase of spec §4.7: a labeled block per
// state plus per (destination, action-list) action prologue, grounded on
// the teacher's writeFamily/OUTER-label pattern but addressed by DFA
// state id instead of rule index. Precondition guards compile to a
// `precond(name)` host callback conjunction; the table generator cannot
// express these at all (spec §4.5).
func genGotoExec(ctx *Context, m *dfa.Machine, actions map[string]string) (string, error) {
	n := ctx.Names
	at := buildActionTable(m)
	w := newWriter()

	// destination -> distinct action ids appearing on an edge into it.
	destActions := map[int]map[int][]string{}
	for _, st := range m.States[1:] {
		for b := 0; b < 256; b++ {
			for _, alt := range st.Trans[b] {
				id := at.idOf(alt.Actions)
				if id == 0 {
					continue
				}
				if destActions[alt.Dst] == nil {
					destActions[alt.Dst] = map[int][]string{}
				}
				destActions[alt.Dst][id] = alt.Actions
			}
		}
	}

	w.writef("var %s byte\n", n.Byte)
	w.writef("if %s > %s {\n", n.P, n.PEnd)
	w.writef("\t%s = 1\n", n.CS)
	w.writeString("\tgoto cg_exit\n")
	w.writeString("}\n")
	w.writeString("goto cg_case_1\n")

	ids := sortedStateIDs(m)
	for _, id := range ids {
		st := m.States[id]
		w.writef("cg_case_%d:\n", id)
		w.writef("%s = %s\n", n.Byte, defaultGetByte(n.Mem, n.P))
		groups := groupEdges(st)
		for gi, grp := range groups {
			cond := rangeTest(n.Byte, byteset.FromBytes(grp.bytes...))
			if gi == 0 {
				w.writef("if %s {\n", cond)
			} else {
				w.writef("} else if %s {\n", cond)
			}
			for ai, alt := range grp.alts {
				target := fmt.Sprintf("cg_advance_%d", alt.Dst)
				if actID := at.idOf(alt.Actions); actID != 0 {
					target = fmt.Sprintf("cg_action_%d_%d", alt.Dst, actID)
				}
				guard := guardExpr(alt.Guard)
				if ai == 0 {
					w.writef("\tif %s {\n", guard)
				} else {
					w.writef("\t} else if %s {\n", guard)
				}
				w.writef("\t\tgoto %s\n", target)
			}
			// Every alternative in this group may be precondition-guarded;
			// if none of their guards hold at runtime, the byte must be
			// rejected exactly as if no edge existed (spec §4.7, §6 S6),
			// not fall through into the next state's case block.
			w.writeString("\t} else {\n")
			w.writef("\t\t%s = -%d\n", n.CS, id)
			w.writeString("\t\tgoto cg_exit\n")
			w.writeString("\t}\n")
		}
		if len(groups) > 0 {
			w.writeString("} else {\n")
		} else {
			w.writeString("if true {\n")
		}
		w.writef("\t%s = -%d\n", n.CS, id)
		w.writeString("\tgoto cg_exit\n")
		w.writeString("}\n")
	}

	for _, id := range ids {
		actIDs := make([]int, 0, len(destActions[id]))
		for actID := range destActions[id] {
			actIDs = append(actIDs, actID)
		}
		sort.Ints(actIDs)
		for _, actID := range actIDs {
			list := destActions[id][actID]
			w.writef("cg_action_%d_%d:\n", id, actID)
			for _, name := range list {
				rewritten, err := RewriteMacros(actions[name], MacroContext{Names: n, Generator: GeneratorGoto, CurrentState: id, InAction: true})
				if err != nil {
					return "", err
				}
				w.writeString(rewritten + "\n")
			}
			w.writef("goto cg_advance_%d\n", id)
		}
	}

	for _, id := range ids {
		w.writef("cg_advance_%d:\n", id)
		w.writef("%s++\n", n.P)
		w.writef("if %s > %s {\n", n.P, n.PEnd)
		w.writef("\t%s = %d\n", n.CS, id)
		w.writeString("\tgoto cg_exit\n")
		w.writeString("}\n")
		w.writef("goto cg_case_%d\n", id)
	}

	w.writeString("cg_exit:\n")
	w.writef("if %s > %s && %s > 0 {\n", n.P, n.PEnd, n.CS)
	w.writeString("\tswitch {\n")
	for _, id := range ids {
		st := m.States[id]
		if !st.Accept {
			continue
		}
		w.writef("\tcase %s == %d:\n", n.CS, id)
		for ei, eofAlt := range st.EOF {
			if ei == 0 {
				w.writef("\t\tif %s {\n", guardExpr(eofAlt.Guard))
			} else {
				w.writef("\t\t} else if %s {\n", guardExpr(eofAlt.Guard))
			}
			for _, name := range eofAlt.Actions {
				rewritten, err := RewriteMacros(actions[name], MacroContext{Names: n, Generator: GeneratorGoto, CurrentState: id, InAction: true, AtEOF: true})
				if err != nil {
					return "", err
				}
				w.writeString("\t\t\t" + rewritten + "\n")
			}
		}
		if len(st.EOF) > 0 {
			w.writeString("\t\t}\n")
		}
		w.writef("\t\t%s = 0\n", n.CS)
	}
	w.writeString("\tdefault:\n")
	w.writef("\t\t%s = -%s\n", n.CS, n.CS)
	w.writeString("\t}\n")
	w.writeString("}\n")

	return w.result()
}
