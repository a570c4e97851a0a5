package codegen

import (
	"github.com/corelex/corelex/dfa"
)

// genTableExec emits the exec phase of spec §4.6: two dense matrices (a
// transition table and an action-dispatch table) as local composite
// literals, followed by the scan loop and its equality-dispatch chain.
// Preconditions cannot be expressed in this form, so any guarded
// transition or eof alternative is a hard error recommending the goto
// generator instead.
func genTableExec(ctx *Context, m *dfa.Machine, actions map[string]string) (string, error) {
	for _, st := range m.States[1:] {
		for b := 0; b < 256; b++ {
			for _, alt := range st.Trans[b] {
				if alt.Guard != nil {
					return "", ErrPreconditionsNeedGoto
				}
			}
		}
		if len(st.EOF) > 1 || (len(st.EOF) == 1 && st.EOF[0].Guard != nil) {
			return "", ErrPreconditionsNeedGoto
		}
	}

	at := buildActionTable(m)
	n := ctx.Names
	w := newWriter()

	w.writeString("cgT := [][256]int{\n")
	for _, st := range m.States[1:] {
		w.writeString("{")
		for b := 0; b < 256; b++ {
			dst := -st.ID
			if len(st.Trans[b]) > 0 {
				dst = st.Trans[b][0].Dst
			}
			w.writef("%d,", dst)
		}
		w.writeString("},\n")
	}
	w.writeString("}\n")

	w.writeString("cgA := [][256]int{\n")
	for _, st := range m.States[1:] {
		w.writeString("{")
		for b := 0; b < 256; b++ {
			id := 0
			if len(st.Trans[b]) > 0 {
				id = at.idOf(st.Trans[b][0].Actions)
			}
			w.writef("%d,", id)
		}
		w.writeString("},\n")
	}
	w.writeString("}\n")

	w.writeString("cgAccept := []bool{")
	for _, st := range m.States[1:] {
		w.writef("%t,", st.Accept)
	}
	w.writeString("}\n")

	w.writeString("cgEOF := []int{")
	for _, st := range m.States[1:] {
		id := 0
		if st.Accept && len(st.EOF) > 0 {
			id = at.idOf(st.EOF[0].Actions)
		}
		w.writef("%d,", id)
	}
	w.writeString("}\n")

	w.writef("for %s <= %s && %s > 0 {\n", n.P, n.PEnd, n.CS)
	w.writef("\t%s := %s\n", n.Byte, ctx.GetByte(n.Mem, n.P))
	w.writef("\tact := cgA[%s-1][%s]\n", n.CS, n.Byte)
	w.writef("\t%s = cgT[%s-1][%s]\n", n.CS, n.CS, n.Byte)
	for id, list := range at.lists {
		w.writef("\tif act == %d {\n", id+1)
		for _, name := range list {
			rewritten, err := RewriteMacros(actions[name], MacroContext{Names: n, Generator: GeneratorTable, InAction: true})
			if err != nil {
				return "", err
			}
			w.writeString("\t\t" + rewritten + "\n")
		}
		w.writeString("\t}\n")
	}
	w.writef("\t%s++\n", n.P)
	w.writeString("}\n")

	w.writef("if %s > %s && %s > 0 {\n", n.P, n.PEnd, n.CS)
	w.writef("\tif cgAccept[%s-1] {\n", n.CS)
	for id, list := range at.lists {
		w.writef("\t\tif cgEOF[%s-1] == %d {\n", n.CS, id+1)
		for _, name := range list {
			rewritten, err := RewriteMacros(actions[name], MacroContext{Names: n, Generator: GeneratorTable, InAction: true, AtEOF: true})
			if err != nil {
				return "", err
			}
			w.writeString("\t\t\t" + rewritten + "\n")
		}
		w.writeString("\t\t}\n")
	}
	w.writef("\t\t%s = 0\n", n.CS)
	w.writeString("\t} else {\n")
	w.writef("\t\t%s = -%s\n", n.CS, n.CS)
	w.writeString("\t}\n")
	w.writeString("} else if " + n.CS + " < 0 {\n")
	w.writef("\t%s--\n", n.P)
	w.writeString("}\n")

	return w.result()
}
