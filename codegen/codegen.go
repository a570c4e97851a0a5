package codegen

import (
	"github.com/corelex/corelex/dfa"
	"github.com/pkg/errors"
)

// GenerateInitCode emits the scan loop's initial state: position 1,
// end-of-buffer position, start state, and the byte view the accessor
// reads from (spec §4.6 step 1 / §4.7).
func GenerateInitCode(ctx *Context) (string, error) {
	n := ctx.Names
	w := newWriter()
	w.writef("%s := 1\n", n.P)
	w.writef("%s := len(%s)\n", n.PEnd, n.Data)
	w.writef("%s := 1\n", n.CS)
	w.writef("%s := %s\n", n.Mem, n.Data)
	return w.result()
}

// GenerateExecCode emits the scan loop proper, dispatching to the table
// or goto strategy per ctx.Generator (spec §4.6, §4.7). actions maps
// every action name the machine references to its source fragment; a
// mismatch (missing or unreferenced name) is ErrActionSetMismatch.
func GenerateExecCode(ctx *Context, m *dfa.Machine, actions map[string]string) (string, error) {
	if err := checkActionSet(m, actions); err != nil {
		return "", err
	}
	switch ctx.Generator {
	case GeneratorTable:
		return genTableExec(ctx, m, actions)
	case GeneratorGoto:
		return genGotoExec(ctx, m, actions)
	default:
		return "", errors.Errorf("codegen: unknown generator %d", ctx.Generator)
	}
}

// GenerateInputErrorCode emits the shared error-reporting call spec §6's
// reporter contract and §7's runtime error behavior describe. Both
// generators leave cs negative on a byte mismatch and on an unexpected end
// in a non-accept state, so the two are told apart by position: p <= p_end
// means p is at the offending byte, otherwise input ended and the offending
// byte is reported as -1.
func GenerateInputErrorCode(ctx *Context) (string, error) {
	n := ctx.Names
	w := newWriter()
	w.writef("if %s != 0 {\n", n.CS)
	w.writef("\tstate := %s\n", n.CS)
	w.writeString("\tif state < 0 {\n\t\tstate = -state\n\t}\n")
	w.writef("\toffending := -1\n")
	w.writef("\tif %s <= %s {\n", n.P, n.PEnd)
	w.writef("\t\toffending = int(%s[%s-1])\n", n.Mem, n.P)
	w.writeString("\t}\n")
	w.writef("\treporter(state, offending, %s, %s)\n", n.Mem, n.P)
	w.writeString("}\n")
	return w.result()
}

// GenerateCode assembles init, exec, and error code into a full scan
// function and renders it through go/format and golang.org/x/tools/imports
// (spec §6 generate_code).
func GenerateCode(ctx *Context, funcName string, m *dfa.Machine, actions map[string]string) (string, error) {
	initCode, err := GenerateInitCode(ctx)
	if err != nil {
		return "", err
	}
	execCode, err := GenerateExecCode(ctx, m, actions)
	if err != nil {
		return "", err
	}
	errCode, err := GenerateInputErrorCode(ctx)
	if err != nil {
		return "", err
	}

	w := newWriter()
	w.writef("package generated\n\n")
	w.writef("func %s(%s []byte, reporter func(state int, offendingByte int, mem []byte, pos int)", funcName, ctx.Names.Data)
	if ctx.Generator == GeneratorGoto {
		w.writeString(", precond func(name string) bool")
	}
	w.writeString(") {\n")
	w.writeString(initCode)
	w.writeString(execCode)
	w.writeString(errCode)
	w.writeString("}\n")
	src, err := w.result()
	if err != nil {
		return "", err
	}

	rendered, err := renderSource([]byte(src))
	if err != nil {
		return "", err
	}
	return string(rendered), nil
}

// GenerateBufferValidator emits a whole validator function for m: it
// returns -1 (spec's "none") on a full match, 0 on unexpected EOF in a
// non-accept state, or the 1-based position of the first invalid byte
// (spec §6). User actions are irrelevant to validation, so every action
// the machine references is bound to an empty fragment.
func GenerateBufferValidator(ctx *Context, funcName string, m *dfa.Machine) (string, error) {
	silent := map[string]string{}
	for name := range referencedActions(m) {
		silent[name] = ""
	}

	var execCode string
	var err error
	switch ctx.Generator {
	case GeneratorTable:
		execCode, err = genTableExec(ctx, m, silent)
	case GeneratorGoto:
		execCode, err = genGotoExec(ctx, m, silent)
	default:
		return "", errors.Errorf("codegen: unknown generator %d", ctx.Generator)
	}
	if err != nil {
		return "", err
	}

	initCode, err := GenerateInitCode(ctx)
	if err != nil {
		return "", err
	}
	n := ctx.Names

	w := newWriter()
	w.writef("package generated\n\n")
	w.writef("// %s returns -1 on a full match, 0 on unexpected EOF, or the\n", funcName)
	w.writeString("// 1-based index of the first invalid byte.\n")
	w.writef("func %s(%s []byte", funcName, n.Data)
	if ctx.Generator == GeneratorGoto {
		w.writeString(", precond func(name string) bool")
	}
	w.writeString(") int {\n")
	w.writeString(initCode)
	w.writeString(execCode)
	w.writef("if %s == 0 {\n\treturn -1\n}\n", n.CS)
	w.writef("if %s > %s {\n\treturn 0\n}\n", n.P, n.PEnd)
	w.writef("return %s\n", n.P)
	w.writeString("}\n")
	src, err := w.result()
	if err != nil {
		return "", err
	}

	rendered, err := renderSource([]byte(src))
	if err != nil {
		return "", err
	}
	return string(rendered), nil
}
