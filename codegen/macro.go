package codegen

import (
	"fmt"
	"strings"
)

// MacroContext carries the per-callsite information the rewriter needs:
// which generator is emitting (escape expands differently per generator),
// the state the current action fragment is attached to (goto's escape
// needs to know where to resume), whether this fragment runs at EOF
// (escape is a no-op there), and whether the fragment is an action at all
// (escape outside action scope is a compile error).
type MacroContext struct {
	Names        VariableNames
	Generator    Generator
	CurrentState int
	AtEOF        bool
	InAction     bool
}

// RewriteMacros substitutes the closed set of pseudomacro placeholders in
// fragment with their generator-specific expansions (spec §4.8). Unknown
// macro-shaped calls keep their name, with their arguments rewritten and
// re-joined by ", " (so "emit(7, x)" comes out as written); the rewriter recurses
// into arguments, so a macro nested inside another's argument is expanded
// too.
func RewriteMacros(fragment string, mc MacroContext) (string, error) {
	var out strings.Builder
	i := 0
	for i < len(fragment) {
		c := fragment[i]
		if isIdentStart(c) {
			j := i + 1
			for j < len(fragment) && isIdentPart(fragment[j]) {
				j++
			}
			name := fragment[i:j]
			k := j
			for k < len(fragment) && (fragment[k] == ' ' || fragment[k] == '\t') {
				k++
			}
			if k < len(fragment) && fragment[k] == '(' {
				closeIdx, err := matchParen(fragment, k)
				if err != nil {
					return "", err
				}
				argsText := fragment[k+1 : closeIdx]
				args, err := splitRewriteArgs(argsText, mc)
				if err != nil {
					return "", err
				}
				expansion, handled, err := expandMacro(name, args, mc)
				if err != nil {
					return "", err
				}
				if handled {
					out.WriteString(expansion)
				} else {
					out.WriteString(name)
					out.WriteByte('(')
					out.WriteString(strings.Join(args, ", "))
					out.WriteByte(')')
				}
				i = closeIdx + 1
				continue
			}
			out.WriteString(name)
			i = j
			continue
		}
		out.WriteByte(c)
		i++
	}
	return out.String(), nil
}

// matchParen returns the index of the ')' matching the '(' at open.
func matchParen(s string, open int) (int, error) {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, ErrUnmatchedMacroParen
}

// splitRewriteArgs splits a top-level-comma-separated argument list and
// recursively rewrites each argument, so nested macro calls expand first.
func splitRewriteArgs(s string, mc MacroContext) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var parts []string
	depth := 0
	last := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	parts = append(parts, s[last:])

	out := make([]string, len(parts))
	for i, p := range parts {
		rewritten, err := RewriteMacros(strings.TrimSpace(p), mc)
		if err != nil {
			return nil, err
		}
		out[i] = rewritten
	}
	return out, nil
}

// expandMacro resolves one macro call by name. handled is false for
// unrecognized names, which the caller passes through verbatim.
func expandMacro(name string, args []string, mc MacroContext) (expansion string, handled bool, err error) {
	switch name {
	case "escape":
		if len(args) != 0 {
			return "", true, ErrMacroArity
		}
		if !mc.InAction {
			return "", true, ErrEscapeOutsideAction
		}
		if mc.AtEOF {
			return "", true, nil
		}
		if mc.Generator == GeneratorGoto {
			return fmt.Sprintf("%s = %d; %s++; goto cg_exit", mc.Names.CS, mc.CurrentState, mc.Names.P), true, nil
		}
		return fmt.Sprintf("%s++; break", mc.Names.P), true, nil
	case "mark":
		if len(args) != 0 {
			return "", true, ErrMacroArity
		}
		return fmt.Sprintf("%s.SetMark(%s)", mc.Names.Buffer, mc.Names.P), true, nil
	case "unmark":
		if len(args) != 0 {
			return "", true, ErrMacroArity
		}
		return fmt.Sprintf("%s.ClearMark()", mc.Names.Buffer), true, nil
	case "markpos":
		if len(args) != 0 {
			return "", true, ErrMacroArity
		}
		return fmt.Sprintf("%s.Mark()", mc.Names.Buffer), true, nil
	case "bufferpos":
		if len(args) != 0 {
			return "", true, ErrMacroArity
		}
		return fmt.Sprintf("%s.Pos()", mc.Names.Buffer), true, nil
	case "setbuffer":
		if len(args) != 0 {
			return "", true, ErrMacroArity
		}
		return fmt.Sprintf("%s.SetPos(%s)", mc.Names.Buffer, mc.Names.P), true, nil
	case "relpos":
		if len(args) != 1 {
			return "", true, ErrMacroArity
		}
		return fmt.Sprintf("(%s - %s.Mark() + 1)", args[0], mc.Names.Buffer), true, nil
	case "abspos":
		if len(args) != 1 {
			return "", true, ErrMacroArity
		}
		return fmt.Sprintf("(%s + %s.Mark() - 1)", args[0], mc.Names.Buffer), true, nil
	default:
		return "", false, nil
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
