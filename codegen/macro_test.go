package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRewriteZeroArgMacrosExpand(t *testing.T) {
	mc := MacroContext{Names: defaultVariableNames(), InAction: true}
	out, err := RewriteMacros("mark(); unmark(); x := markpos()", mc)
	require.NoError(t, err)
	require.Equal(t, "buffer.SetMark(p); buffer.ClearMark(); x := buffer.Mark()", out)
}

func TestRewriteRelposNestsArgument(t *testing.T) {
	mc := MacroContext{Names: defaultVariableNames(), InAction: true}
	out, err := RewriteMacros("n := relpos(bufferpos())", mc)
	require.NoError(t, err)
	require.Equal(t, "n := (buffer.Pos() - buffer.Mark() + 1)", out)
}

func TestRewriteEscapeTableGenerator(t *testing.T) {
	mc := MacroContext{Names: defaultVariableNames(), Generator: GeneratorTable, InAction: true}
	out, err := RewriteMacros("escape()", mc)
	require.NoError(t, err)
	require.Equal(t, "p++; break", out)
}

func TestRewriteEscapeGotoGeneratorUsesCurrentState(t *testing.T) {
	mc := MacroContext{Names: defaultVariableNames(), Generator: GeneratorGoto, CurrentState: 3, InAction: true}
	out, err := RewriteMacros("escape()", mc)
	require.NoError(t, err)
	require.Equal(t, "cs = 3; p++; goto cg_exit", out)
}

func TestRewriteEscapeAtEOFIsNoop(t *testing.T) {
	mc := MacroContext{Names: defaultVariableNames(), Generator: GeneratorGoto, CurrentState: 3, InAction: true, AtEOF: true}
	out, err := RewriteMacros("escape()", mc)
	require.NoError(t, err)
	require.Equal(t, "", out)
}

func TestRewriteEscapeOutsideActionErrors(t *testing.T) {
	mc := MacroContext{Names: defaultVariableNames(), InAction: false}
	_, err := RewriteMacros("escape()", mc)
	require.ErrorIs(t, err, ErrEscapeOutsideAction)
}

func TestRewriteWrongArityErrors(t *testing.T) {
	mc := MacroContext{Names: defaultVariableNames(), InAction: true}
	_, err := RewriteMacros("mark(1)", mc)
	require.ErrorIs(t, err, ErrMacroArity)

	_, err = RewriteMacros("relpos()", mc)
	require.ErrorIs(t, err, ErrMacroArity)
}

func TestRewriteUnknownMacroPassesThrough(t *testing.T) {
	mc := MacroContext{Names: defaultVariableNames(), InAction: true}
	out, err := RewriteMacros("emit(7, x)", mc)
	require.NoError(t, err)
	require.Equal(t, "emit(7, x)", out)
}

func TestRewriteUnmatchedParenErrors(t *testing.T) {
	mc := MacroContext{Names: defaultVariableNames(), InAction: true}
	_, err := RewriteMacros("mark(", mc)
	require.ErrorIs(t, err, ErrUnmatchedMacroParen)
}
