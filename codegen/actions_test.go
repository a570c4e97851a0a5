package codegen

import (
	"testing"

	"github.com/corelex/corelex/ast"
	"github.com/stretchr/testify/require"
)

func TestCheckActionSetDetectsMissingAndExtra(t *testing.T) {
	n, err := ast.Parse("a")
	require.NoError(t, err)
	m := buildMachine(t, ast.Desugar(ast.OnAll(n, "hit")))

	err = checkActionSet(m, map[string]string{})
	require.ErrorIs(t, err, ErrActionSetMismatch)

	err = checkActionSet(m, map[string]string{"hit": "x", "extra": "y"})
	require.ErrorIs(t, err, ErrActionSetMismatch)

	err = checkActionSet(m, map[string]string{"hit": "x"})
	require.NoError(t, err)
}

func TestActionTableAssignsCompactFirstEncounterIDs(t *testing.T) {
	n, err := ast.Parse("ab")
	require.NoError(t, err)
	annotated := ast.OnAll(n, "x", "y")
	m := buildMachine(t, ast.Desugar(annotated))

	at := buildActionTable(m)
	id := at.idOf([]string{"x", "y"})
	require.Equal(t, 1, id)
	// order matters: the reversed list is a distinct, unregistered key.
	require.Equal(t, 0, at.idOf([]string{"y", "x"}))
}
