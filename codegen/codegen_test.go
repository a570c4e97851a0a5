package codegen

import (
	"testing"

	"github.com/corelex/corelex/ast"
	"github.com/stretchr/testify/require"
)

func TestGenerateCodeTableAndGotoBothRenderCleanly(t *testing.T) {
	n, err := ast.Parse("ab|ac")
	require.NoError(t, err)
	m := buildMachine(t, ast.Desugar(n))

	for _, gen := range []Generator{GeneratorTable, GeneratorGoto} {
		ctx := NewContext(WithGenerator(gen))
		src, err := GenerateCode(ctx, "Scan", m, map[string]string{})
		require.NoError(t, err)
		require.Contains(t, src, "func Scan(")
		require.Contains(t, src, "package generated")
	}
}

func TestGenerateBufferValidatorContract(t *testing.T) {
	n, err := ast.Parse("ab")
	require.NoError(t, err)
	m := buildMachine(t, ast.Desugar(n))

	for _, gen := range []Generator{GeneratorTable, GeneratorGoto} {
		ctx := NewContext(WithGenerator(gen))
		src, err := GenerateBufferValidator(ctx, "Validate", m)
		require.NoError(t, err)
		require.Contains(t, src, "return -1")
		require.Contains(t, src, "return 0")
		require.Contains(t, src, "return p")
	}
}

func TestGenerateInputErrorCodeDiscriminatesByPositionNotSign(t *testing.T) {
	ctx := NewContext()
	src, err := GenerateInputErrorCode(ctx)
	require.NoError(t, err)
	require.Contains(t, src, "p <= p_end")
	require.Contains(t, src, "offending := -1")
}
