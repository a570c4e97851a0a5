package codegen

import (
	"go/format"

	"github.com/pkg/errors"
	"golang.org/x/tools/imports"
)

// renderSource formats raw Go source text and resolves/prunes its
// imports, exactly as the teacher's formatCode does in nex/nex.go.
func renderSource(src []byte) ([]byte, error) {
	formatted, err := format.Source(src)
	if err != nil {
		return nil, errors.Wrap(err, "codegen: format generated source")
	}
	processed, err := imports.Process("generated.go", formatted, &imports.Options{
		TabWidth:  8,
		TabIndent: true,
		Comments:  true,
		Fragment:  false,
	})
	if err != nil {
		return nil, errors.Wrap(err, "codegen: resolve imports in generated source")
	}
	return processed, nil
}
