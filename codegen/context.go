// Package codegen turns a compiled dfa.Machine into target-language (Go)
// source text: a dense-table interpreter or a goto-threaded state network,
// plus the pseudomacro rewriter that expands hook-point placeholders inside
// user action fragments (spec §4.6-§4.8).
package codegen

import "fmt"

// Generator selects which of the two emission strategies produces the
// exec code.
type Generator int

const (
	GeneratorTable Generator = iota
	GeneratorGoto
)

// VariableNames are the identifiers the emitted code uses for its working
// state. Defaults match spec §6; a host embedding the generated code in a
// file that already uses these names can rename them.
type VariableNames struct {
	P        string
	PEnd     string
	IsEOF    string
	CS       string
	Data     string
	Mem      string
	Byte     string
	Buffer   string
}

func defaultVariableNames() VariableNames {
	return VariableNames{
		P:      "p",
		PEnd:   "p_end",
		IsEOF:  "is_eof",
		CS:     "cs",
		Data:   "data",
		Mem:    "mem",
		Byte:   "b",
		Buffer: "buffer",
	}
}

// GetByteFunc renders the expression that fetches the byte at position p
// out of mem. Only consulted by the table generator; the goto generator
// requires the default accessor (spec §6).
type GetByteFunc func(mem, p string) string

func defaultGetByte(mem, p string) string {
	return fmt.Sprintf("%s[%s-1]", mem, p)
}

// Context is the CodeGenContext of spec §6: the only configuration surface
// for code emission, assembled via functional options the way the
// teacher's Builder is configured by setting exported fields before
// Process runs.
type Context struct {
	Names     VariableNames
	Generator Generator
	GetByte   GetByteFunc
	Clean     bool
}

// Option configures a Context.
type Option func(*Context)

// WithVariableNames overrides the default identifiers.
func WithVariableNames(v VariableNames) Option {
	return func(c *Context) { c.Names = v }
}

// WithGenerator selects the table or goto strategy.
func WithGenerator(g Generator) Option {
	return func(c *Context) { c.Generator = g }
}

// WithGetByte overrides the table generator's byte accessor. Ignored by
// the goto generator.
func WithGetByte(f GetByteFunc) Option {
	return func(c *Context) { c.GetByte = f }
}

// WithClean sets the Clean flag. The generators emit no source-position
// comments, and none of them reads Clean, so it does not change their
// output.
func WithClean(clean bool) Option {
	return func(c *Context) { c.Clean = clean }
}

// NewContext builds a Context with spec-default variable names, the table
// generator, and the default byte accessor, then applies opts.
func NewContext(opts ...Option) *Context {
	c := &Context{
		Names:     defaultVariableNames(),
		Generator: GeneratorTable,
		GetByte:   defaultGetByte,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}
