package ast

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/corelex/corelex/byteset"
	"github.com/pkg/errors"
)

// Sentinel parse error kinds. Wrapped with position context by Parse via
// github.com/pkg/errors so callers can both errors.Is against these and
// print a position-annotated message.
var (
	ErrUnmatchedLParen     = errors.New("unmatched '('")
	ErrUnmatchedRParen     = errors.New("unmatched ')'")
	ErrUnmatchedLBracket   = errors.New("unmatched '['")
	ErrUnmatchedRBracket   = errors.New("unmatched ']'")
	ErrEmptyClass          = errors.New("empty character class")
	ErrBadRange            = errors.New("bad range in character class")
	ErrExtraneousBackslash = errors.New("extraneous backslash at end of pattern")
	ErrBareClosure         = errors.New("closure applies to nothing")
	ErrBadEscape           = errors.New("illegal backslash escape")
	ErrUnicodeEscape       = errors.New("unicode escapes \\u and \\U are not supported")
	ErrMultibyteInClass    = errors.New("multi-byte character in class")
	ErrEmptyPattern        = errors.New("empty pattern")
)

var escapeMap = map[rune]byte{
	'a': '\a',
	'b': '\b',
	't': '\t',
	'n': '\n',
	'v': '\v',
	'r': '\r',
	'f': '\f',
	'0': 0,
}

const metaChars = ".*+?()[]|\\-^"

// Parse constructs a regex AST from pattern syntax: shunting-yard
// precedence over postfix `* + ?` (tightest), implicit concatenation,
// `|` (loosest), with `(` `)` grouping and `[...]`/`[^...]` byte classes
// (spec §4.2).
func Parse(pattern string) (*Node, error) {
	p := &parser{src: []rune(pattern)}
	toks, err := p.lex()
	if err != nil {
		return nil, errors.Wrapf(err, "parse %q at position %d", pattern, p.pos)
	}
	toks = insertConcat(toks)
	rpn, err := shuntingYard(toks)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %q", pattern)
	}
	root, err := evalRPN(rpn)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %q", pattern)
	}
	if root == nil {
		return nil, ErrEmptyPattern
	}
	return root, nil
}

type tokKind int

const (
	tokAtom tokKind = iota
	tokAlt
	tokConcat
	tokStar
	tokPlus
	tokQuestion
	tokLParen
	tokRParen
)

type token struct {
	kind tokKind
	atom *Node
}

type parser struct {
	src []rune
	pos int
}

func (p *parser) lex() ([]token, error) {
	var toks []token
	for p.pos < len(p.src) {
		r := p.src[p.pos]
		switch r {
		case '|':
			toks = append(toks, token{kind: tokAlt})
			p.pos++
		case '*':
			toks = append(toks, token{kind: tokStar})
			p.pos++
		case '+':
			toks = append(toks, token{kind: tokPlus})
			p.pos++
		case '?':
			toks = append(toks, token{kind: tokQuestion})
			p.pos++
		case '(':
			toks = append(toks, token{kind: tokLParen})
			p.pos++
		case ')':
			toks = append(toks, token{kind: tokRParen})
			p.pos++
		case '.':
			toks = append(toks, token{kind: tokAtom, atom: SetNode(byteset.Full())})
			p.pos++
		case '[':
			n, err := p.lexClass()
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tokAtom, atom: n})
		case '\\':
			n, err := p.lexEscape()
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tokAtom, atom: n})
		default:
			n, size := p.lexLiteral()
			toks = append(toks, token{kind: tokAtom, atom: n})
			p.pos += size
		}
	}
	return toks, nil
}

// lexLiteral consumes one rune (possibly multi-byte) as a literal.
func (p *parser) lexLiteral() (*Node, int) {
	r := p.src[p.pos]
	if r < utf8.RuneSelf {
		return ByteNode(byte(r)), 1
	}
	return CharNode(r), 1
}

func (p *parser) lexEscape() (*Node, error) {
	p.pos++ // consume '\'
	if p.pos >= len(p.src) {
		return nil, ErrExtraneousBackslash
	}
	r := p.src[p.pos]
	switch {
	case r == 'x':
		p.pos++
		if p.pos+2 > len(p.src) {
			return nil, errors.Wrap(ErrBadEscape, "truncated \\xHH")
		}
		hx := string(p.src[p.pos : p.pos+2])
		v, err := strconv.ParseUint(hx, 16, 8)
		if err != nil {
			return nil, errors.Wrapf(ErrBadEscape, "bad hex byte \\x%s", hx)
		}
		p.pos += 2
		return ByteNode(byte(v)), nil
	case r == 'u' || r == 'U':
		return nil, ErrUnicodeEscape
	case strings.ContainsRune(metaChars, r):
		p.pos++
		return ByteNode(byte(r)), nil
	default:
		if b, ok := escapeMap[r]; ok {
			p.pos++
			return ByteNode(b), nil
		}
		return nil, errors.Wrapf(ErrBadEscape, "\\%c", r)
	}
}

// lexClass parses [...] or [^...] into a Class/CClass node of Byte/Range
// children.
func (p *parser) lexClass() (*Node, error) {
	p.pos++ // consume '['
	negate := false
	if p.pos < len(p.src) && p.src[p.pos] == '^' {
		negate = true
		p.pos++
	}
	var items []*Node
	for {
		if p.pos >= len(p.src) {
			return nil, ErrUnmatchedLBracket
		}
		if p.src[p.pos] == ']' {
			p.pos++
			break
		}
		lo, err := p.lexClassByte()
		if err != nil {
			return nil, err
		}
		if p.pos < len(p.src) && p.src[p.pos] == '-' && p.pos+1 < len(p.src) && p.src[p.pos+1] != ']' {
			p.pos++ // consume '-'
			hi, err := p.lexClassByte()
			if err != nil {
				return nil, err
			}
			if hi < lo {
				return nil, errors.Wrapf(ErrBadRange, "[%d-%d]", lo, hi)
			}
			items = append(items, RangeNode(lo, hi))
		} else {
			items = append(items, ByteNode(lo))
		}
	}
	if len(items) == 0 {
		return nil, ErrEmptyClass
	}
	if negate {
		return CClassNode(items...), nil
	}
	return ClassNode(items...), nil
}

// lexClassByte reads one byte-valued class member: a raw ASCII byte, an
// escape, or errors if the rune is non-ASCII (multi-byte characters in
// classes are rejected per spec §4.2).
func (p *parser) lexClassByte() (byte, error) {
	r := p.src[p.pos]
	if r == '\\' {
		n, err := p.lexEscape()
		if err != nil {
			return 0, err
		}
		if n.Tag != TagByte {
			return 0, ErrMultibyteInClass
		}
		return n.Byte, nil
	}
	if r >= utf8.RuneSelf {
		return 0, ErrMultibyteInClass
	}
	p.pos++
	return byte(r), nil
}
