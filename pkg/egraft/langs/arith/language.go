// Package arith is the arithmetic + differentiation Language used by
// the spec's worked scenarios (S1-S6): the operator set, a
// constant-folding analysis, and the rewrite rulesets that drive them.
//
// Grounded verbatim in content on original_source/tests/math.rs's
// define_language! { enum Math { ... } } block, and on the teacher's
// per-operator file convention (op_add.go, op_subtract.go, ...) for
// display tokens.
package arith

import (
	"hash/fnv"
	"strconv"

	"github.com/wayneeseguin/egraft/pkg/egraft"
)

// Kind tags one member of the arithmetic operator set.
type Kind int

const (
	Num Kind = iota
	Sym
	Add
	Sub
	Mul
	Div
	Pow
	Exp
	Log
	Sqrt
	Diff
)

var displayTokens = map[Kind]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/",
	Pow: "pow", Exp: "exp", Log: "log", Sqrt: "sqrt", Diff: "d",
}

var arities = map[Kind]int{
	Add: 2, Sub: 2, Mul: 2, Div: 2, Pow: 2, Diff: 2,
	Exp: 1, Log: 1, Sqrt: 1,
}

var keywords = map[string]Kind{
	"+": Add, "-": Sub, "*": Mul, "/": Div,
	"pow": Pow, "exp": Exp, "log": Log, "sqrt": Sqrt, "d": Diff,
}

// Op is a single arithmetic operator application, tagged by Kind with a
// Num/Sym payload for the two leaf kinds.
type Op struct {
	Kind Kind
	Num  float64
	Sym  string
}

func (o Op) Arity() int {
	if o.Kind == Num || o.Kind == Sym {
		return 0
	}
	return arities[o.Kind]
}

func (o Op) Equal(other egraft.Op) bool {
	b, ok := other.(Op)
	if !ok || o.Kind != b.Kind {
		return false
	}
	switch o.Kind {
	case Num:
		return o.Num == b.Num
	case Sym:
		return o.Sym == b.Sym
	default:
		return true
	}
}

func (o Op) Hash() uint64 {
	h := fnv.New64a()
	var b [9]byte
	b[0] = byte(o.Kind)
	switch o.Kind {
	case Num:
		bits := uint64(o.Num)
		for i := 0; i < 8; i++ {
			b[1+i] = byte(bits >> (8 * i))
		}
		h.Write(b[:])
	case Sym:
		h.Write(b[:1])
		h.Write([]byte(o.Sym))
	default:
		h.Write(b[:1])
	}
	return h.Sum64()
}

func (o Op) String() string {
	switch o.Kind {
	case Num:
		return strconv.FormatFloat(o.Num, 'g', -1, 64)
	case Sym:
		return o.Sym
	default:
		return displayTokens[o.Kind]
	}
}

// IsConstant reports whether o is a numeric literal.
func (o Op) IsConstant() bool { return o.Kind == Num }

// Language implements egraft.Language for the arithmetic operator set.
type Language struct{}

func (Language) ParseOp(token string, children int) (egraft.Op, bool) {
	if kind, ok := keywords[token]; ok {
		if arities[kind] != children {
			return nil, false
		}
		return Op{Kind: kind}, true
	}
	if children != 0 {
		return nil, false
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return Op{Kind: Num, Num: f}, true
	}
	return Op{Kind: Sym, Sym: token}, true
}
