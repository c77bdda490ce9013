package egraft

// Op is one tagged member of a Language's finite operator set. Payload
// (number literals, symbol names, ...) participates in Equal and Hash;
// everything else about an ENode is structural and handled by the
// e-graph itself.
//
// Grounded on the teacher's per-operator capability interface
// (pkg/graft/operators/operator.go's Operator{Setup,Phase,Dependencies,
// Run}) cut down to the four capabilities spec §4.B actually asks for:
// arity, equality, hash, display.
type Op interface {
	// Arity is the fixed number of children this op takes.
	Arity() int
	// Equal reports whether two ops carry the same tag and payload.
	// Children are not considered — canonicalization/congruence is the
	// e-graph's job, not the op's.
	Equal(other Op) bool
	// Hash must agree with Equal: Equal(a,b) implies Hash(a)==Hash(b).
	Hash() uint64
	// String is the display token used by the s-expression reader/writer.
	String() string
}

// Language is a user-supplied finite operator set plus enough surface
// syntax to parse it. PatternVar atoms (?name) are recognized by the
// parser itself, not by the Language.
type Language interface {
	// ParseOp resolves a head token together with its observed child
	// count (0 for a bare atom) to a concrete Op. ok is false for a
	// token this language does not recognize at that arity.
	ParseOp(token string, children int) (op Op, ok bool)
}
