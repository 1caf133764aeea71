package formula

import "strings"

// Symbols supplies fresh symbols for Skolemization and tells world symbols
// apart from individual symbols. *parser.Parser implements it.
type Symbols interface {
	GetNewConstant() string
	GetNewFunctionSymbol() string
	// GetNewWorldName returns a fresh world constant, or an ω-prefixed
	// world function symbol when skolem is set.
	GetNewWorldName(skolem bool) string
	IsWorldSymbol(sym string) bool
}

// Normalize returns the negation normal form of f: ¬ pushed to atoms, → and
// ↔ eliminated (↔ as a disjunction of conjunctions), double negations
// removed. Idempotent and equivalence preserving.
func Normalize(f Formula) Formula {
	switch g := f.(type) {
	case *Atom:
		return g
	case *Binary:
		switch g.Op {
		case OpAnd, OpOr:
			return &Binary{Op: g.Op, Sub1: Normalize(g.Sub1), Sub2: Normalize(g.Sub2)}
		case OpImp:
			return &Binary{Op: OpOr, Sub1: Normalize(Negate(g.Sub1)), Sub2: Normalize(g.Sub2)}
		case OpIff:
			both := &Binary{Op: OpAnd, Sub1: Normalize(g.Sub1), Sub2: Normalize(g.Sub2)}
			neither := &Binary{Op: OpAnd, Sub1: Normalize(Negate(g.Sub1)), Sub2: Normalize(Negate(g.Sub2))}
			return &Binary{Op: OpOr, Sub1: both, Sub2: neither}
		}
	case *Quant:
		return &Quant{Q: g.Q, Var: g.Var, Matrix: Normalize(g.Matrix)}
	case *Modal:
		return &Modal{Op: g.Op, Sub: Normalize(g.Sub), World: g.World}
	case *Not:
		switch s := g.Sub.(type) {
		case *Atom:
			return g
		case *Not:
			return Normalize(s.Sub)
		case *Binary:
			switch s.Op {
			case OpAnd:
				return &Binary{Op: OpOr, Sub1: Normalize(Negate(s.Sub1)), Sub2: Normalize(Negate(s.Sub2))}
			case OpOr:
				return &Binary{Op: OpAnd, Sub1: Normalize(Negate(s.Sub1)), Sub2: Normalize(Negate(s.Sub2))}
			case OpImp:
				return &Binary{Op: OpAnd, Sub1: Normalize(s.Sub1), Sub2: Normalize(Negate(s.Sub2))}
			case OpIff:
				one := &Binary{Op: OpAnd, Sub1: Normalize(s.Sub1), Sub2: Normalize(Negate(s.Sub2))}
				other := &Binary{Op: OpAnd, Sub1: Normalize(Negate(s.Sub1)), Sub2: Normalize(s.Sub2)}
				return &Binary{Op: OpOr, Sub1: one, Sub2: other}
			}
		case *Quant:
			flip := OpEx
			if s.Q == OpEx {
				flip = OpAll
			}
			return &Quant{Q: flip, Var: s.Var, Matrix: Normalize(Negate(s.Matrix))}
		case *Modal:
			flip := OpDia
			if s.Op == OpDia {
				flip = OpBox
			}
			return &Modal{Op: flip, Sub: Normalize(Negate(s.Sub)), World: s.World}
		}
	}
	return f
}

// Skolemize assumes f is in NNF and replaces each ∃-bound variable occurring
// under enclosing ∀-bound variables x₁…xₖ by a fresh Skolem term over them:
// a fresh constant when k=0, a fresh function symbol applied to x₁…xₖ
// otherwise. World variables draw from the world supplies. All remaining
// quantifiers are ∀.
func Skolemize(f Formula, syms Symbols) Formula {
	return skolemRec(f, syms, nil)
}

func skolemRec(f Formula, syms Symbols, univ []Term) Formula {
	switch g := f.(type) {
	case *Binary:
		return &Binary{
			Op:   g.Op,
			Sub1: skolemRec(g.Sub1, syms, univ),
			Sub2: skolemRec(g.Sub2, syms, univ),
		}
	case *Quant:
		if g.Q == OpAll {
			return &Quant{Q: OpAll, Var: g.Var, Matrix: skolemRec(g.Matrix, syms, append(univ, g.Var))}
		}
		world := syms.IsWorldSymbol(g.Var.Sym)
		var sk Term
		if len(univ) == 0 {
			if world {
				sk = T(syms.GetNewWorldName(false))
			} else {
				sk = T(syms.GetNewConstant())
			}
		} else {
			var fn string
			if world {
				fn = syms.GetNewWorldName(true)
			} else {
				fn = syms.GetNewFunctionSymbol()
			}
			sk = T(fn, append([]Term{}, univ...)...)
		}
		return skolemRec(Substitute(g.Matrix, g.Var, sk, false), syms, univ)
	case *Modal:
		return &Modal{Op: g.Op, Sub: skolemRec(g.Sub, syms, univ), World: g.World}
	}
	return f
}

// Clause is a disjunction of literals.
type Clause []Formula

// CNF converts f to conjunctive normal form as a list of clauses. f is
// normalized first. The clause order and the literal order within clauses
// follow a deterministic left-to-right fold over the distribution tree;
// duplicate literals within a clause are suppressed, and a clause that is a
// superset of an earlier one is dropped.
func CNF(f Formula) []Clause {
	return subsume(cnfRec(Normalize(f)))
}

func cnfRec(f Formula) []Clause {
	if g, ok := f.(*Binary); ok {
		switch g.Op {
		case OpAnd:
			return append(cnfRec(g.Sub1), cnfRec(g.Sub2)...)
		case OpOr:
			left := cnfRec(g.Sub1)
			right := cnfRec(g.Sub2)
			out := make([]Clause, 0, len(left)*len(right))
			for _, ca := range left {
				for _, cb := range right {
					out = append(out, mergeClause(ca, cb))
				}
			}
			return out
		}
	}
	return []Clause{{f}}
}

func mergeClause(a, b Clause) Clause {
	out := append(Clause{}, a...)
	for _, lit := range b {
		if !containsLit(out, lit) {
			out = append(out, lit)
		}
	}
	return out
}

func containsLit(c Clause, lit Formula) bool {
	for _, l := range c {
		if l.Equals(lit) {
			return true
		}
	}
	return false
}

func subsume(cs []Clause) []Clause {
	out := make([]Clause, 0, len(cs))
	for _, c := range cs {
		dup := false
		for _, kept := range out {
			if subset(kept, c) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, c)
		}
	}
	return out
}

func subset(a, b Clause) bool {
	for _, l := range a {
		if !containsLit(b, l) {
			return false
		}
	}
	return true
}

// ClausalNormalForm composes normalization, Skolemization and matrix CNF,
// dropping the outer universal quantifiers; the remaining variables are
// implicitly universally quantified.
func ClausalNormalForm(f Formula, syms Symbols) []Clause {
	s := Skolemize(Normalize(f), syms)
	return CNF(dropUniversals(s))
}

func dropUniversals(f Formula) Formula {
	switch g := f.(type) {
	case *Quant:
		return dropUniversals(g.Matrix)
	case *Binary:
		return &Binary{Op: g.Op, Sub1: dropUniversals(g.Sub1), Sub2: dropUniversals(g.Sub2)}
	}
	return f
}

// ClausesString renders a clause list as [[l11,l12],[l21,…]] for display
// and tests.
func ClausesString(cs []Clause) string {
	var b strings.Builder
	b.WriteString("[")
	for i, c := range cs {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("[")
		for j, l := range c {
			if j > 0 {
				b.WriteString(",")
			}
			b.WriteString(l.String())
		}
		b.WriteString("]")
	}
	b.WriteString("]")
	return b.String()
}
