package formula

// Negate wraps f in a negation without simplifying.
func Negate(f Formula) Formula { return &Not{Sub: f} }

func substTerm(t, old, repl Term, shallow bool) Term {
	if t.Equals(old) {
		return repl
	}
	if shallow || t.Atomic() {
		return t
	}
	args := make([]Term, len(t.Args))
	for i, a := range t.Args {
		args[i] = substTerm(a, old, repl, shallow)
	}
	return Term{Sym: t.Sym, Args: args}
}

// Substitute returns a fresh formula with every occurrence of old replaced
// by repl. With shallow set, only whole-term matches are replaced; otherwise
// the replacement also descends into composite terms containing old.
func Substitute(f Formula, old, repl Term, shallow bool) Formula {
	switch g := f.(type) {
	case *Atom:
		ts := make([]Term, len(g.Terms))
		for i, t := range g.Terms {
			ts[i] = substTerm(t, old, repl, shallow)
		}
		return &Atom{Pred: g.Pred, Terms: ts, World: g.World}
	case *Not:
		return &Not{Sub: Substitute(g.Sub, old, repl, shallow)}
	case *Binary:
		return &Binary{
			Op:   g.Op,
			Sub1: Substitute(g.Sub1, old, repl, shallow),
			Sub2: Substitute(g.Sub2, old, repl, shallow),
		}
	case *Quant:
		if g.Var.Equals(old) {
			return g
		}
		return &Quant{Q: g.Q, Var: g.Var, Matrix: Substitute(g.Matrix, old, repl, shallow)}
	case *Modal:
		return &Modal{Op: g.Op, Sub: Substitute(g.Sub, old, repl, shallow), World: g.World}
	}
	return f
}

// AlphaOf returns the i-th (1 or 2) result of the conjunctive rule applied
// to f, with the standard classical signs. f must be of type Alpha.
func AlphaOf(f Formula, i int) Formula {
	switch g := f.(type) {
	case *Binary:
		// A∧B ⇒ A, B
		if i == 1 {
			return g.Sub1
		}
		return g.Sub2
	case *Not:
		b, ok := g.Sub.(*Binary)
		if !ok {
			return nil
		}
		switch b.Op {
		case OpOr:
			// ¬(A∨B) ⇒ ¬A, ¬B
			if i == 1 {
				return &Not{Sub: b.Sub1}
			}
			return &Not{Sub: b.Sub2}
		case OpImp:
			// ¬(A→B) ⇒ A, ¬B
			if i == 1 {
				return b.Sub1
			}
			return &Not{Sub: b.Sub2}
		}
	}
	return nil
}

// BetaOf returns the i-th (1 or 2) result of the disjunctive rule applied
// to f. Biconditionals split into conjunctions: (A↔B) ⇒ (A∧B) | (¬A∧¬B),
// ¬(A↔B) ⇒ (A∧¬B) | (¬A∧B).
func BetaOf(f Formula, i int) Formula {
	switch g := f.(type) {
	case *Binary:
		switch g.Op {
		case OpOr:
			if i == 1 {
				return g.Sub1
			}
			return g.Sub2
		case OpImp:
			if i == 1 {
				return &Not{Sub: g.Sub1}
			}
			return g.Sub2
		case OpIff:
			if i == 1 {
				return &Binary{Op: OpAnd, Sub1: g.Sub1, Sub2: g.Sub2}
			}
			return &Binary{Op: OpAnd, Sub1: &Not{Sub: g.Sub1}, Sub2: &Not{Sub: g.Sub2}}
		}
	case *Not:
		b, ok := g.Sub.(*Binary)
		if !ok {
			return nil
		}
		switch b.Op {
		case OpAnd:
			// ¬(A∧B) ⇒ ¬A | ¬B
			if i == 1 {
				return &Not{Sub: b.Sub1}
			}
			return &Not{Sub: b.Sub2}
		case OpIff:
			if i == 1 {
				return &Binary{Op: OpAnd, Sub1: b.Sub1, Sub2: &Not{Sub: b.Sub2}}
			}
			return &Binary{Op: OpAnd, Sub1: &Not{Sub: b.Sub1}, Sub2: b.Sub2}
		}
	}
	return nil
}

// Walk visits every term of f left to right, outermost first. The walk
// enters composite terms only when descend returns true for the enclosing
// term.
func Walk(f Formula, visit func(Term) (descend bool)) {
	var walkTerm func(t Term)
	walkTerm = func(t Term) {
		if visit(t) {
			for _, a := range t.Args {
				walkTerm(a)
			}
		}
	}
	switch g := f.(type) {
	case *Atom:
		for _, t := range g.Terms {
			walkTerm(t)
		}
	case *Not:
		Walk(g.Sub, visit)
	case *Binary:
		Walk(g.Sub1, visit)
		Walk(g.Sub2, visit)
	case *Quant:
		Walk(g.Matrix, visit)
	case *Modal:
		Walk(g.Sub, visit)
	}
}

// MapTerms rebuilds f with every atom's terms passed through fn.
func MapTerms(f Formula, fn func(Term) Term) Formula {
	switch g := f.(type) {
	case *Atom:
		ts := make([]Term, len(g.Terms))
		for i, t := range g.Terms {
			ts[i] = fn(t)
		}
		return &Atom{Pred: g.Pred, Terms: ts, World: g.World}
	case *Not:
		return &Not{Sub: MapTerms(g.Sub, fn)}
	case *Binary:
		return &Binary{Op: g.Op, Sub1: MapTerms(g.Sub1, fn), Sub2: MapTerms(g.Sub2, fn)}
	case *Quant:
		return &Quant{Q: g.Q, Var: g.Var, Matrix: MapTerms(g.Matrix, fn)}
	case *Modal:
		return &Modal{Op: g.Op, Sub: MapTerms(g.Sub, fn), World: g.World}
	}
	return f
}
