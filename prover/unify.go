package prover

import (
	"strings"

	"treeproof/formula"
)

// Substitution binds prover free variables (ξ, ζ) to terms.
type Substitution map[string]formula.Term

func isFreeVar(sym string) bool {
	return strings.HasPrefix(sym, "ξ") || strings.HasPrefix(sym, "ζ")
}

// resolve chases bindings inside t until no bound variable remains.
func resolve(t formula.Term, sub Substitution) formula.Term {
	if t.Atomic() {
		if b, ok := sub[t.Sym]; ok && isFreeVar(t.Sym) {
			return resolve(b, sub)
		}
		return t
	}
	args := make([]formula.Term, len(t.Args))
	for i, a := range t.Args {
		args[i] = resolve(a, sub)
	}
	return formula.Term{Sym: t.Sym, Args: args}
}

func occurs(v string, t formula.Term, sub Substitution) bool {
	t = resolve(t, sub)
	if t.Atomic() {
		return t.Sym == v
	}
	for _, a := range t.Args {
		if occurs(v, a, sub) {
			return true
		}
	}
	return false
}

func unifyTerms(a, b formula.Term, sub Substitution) bool {
	a = resolve(a, sub)
	b = resolve(b, sub)
	switch {
	case a.Atomic() && isFreeVar(a.Sym):
		if a.Equals(b) {
			return true
		}
		if occurs(a.Sym, b, sub) {
			return false
		}
		sub[a.Sym] = b
		return true
	case b.Atomic() && isFreeVar(b.Sym):
		return unifyTerms(b, a, sub)
	case a.Sym != b.Sym || len(a.Args) != len(b.Args):
		return false
	}
	for i := range a.Args {
		if !unifyTerms(a.Args[i], b.Args[i], sub) {
			return false
		}
	}
	return true
}

// unifyAtoms unifies two atoms of the same predicate, extending sub.
// On failure sub may hold partial bindings; callers pass a scratch copy.
func unifyAtoms(a, b *formula.Atom, sub Substitution) bool {
	if a.Pred != b.Pred || len(a.Terms) != len(b.Terms) {
		return false
	}
	for i := range a.Terms {
		if !unifyTerms(a.Terms[i], b.Terms[i], sub) {
			return false
		}
	}
	return true
}

// apply rewrites every term of f through sub.
func apply(f formula.Formula, sub Substitution) formula.Formula {
	return formula.MapTerms(f, func(t formula.Term) formula.Term {
		return resolve(t, sub)
	})
}
