// Package modal implements the standard translation between modal formulas
// and their first-order correlates with an explicit world argument.
package modal

import (
	"treeproof/formula"
	"treeproof/parser"
)

// BaseWorld is the distinguished initial world constant.
const BaseWorld = "w"

// ContainsModal reports whether f contains □ or ◇.
func ContainsModal(f formula.Formula) bool {
	switch g := f.(type) {
	case *formula.Modal:
		return true
	case *formula.Not:
		return ContainsModal(g.Sub)
	case *formula.Binary:
		return ContainsModal(g.Sub1) || ContainsModal(g.Sub2)
	case *formula.Quant:
		return ContainsModal(g.Matrix)
	}
	return false
}

// TranslateFromModal maps f to first order: every predicate gains a world
// argument, □A becomes ∀v(Rwv→A[w:=v]) and ◇A becomes ∃v(Rwv∧A[w:=v]).
// Registers w, R and the re-aritied predicates with p, and flags IsModal
// when a modal operator occurs. Works on purely propositional input too.
func TranslateFromModal(f formula.Formula, p *parser.Parser) formula.Formula {
	if ContainsModal(f) {
		p.IsModal = true
	}
	p.RegisterExpression(BaseWorld, parser.WorldConstant, 0)
	p.RegisterExpression(p.R, parser.Predicate, 2)
	return transFrom(f, formula.T(BaseWorld), p)
}

func transFrom(f formula.Formula, world formula.Term, p *parser.Parser) formula.Formula {
	switch g := f.(type) {
	case *formula.Atom:
		terms := make([]formula.Term, 0, len(g.Terms)+1)
		terms = append(terms, g.Terms...)
		terms = append(terms, world)
		p.RegisterExpression(g.Pred, parser.Predicate, len(terms))
		return &formula.Atom{Pred: g.Pred, Terms: terms}
	case *formula.Not:
		return &formula.Not{Sub: transFrom(g.Sub, world, p)}
	case *formula.Binary:
		return &formula.Binary{
			Op:   g.Op,
			Sub1: transFrom(g.Sub1, world, p),
			Sub2: transFrom(g.Sub2, world, p),
		}
	case *formula.Quant:
		return &formula.Quant{Q: g.Q, Var: g.Var, Matrix: transFrom(g.Matrix, world, p)}
	case *formula.Modal:
		v := formula.T(p.GetNewWorldVariable())
		access := &formula.Atom{Pred: p.R, Terms: []formula.Term{world, v}}
		sub := transFrom(g.Sub, v, p)
		if g.Op == formula.OpBox {
			return &formula.Quant{
				Q:      formula.OpAll,
				Var:    v,
				Matrix: &formula.Binary{Op: formula.OpImp, Sub1: access, Sub2: sub},
			}
		}
		return &formula.Quant{
			Q:      formula.OpEx,
			Var:    v,
			Matrix: &formula.Binary{Op: formula.OpAnd, Sub1: access, Sub2: sub},
		}
	}
	return f
}

// TranslateToModal is the inverse on formulas of the shapes produced by
// TranslateFromModal plus those derivable from them by tableau expansion:
// world arguments are stripped from predicates (becoming display labels),
// □ is recovered from ∀v(Rwv→…) and ◇ from ∃v(Rwv∧…). Accessibility atoms
// are returned unchanged; the modalizer decides their fate.
func TranslateToModal(f formula.Formula, p *parser.Parser) formula.Formula {
	switch g := f.(type) {
	case *formula.Atom:
		if g.Pred == p.R || len(g.Terms) == 0 {
			return g
		}
		last := g.Terms[len(g.Terms)-1]
		if !p.IsWorldSymbol(last.Sym) && p.ExpressionType[last.Sym] != parser.WorldConstant {
			return g
		}
		terms := append([]formula.Term{}, g.Terms[:len(g.Terms)-1]...)
		return &formula.Atom{Pred: g.Pred, Terms: terms, World: last.String()}
	case *formula.Not:
		return &formula.Not{Sub: TranslateToModal(g.Sub, p)}
	case *formula.Binary:
		return &formula.Binary{
			Op:   g.Op,
			Sub1: TranslateToModal(g.Sub1, p),
			Sub2: TranslateToModal(g.Sub2, p),
		}
	case *formula.Quant:
		if m, world, ok := boxShape(g, p); ok {
			return &formula.Modal{Op: formula.OpBox, Sub: TranslateToModal(m, p), World: world}
		}
		if m, world, ok := diamondShape(g, p); ok {
			return &formula.Modal{Op: formula.OpDia, Sub: TranslateToModal(m, p), World: world}
		}
		if p.IsWorldSymbol(g.Var.Sym) {
			// S5 translation quantifies worlds with no accessibility
			// guard.
			op := formula.OpBox
			if g.Q == formula.OpEx {
				op = formula.OpDia
			}
			return &formula.Modal{Op: op, Sub: TranslateToModal(g.Matrix, p)}
		}
		return &formula.Quant{Q: g.Q, Var: g.Var, Matrix: TranslateToModal(g.Matrix, p)}
	case *formula.Modal:
		return &formula.Modal{Op: g.Op, Sub: TranslateToModal(g.Sub, p), World: g.World}
	}
	return f
}

// boxShape matches ∀v(Rxv→A) and its NNF sibling ∀v(¬Rxv∨A), returning A
// and the evaluation world x.
func boxShape(q *formula.Quant, p *parser.Parser) (formula.Formula, string, bool) {
	if q.Q != formula.OpAll {
		return nil, "", false
	}
	b, ok := q.Matrix.(*formula.Binary)
	if !ok {
		return nil, "", false
	}
	switch b.Op {
	case formula.OpImp:
		if x, ok := accessAtom(b.Sub1, q.Var, p); ok {
			return b.Sub2, x, true
		}
	case formula.OpOr:
		if n, ok := b.Sub1.(*formula.Not); ok {
			if x, ok := accessAtom(n.Sub, q.Var, p); ok {
				return b.Sub2, x, true
			}
		}
	}
	return nil, "", false
}

// diamondShape matches ∃v(Rxv∧A).
func diamondShape(q *formula.Quant, p *parser.Parser) (formula.Formula, string, bool) {
	if q.Q != formula.OpEx {
		return nil, "", false
	}
	b, ok := q.Matrix.(*formula.Binary)
	if !ok || b.Op != formula.OpAnd {
		return nil, "", false
	}
	if x, ok := accessAtom(b.Sub1, q.Var, p); ok {
		return b.Sub2, x, true
	}
	return nil, "", false
}

func accessAtom(f formula.Formula, v formula.Term, p *parser.Parser) (string, bool) {
	a, ok := f.(*formula.Atom)
	if !ok || a.Pred != p.R || len(a.Terms) != 2 || !a.Terms[1].Equals(v) {
		return "", false
	}
	return a.Terms[0].String(), true
}
