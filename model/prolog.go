package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ichiban/prolog"

	"treeproof/formula"
	"treeproof/parser"
)

// CheckWithProlog confirms through a Prolog interpreter that m satisfies
// every formula in fs: the model's positive facts become a program and the
// formulas become queries, with quantifiers ranging over dom/1 and
// world/1 by member-style enumeration. Negation is negation as failure,
// which matches the closed-world reading of a canonical model.
func CheckWithProlog(m *Model, fs []formula.Formula) bool {
	program := m.prologProgram()
	p := prolog.New(nil, nil)
	if err := p.Exec(program); err != nil {
		return false
	}
	for _, f := range fs {
		q, ok := m.prologQuery(formula.Normalize(f), make(map[string]string), new(int))
		if !ok {
			return false
		}
		solutions, err := p.Query(q + ".")
		if err != nil {
			return false
		}
		found := solutions.Next()
		if err := solutions.Close(); err != nil {
			return false
		}
		if !found {
			return false
		}
	}
	return true
}

func (m *Model) prologProgram() string {
	var b strings.Builder
	preds := make([]string, 0, len(m.extPos))
	arity := make(map[string]int)
	for pred, s := range m.extPos {
		preds = append(preds, pred)
		for _, tuple := range s.ToSlice() {
			if tuple == "" {
				arity[pred] = 0
			} else {
				arity[pred] = len(strings.Split(tuple, ","))
			}
			break
		}
	}
	// predicates with empty extensions still need declarations, or
	// negated queries raise existence errors
	for sym, kind := range m.parser.ExpressionType {
		if kind == parser.Predicate {
			if _, seen := arity[sym]; !seen {
				arity[sym] = m.parser.Arities[sym]
				preds = append(preds, sym)
			}
		}
	}
	sort.Strings(preds)
	for _, pred := range preds {
		fmt.Fprintf(&b, ":- dynamic(%s/%d).\n", prologAtom(pred), arity[pred])
		for _, tuple := range m.Extension(pred) {
			if tuple == "" {
				fmt.Fprintf(&b, "%s.\n", prologAtom(pred))
			} else {
				fmt.Fprintf(&b, "%s(%s).\n", prologAtom(pred), tuple)
			}
		}
	}
	b.WriteString(":- dynamic(dom/1).\n")
	for _, e := range m.Domain {
		fmt.Fprintf(&b, "dom(%d).\n", e)
	}
	b.WriteString(":- dynamic(world/1).\n")
	for _, e := range m.Worlds {
		fmt.Fprintf(&b, "world(%d).\n", e)
	}
	return b.String()
}

// prologQuery renders an NNF formula as a Prolog goal. env maps bound
// variables to Prolog variable names.
func (m *Model) prologQuery(f formula.Formula, env map[string]string, counter *int) (string, bool) {
	switch g := f.(type) {
	case *formula.Atom:
		args := make([]string, len(g.Terms))
		for i, t := range g.Terms {
			a, ok := m.prologTerm(t, env)
			if !ok {
				return "", false
			}
			args[i] = a
		}
		if len(args) == 0 {
			return prologAtom(g.Pred), true
		}
		return fmt.Sprintf("%s(%s)", prologAtom(g.Pred), strings.Join(args, ",")), true
	case *formula.Not:
		sub, ok := m.prologQuery(g.Sub, env, counter)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("\\+ (%s)", sub), true
	case *formula.Binary:
		s1, ok1 := m.prologQuery(g.Sub1, env, counter)
		s2, ok2 := m.prologQuery(g.Sub2, env, counter)
		if !ok1 || !ok2 {
			return "", false
		}
		switch g.Op {
		case formula.OpAnd:
			return fmt.Sprintf("(%s, %s)", s1, s2), true
		case formula.OpOr:
			return fmt.Sprintf("(%s ; %s)", s1, s2), true
		}
		return "", false
	case *formula.Quant:
		*counter++
		v := fmt.Sprintf("X%d", *counter)
		inner := make(map[string]string, len(env)+1)
		for k, val := range env {
			inner[k] = val
		}
		inner[g.Var.Sym] = v
		sub, ok := m.prologQuery(g.Matrix, inner, counter)
		if !ok {
			return "", false
		}
		dom := "dom"
		if m.parser.IsWorldSymbol(g.Var.Sym) {
			dom = "world"
		}
		if g.Q == formula.OpAll {
			return fmt.Sprintf("\\+ ((%s(%s), \\+ (%s)))", dom, v, sub), true
		}
		return fmt.Sprintf("(%s(%s), %s)", dom, v, sub), true
	}
	return "", false
}

func (m *Model) prologTerm(t formula.Term, env map[string]string) (string, bool) {
	if v, bound := env[t.Sym]; bound && t.Atomic() {
		return v, true
	}
	if !m.Ground(t) {
		return "", false
	}
	key := t.String()
	if m.isWorldTerm(t) {
		if e, ok := m.WorldDenotations[key]; ok {
			return fmt.Sprintf("%d", e), true
		}
		return "", false
	}
	if e, ok := m.Denotations[key]; ok {
		return fmt.Sprintf("%d", e), true
	}
	return "", false
}

// prologAtom makes a predicate name safe as a Prolog functor.
func prologAtom(pred string) string {
	return "p_" + pred
}
