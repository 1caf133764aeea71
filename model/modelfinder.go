package model

import (
	"strings"

	"treeproof/formula"
	"treeproof/parser"
)

// Modelfinder searches for a finite model of a formula set by grounding
// its clausal form over domains of growing size and handing the result to
// a SAT backend. Clause sets with function terms have an unbounded ground
// base and are declined; the branch reader handles those.
type Modelfinder struct {
	Parser    *parser.Parser
	Backend   Backend
	MaxDomain int
}

func NewModelfinder(p *parser.Parser) *Modelfinder {
	return &Modelfinder{Parser: p, MaxDomain: 3}
}

// Find returns a model of fs, or nil.
func (mf *Modelfinder) Find(fs []formula.Formula) *Model {
	var clauses []formula.Clause
	for _, f := range fs {
		clauses = append(clauses, formula.ClausalNormalForm(f, mf.Parser)...)
	}
	consts := mf.collectConstants(clauses)
	for _, c := range clauses {
		for _, lit := range c {
			if hasCompositeTerm(lit) {
				return nil
			}
		}
	}
	for n := 1; n <= mf.MaxDomain; n++ {
		if m := mf.findWithSize(clauses, consts, n); m != nil {
			return m
		}
	}
	return nil
}

func (mf *Modelfinder) collectConstants(clauses []formula.Clause) []string {
	var out []string
	seen := make(map[string]bool)
	for _, c := range clauses {
		for _, lit := range c {
			formula.Walk(lit, func(t formula.Term) bool {
				if t.Atomic() && !mf.isVariable(t.Sym) && !seen[t.Sym] {
					seen[t.Sym] = true
					out = append(out, t.Sym)
				}
				return true
			})
		}
	}
	return out
}

func (mf *Modelfinder) isVariable(sym string) bool {
	return mf.Parser.ExpressionType[sym] == parser.Variable
}

func hasCompositeTerm(f formula.Formula) bool {
	found := false
	formula.Walk(f, func(t formula.Term) bool {
		if !t.Atomic() {
			found = true
		}
		return true
	})
	return found
}

func (mf *Modelfinder) findWithSize(clauses []formula.Clause, consts []string, n int) *Model {
	// constants denote fixed elements: the i-th fresh constant is element
	// min(i, n-1)
	denot := make(map[string]int)
	for i, c := range consts {
		e := i
		if e > n-1 {
			e = n - 1
		}
		denot[c] = e
	}
	atomVar := make(map[string]int)
	varOf := func(key string) int {
		if v, ok := atomVar[key]; ok {
			return v
		}
		v := len(atomVar) + 1
		atomVar[key] = v
		return v
	}
	var ground [][]int
	for _, c := range clauses {
		vars := clauseVariables(c, mf)
		assignments := enumerate(len(vars), n)
		for _, asg := range assignments {
			env := make(map[string]int, len(vars))
			for i, v := range vars {
				env[v] = asg[i]
			}
			var lits []int
			ok := true
			for _, lit := range c {
				neg := false
				f := lit
				if nn, isNeg := f.(*formula.Not); isNeg {
					neg = true
					f = nn.Sub
				}
				a, isAtom := f.(*formula.Atom)
				if !isAtom {
					ok = false
					break
				}
				elems := make([]int, len(a.Terms))
				for i, t := range a.Terms {
					if e, bound := env[t.Sym]; bound {
						elems[i] = e
					} else {
						elems[i] = denot[t.Sym]
					}
				}
				v := varOf(a.Pred + "(" + tupleKey(elems) + ")")
				if neg {
					v = -v
				}
				lits = append(lits, v)
			}
			if ok {
				ground = append(ground, lits)
			}
		}
	}
	s := newSolver(mf.Backend, len(atomVar), ground)
	if !s.Solve() {
		return nil
	}
	asg := s.Model()
	m := New(mf.Parser, n, 0)
	for sym, e := range denot {
		if mf.Parser.IsWorldSymbol(sym) || mf.Parser.ExpressionType[sym] == parser.WorldConstant {
			m.WorldDenotations[sym] = e
			for len(m.Worlds) <= e {
				m.Worlds = append(m.Worlds, len(m.Worlds))
			}
		} else {
			m.Denotations[sym] = e
		}
	}
	for key, v := range atomVar {
		if v-1 < len(asg) && asg[v-1] {
			i := strings.IndexByte(key, '(')
			m.addPos(key[:i], key[i+1:len(key)-1])
		}
	}
	return m
}

func clauseVariables(c formula.Clause, mf *Modelfinder) []string {
	var out []string
	seen := make(map[string]bool)
	for _, lit := range c {
		formula.Walk(lit, func(t formula.Term) bool {
			if t.Atomic() && mf.isVariable(t.Sym) && !seen[t.Sym] {
				seen[t.Sym] = true
				out = append(out, t.Sym)
			}
			return true
		})
	}
	return out
}

// enumerate lists every assignment of k variables to elements 0..n-1.
func enumerate(k, n int) [][]int {
	if k == 0 {
		return [][]int{{}}
	}
	rest := enumerate(k-1, n)
	out := make([][]int, 0, len(rest)*n)
	for e := 0; e < n; e++ {
		for _, r := range rest {
			out = append(out, append([]int{e}, r...))
		}
	}
	return out
}
