package model

import (
	"github.com/irifrance/gini"
	"github.com/irifrance/gini/z"
)

type GiniSolver struct {
	solver *gini.Gini
	nVars  int
}

func NewGiniSolver(nVars int, clauses [][]int) *GiniSolver {
	s := &GiniSolver{solver: gini.NewV(nVars), nVars: nVars}
	for _, c := range clauses {
		s.AddClause(c)
	}
	return s
}

func (s *GiniSolver) Solve() bool {
	return s.solver.Solve() == 1
}

func (s *GiniSolver) Model() []bool {
	out := make([]bool, s.nVars)
	for v := 1; v <= s.nVars; v++ {
		out[v-1] = s.solver.Value(z.Var(v).Pos())
	}
	return out
}

func (s *GiniSolver) AddClause(lits []int) {
	for _, l := range lits {
		if l < 0 {
			s.solver.Add(z.Var(-l).Neg())
		} else if l > 0 {
			s.solver.Add(z.Var(l).Pos())
		} else {
			panic("propositional variable cannot be zero")
		}
	}
	s.solver.Add(0)
}
