package model

import (
	"github.com/crillab/gophersat/solver"
)

type GopherSolver struct {
	solver *solver.Solver
}

func NewGopherSolver(nVars int, clauses [][]int) *GopherSolver {
	cs := make([][]int, 0, len(clauses)+1)
	// mention every variable so the problem knows its size
	for v := 1; v <= nVars; v++ {
		cs = append(cs, []int{v, -v})
	}
	cs = append(cs, clauses...)
	pb := solver.ParseSlice(cs)
	return &GopherSolver{solver: solver.New(pb)}
}

func (s *GopherSolver) Solve() bool {
	return s.solver.Solve() == solver.Sat
}

func (s *GopherSolver) Model() []bool {
	return s.solver.Model()
}

func (s *GopherSolver) AddClause(lits []int) {
	ls := make([]solver.Lit, 0, len(lits))
	for _, l := range lits {
		ls = append(ls, solver.IntToLit(int32(l)))
	}
	s.solver.AppendClause(solver.NewClause(ls))
}
