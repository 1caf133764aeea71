package prover_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"treeproof/formula"
	"treeproof/parser"
	"treeproof/prover"
	"treeproof/tableau"
)

func prove(t *testing.T, input string, opts prover.Options) *tableau.FVTree {
	t.Helper()
	p := parser.New()
	f, err := p.ParseFormula(input)
	assert.NoError(t, err, input)
	return prover.Prove(f, p, opts)
}

func TestValidFormulasClose(t *testing.T) {
	valid := []string{
		"p∨¬p",
		"¬(p∧¬p)",
		"p→p",
		"(p∧(p→q))→q",
		"((p→q)∧(q→r))→(p→r)",
		"¬¬p→p",
		"(p↔q)→(q↔p)",
		"∀xFx→Fa",
		"∃xFx→∃yFy",
		"∀x(Fx→Gx)→(∀xFx→∀xGx)",
	}
	for _, s := range valid {
		fv := prove(t, s, prover.Options{})
		assert.True(t, fv.Closed(), s)
	}
}

func TestInvalidFormulasStayOpen(t *testing.T) {
	invalid := []string{
		"p→q",
		"p∧q",
		"Fa→Fb",
		"∃xFx→∀xFx",
	}
	for _, s := range invalid {
		fv := prove(t, s, prover.Options{})
		assert.False(t, fv.Closed(), s)
		assert.NotEmpty(t, fv.OpenBranches, s)
	}
}

func TestModalK(t *testing.T) {
	fv := prove(t, "□(p∧q)→□p", prover.Options{})
	assert.True(t, fv.Closed())

	// □p→p needs reflexivity; K alone cannot prove it
	open := prove(t, "□p→p", prover.Options{})
	assert.False(t, open.Closed())
}

func TestModalS5(t *testing.T) {
	fv := prove(t, "□p→p", prover.Options{S5: true})
	assert.True(t, fv.Closed())
}

func TestInitFormulaVersionsAligned(t *testing.T) {
	fv := prove(t, "□p→p", prover.Options{})
	assert.Len(t, fv.InitFormulas, 1)
	assert.Len(t, fv.InitFormulasNonModal, 1)
	assert.Len(t, fv.InitFormulasNormalized, 1)
	assert.Equal(t, "¬(□p→p)", fv.InitFormulas[0].String())
	assert.Equal(t, "¬(∀v(Rwv→pv)→pw)", fv.InitFormulasNonModal[0].String())
	assert.Equal(t, "(∀v(¬Rwv∨pv)∧¬pw)", fv.InitFormulasNormalized[0].String())
}

func TestProveArgument(t *testing.T) {
	p := parser.New()
	prem, err := p.ParseFormula("∀x(Fx→Gx)")
	assert.NoError(t, err)
	concl, err := p.ParseFormula("Fa→Ga")
	assert.NoError(t, err)
	fv := prover.ProveArgument([]formula.Formula{prem}, concl, p, prover.Options{})
	assert.True(t, fv.Closed())
	assert.Len(t, fv.InitFormulas, 2)
}

func TestClosureMarksUsedNodes(t *testing.T) {
	fv := prove(t, "p∨¬p", prover.Options{})
	assert.True(t, fv.Closed())
	br := fv.ClosedBranches[0]
	used := 0
	for _, n := range br.Nodes {
		if n.Used {
			used++
		}
	}
	assert.GreaterOrEqual(t, used, 3)
	assert.True(t, br.Last().ClosedEnd)
}

func TestGammaInstanceTermResolved(t *testing.T) {
	fv := prove(t, "∀xFx→Fa", prover.Options{})
	assert.True(t, fv.Closed())
	var gamma *tableau.Node
	for _, n := range fv.ClosedBranches[0].Nodes {
		if n.FromRule == tableau.RuleGamma {
			gamma = n
		}
	}
	if assert.NotNil(t, gamma) {
		assert.Equal(t, "a", gamma.InstanceTerm.String())
		assert.Equal(t, "Fa", gamma.Formula.String())
	}
}
