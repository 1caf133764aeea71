package tableau_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"treeproof/parser"
	"treeproof/prover"
	"treeproof/tableau"
)

func build(t *testing.T, input string, opts prover.Options) *tableau.SentenceTree {
	t.Helper()
	p := parser.New()
	f, err := p.ParseFormula(input)
	assert.NoError(t, err, input)
	fv := prover.Prove(f, p, opts)
	return tableau.NewSentenceTree(fv)
}

func formulas(st *tableau.SentenceTree) []string {
	out := make([]string, len(st.Nodes))
	for i, n := range st.Nodes {
		out[i] = n.Formula.String()
	}
	return out
}

// checkShape asserts the structural invariants: the flat list is exactly
// the reachable set, no removed node survives, origins are ancestors, and
// no node has more than two children.
func checkShape(t *testing.T, st *tableau.SentenceTree) {
	t.Helper()
	reachable := make(map[*tableau.Node]bool)
	var walk func(n *tableau.Node)
	walk = func(n *tableau.Node) {
		assert.False(t, n.IsRemoved)
		assert.LessOrEqual(t, len(n.Children), 2)
		reachable[n] = true
		for _, c := range n.Children {
			assert.Equal(t, n, c.Parent)
			walk(c)
		}
	}
	if st.Root != nil {
		walk(st.Root)
	}
	assert.Equal(t, len(reachable), len(st.Nodes))
	for _, n := range st.Nodes {
		assert.True(t, reachable[n])
		for _, o := range n.FromNodes {
			anc := false
			for a := n.Parent; a != nil; a = a.Parent {
				if a == o {
					anc = true
				}
			}
			assert.True(t, anc, "origin of %s must be an ancestor", n.Formula)
		}
	}
}

func TestTautology(t *testing.T) {
	st := build(t, "p∨¬p", prover.Options{})
	assert.Equal(t, []string{"¬(p∨¬p)", "¬p", "¬¬p"}, formulas(st))
	checkShape(t, st)
	leaf := st.Nodes[2]
	assert.True(t, leaf.ClosedEnd)
	assert.Equal(t, tableau.RuleAlpha, leaf.FromRule)
}

func TestDoubleNegationSplicing(t *testing.T) {
	st := build(t, "¬¬(p∧q)→p", prover.Options{})
	assert.Equal(t,
		[]string{"¬(¬¬(p∧q)→p)", "¬¬(p∧q)", "¬p", "(p∧q)", "p", "q"},
		formulas(st))
	checkShape(t, st)

	dne := st.Nodes[3]
	assert.Equal(t, tableau.RuleDNE, dne.FromRule)
	assert.Equal(t, st.Nodes[1], dne.FromNodes[0])
	assert.Equal(t, dne, st.Nodes[1].DneTo)
	// the dne step is spliced after the second alpha result
	assert.Equal(t, st.Nodes[2], dne.Parent)
	// the expansion of the double negation points at the dne node
	assert.Equal(t, dne, st.Nodes[4].FromNodes[0])
}

func TestBiconditionalPruning(t *testing.T) {
	st := build(t, "(p↔q)→(q↔p)", prover.Options{})
	checkShape(t, st)
	for _, n := range st.Nodes {
		assert.False(t, n.BiconditionalExpansion,
			"byproduct %s must be pruned", n.Formula)
	}
	fs := formulas(st)
	assert.Contains(t, fs, "(p↔q)")
	assert.Contains(t, fs, "¬(q↔p)")
	// the intermediate conjunctions are gone
	assert.NotContains(t, fs, "(p∧q)")
	assert.NotContains(t, fs, "(¬p∧¬q)")

	// the ↔ expansions now trace directly to the biconditionals
	iffNode := st.Nodes[1]
	assert.Equal(t, "(p↔q)", iffNode.Formula.String())
	first := st.Nodes[3]
	assert.Equal(t, "p", first.Formula.String())
	assert.Equal(t, iffNode, first.FromNodes[0])
}

func TestNamingPass(t *testing.T) {
	st := build(t, "∃xFx→∃yFy", prover.Options{})
	checkShape(t, st)
	for _, n := range st.Nodes {
		s := n.Formula.String()
		for _, bad := range []string{"ξ", "ζ", "φ", "ω"} {
			assert.NotContains(t, s, bad)
		}
	}
	fs := formulas(st)
	assert.Contains(t, fs, "Fa")
	assert.Contains(t, fs, "¬Fa")
}

func TestNamingDeterminism(t *testing.T) {
	first := build(t, "∃xFx→∃yFy", prover.Options{})
	second := build(t, "∃xFx→∃yFy", prover.Options{})
	assert.Equal(t, formulas(first), formulas(second))
}

func TestGammaInstantiation(t *testing.T) {
	st := build(t, "∀xFx→Fa", prover.Options{})
	checkShape(t, st)
	assert.Equal(t, []string{"¬(∀xFx→Fa)", "∀xFx", "¬Fa", "Fa"}, formulas(st))
	inst := st.Nodes[3]
	assert.Equal(t, tableau.RuleGamma, inst.FromRule)
	assert.Equal(t, "a", inst.InstanceTerm.String())
}

func TestModalS5(t *testing.T) {
	st := build(t, "□p→p", prover.Options{S5: true})
	checkShape(t, st)
	assert.Equal(t,
		[]string{"¬(∀v(Rwv→pv)→pw)", "∀v(Rwv→pv)", "¬pw", "pw"},
		formulas(st))
	inst := st.Nodes[3]
	assert.Equal(t, tableau.RuleModalGamma, inst.FromRule)
	assert.Equal(t, "w", inst.InstanceTerm.String())

	st.Modalize()
	checkShape(t, st)
	assert.Equal(t,
		[]string{"¬(□p→p)", "□p", "¬p", "p"},
		formulas(st))
	for _, n := range st.Nodes {
		assert.NotContains(t, n.Formula.String(), "R")
	}
}

func TestModalK(t *testing.T) {
	st := build(t, "□(p∧q)→□p", prover.Options{})
	checkShape(t, st)

	st.Modalize()
	checkShape(t, st)
	fs := formulas(st)
	assert.Equal(t,
		[]string{"¬(□(p∧q)→□p)", "□(p∧q)", "¬□p", "¬p", "(p∧q)", "p", "q"},
		fs)
	for _, n := range st.Nodes {
		assert.NotContains(t, n.Formula.String(), "R")
	}
}

func TestUsedSetClosure(t *testing.T) {
	st := build(t, "(p∧(p→q))→q", prover.Options{})
	checkShape(t, st)
	for _, n := range st.Nodes {
		if !n.Used {
			continue
		}
		// every used node's non-biconditional expansion siblings survive
		step := n.ExpansionStep
		for _, m := range st.Nodes {
			if m.ExpansionStep == step {
				assert.True(t, m.Used)
			}
		}
	}
}

func TestStringRendering(t *testing.T) {
	st := build(t, "p∨¬p", prover.Options{})
	out := st.String()
	assert.True(t, strings.HasPrefix(out, "1. ¬(p∨¬p)"))
	assert.Contains(t, out, "alpha from 1")
	assert.Contains(t, out, "✗")
}

func TestCounterModel(t *testing.T) {
	st := build(t, "p→q", prover.Options{})
	m := st.GetCounterModel()
	if assert.NotNil(t, m) {
		assert.True(t, m.Holds("p", nil))
		assert.False(t, m.Holds("q", nil))
	}
}

func TestCounterModelFirstOrder(t *testing.T) {
	st := build(t, "Fa→Fb", prover.Options{})
	m := st.GetCounterModel()
	if assert.NotNil(t, m) {
		assert.Equal(t, 0, m.Denotations["a"])
		assert.Equal(t, 1, m.Denotations["b"])
		assert.True(t, m.Holds("F", []int{0}))
		assert.False(t, m.Holds("F", []int{1}))
	}
}

func TestNoCounterModelOnClosedTree(t *testing.T) {
	st := build(t, "p∨¬p", prover.Options{})
	assert.Nil(t, st.GetCounterModel())
}
