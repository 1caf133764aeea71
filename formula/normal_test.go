package formula_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"treeproof/formula"
	"treeproof/parser"
)

func parse(t *testing.T, s string) (formula.Formula, *parser.Parser) {
	t.Helper()
	p := parser.New()
	f, err := p.ParseFormula(s)
	assert.NoError(t, err)
	return f, p
}

func TestCNF(t *testing.T) {
	cases := []struct {
		input  string
		expect string
	}{
		{"((a∧b)∨(c∧d))∨e", "[[a,c,e],[a,d,e],[b,c,e],[b,d,e]]"},
		{
			"((¬F∨G)∧(B∧¬W))∨((C∧¬E)∧(¬T∨D))",
			"[[¬F,G,C],[¬F,G,¬E],[¬F,G,¬T,D],[B,C],[B,¬E],[B,¬T,D],[¬W,C],[¬W,¬E],[¬W,¬T,D]]",
		},
		{
			"(¬Px∨((¬Py∨Pf(xy))∧(Qxg(x)∧(¬Pg(x)∨¬Rcg(x)))))",
			"[[¬Px,¬Py,Pf(xy)],[¬Px,Qxg(x)],[¬Px,¬Pg(x),¬Rcg(x)]]",
		},
		// duplicate literals within a clause are suppressed
		{"a∨a", "[[a]]"},
		{"(a∨b)∨a", "[[a,b]]"},
	}
	for _, tc := range cases {
		f, _ := parse(t, tc.input)
		assert.Equal(t, tc.expect, formula.ClausesString(formula.CNF(f)), tc.input)
	}
}

func TestCNFDeterministic(t *testing.T) {
	f1, _ := parse(t, "((a∧b)∨(c∧d))∨e")
	f2, _ := parse(t, "((a∧b)∨(c∧d))∨e")
	assert.Equal(t,
		formula.ClausesString(formula.CNF(f1)),
		formula.ClausesString(formula.CNF(f2)))
}

func TestSkolemize(t *testing.T) {
	f, p := parse(t, "∀x∃y(Fx∧∀zHxyz)")
	sk := formula.Skolemize(formula.Normalize(f), p)
	assert.Equal(t, "∀x(Fx∧∀zHxf(x)z)", sk.String())

	g, q := parse(t, "∀x∃y∃zHxyz ∨ ∃v∀wGvw")
	sk2 := formula.Skolemize(formula.Normalize(g), q)
	assert.Equal(t, "(∀xHxf(x)g(x)∨∀wGaw)", sk2.String())
}

func TestClausalNormalForm(t *testing.T) {
	f, p := parse(t, "∀x∃y(Fx∧∀zHxyz)")
	cs := formula.ClausalNormalForm(f, p)
	assert.Equal(t, "[[Fx],[Hxf(x)z]]", formula.ClausesString(cs))
}

func TestNormalizeIdempotenceOnParsed(t *testing.T) {
	inputs := []string{
		"p→(q→p)",
		"¬(p↔q)",
		"∀x(Fx→∃yGxy)",
		"¬∀x¬(Fx∧¬Gxx)",
	}
	for _, s := range inputs {
		f, _ := parse(t, s)
		once := formula.Normalize(f)
		twice := formula.Normalize(once)
		assert.True(t, twice.Equals(once), s)
	}
}
