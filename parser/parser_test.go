package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParser(t *testing.T) {
	type testcase struct {
		input  string
		expect string
	}

	cases := []testcase{
		{"p", "p"},
		{"¬p", "¬p"},
		{"~p", "¬p"},
		{"p∧q", "(p∧q)"},
		{"p & q | r", "((p∧q)∨r)"},
		{"p -> q", "(p→q)"},
		{"p <-> q", "(p↔q)"},
		{"[]p", "□p"},
		{"<>p", "◇p"},
		{"□p→◇p", "(□p→◇p)"},
		{"□(p→q)→(□p→□q)", "(□(p→q)→(□p→□q))"},
		{"Fa", "Fa"},
		{"Pf(xy)", "Pf(xy)"},
		{"Qxg(x)", "Qxg(x)"},
		{"∀xFx", "∀xFx"},
		{"∀x∃y(Fx∧∀zHxyz)", "∀x∃y(Fx∧∀zHxyz)"},
		{"∀x∃y∃zHxyz ∨ ∃v∀wGvw", "(∀x∃y∃zHxyz∨∃v∀wGvw)"},
		{"((a∧b)∨(c∧d))∨e", "(((a∧b)∨(c∧d))∨e)"},
	}

	for _, tc := range cases {
		p := New()
		f, err := p.ParseFormula(tc.input)
		assert.NoError(t, err, tc.input)
		assert.Equal(t, tc.expect, f.String(), tc.input)
	}
}

func TestArities(t *testing.T) {
	p := New()
	_, err := p.ParseFormula("(¬Px∨((¬Py∨Pf(xy))∧(Qxg(x)∧(¬Pg(x)∨¬Rcg(x)))))")
	assert.NoError(t, err)
	assert.Equal(t, 1, p.Arities["P"])
	assert.Equal(t, 2, p.Arities["Q"])
	assert.Equal(t, 2, p.Arities["R"])
	assert.Equal(t, 2, p.Arities["f"])
	assert.Equal(t, 1, p.Arities["g"])
	assert.Equal(t, FunctionSymbol, p.ExpressionType["f"])
	assert.Equal(t, IndividualConstant, p.ExpressionType["c"])
	assert.Equal(t, Variable, p.ExpressionType["x"])
	assert.False(t, p.IsPropositional)
}

func TestArityMismatch(t *testing.T) {
	p := New()
	_, err := p.ParseFormula("Px∧Pxy")
	assert.Error(t, err)
}

func TestPropositionalFlag(t *testing.T) {
	p := New()
	_, err := p.ParseFormula("p∧¬q")
	assert.NoError(t, err)
	assert.True(t, p.IsPropositional)
}

func TestFreshConstants(t *testing.T) {
	p := New()
	assert.Equal(t, "a", p.GetNewConstant())
	assert.Equal(t, "b", p.GetNewConstant())

	q := New()
	q.RegisterExpression("a", Predicate, 0)
	assert.Equal(t, "b", q.GetNewConstant())
}

func TestFreshWorldNames(t *testing.T) {
	p := New()
	assert.Equal(t, "v", p.GetNewWorldName(false))
	assert.Equal(t, "u", p.GetNewWorldName(false))
	assert.Equal(t, WorldConstant, p.ExpressionType["v"])
	assert.True(t, p.IsWorldSymbol("v"))

	assert.Equal(t, "ω1", p.GetNewWorldName(true))
	assert.Equal(t, "ω2", p.GetNewWorldName(true))
}

func TestFreshVariablesAndSkolems(t *testing.T) {
	p := New()
	assert.Equal(t, "ξ1", p.FreshFreeVariable())
	assert.Equal(t, "ξ2", p.FreshFreeVariable())
	assert.Equal(t, "ζ1", p.FreshFreeWorldVariable())
	assert.True(t, p.IsWorldSymbol("ζ1"))
	assert.Equal(t, "φ1", p.FreshSkolemFunction())
}

func TestWorldNameNeverW(t *testing.T) {
	p := New()
	for i := 0; i < 30; i++ {
		assert.NotEqual(t, "w", p.GetNewWorldName(false))
	}
}
